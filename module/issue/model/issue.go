package model

import (
	"time"

	"NagarSeva/service/mgo"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Issue status lifecycle labels, mutated by the staff console.
const (
	StatusPending  = "Pending"
	StatusAssigned = "Assigned"
	StatusClosed   = "Closed"
)

// Urgency tiers, assigned once at intake and never recomputed.
const (
	UrgencyHigh   = "High"
	UrgencyMedium = "Medium"
	UrgencyLow    = "Low"
)

// Location is the structured address collected step by step during intake.
type Location struct {
	City          string `bson:"city" json:"city"`
	StreetDetails string `bson:"streetDetails,omitempty" json:"streetDetails,omitempty"`
	Landmark      string `bson:"landmark" json:"landmark"`
	Pincode       string `bson:"pincode" json:"pincode"`
}

// Issue is one grievance record. TicketID is the citizen-facing identity
// (CITYCODE-DEPTCODE-SEQ); the Mongo _id never leaves the console API.
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TicketID    string             `bson:"ticket_id" json:"ticketId"`
	Phone       string             `bson:"phone" json:"phone"`
	Department  string             `bson:"department" json:"department"`
	Location    Location           `bson:"location" json:"location"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`

	Status  string `bson:"status" json:"status"`
	Urgency string `bson:"urgency" json:"urgency"`

	// staff workflow fields
	Resolution     string              `bson:"resolution,omitempty" json:"resolution,omitempty"`
	ResolutionDate *time.Time          `bson:"resolution_date,omitempty" json:"resolutionDate,omitempty"`
	Comments       string              `bson:"comments,omitempty" json:"comments,omitempty"`
	AssignedTo     *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

const (
	IssueFieldTicketID   = "ticket_id"
	IssueFieldPhone      = "phone"
	IssueFieldDepartment = "department"
	IssueFieldStatus     = "status"
	IssueFieldUrgency    = "urgency"
	IssueFieldResolution = "resolution"
	IssueFieldResDate    = "resolution_date"
	IssueFieldComments   = "comments"
	IssueFieldAssignedTo = "assigned_to"
	IssueFieldTimestamp  = "timestamp"
)

func (i *Issue) GetTableName() string {
	return "issues"
}

func (i *Issue) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(i.GetTableName())
}
