// Package store is the Mongo persistence layer for grievance records. The
// intake flow consumes it as a narrow record sink; the staff console uses
// the full query surface.
package store

import (
	"context"
	"time"

	issuemodel "NagarSeva/module/issue/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{DB: db}
}

func (s *Store) coll() *mongo.Collection {
	issue := issuemodel.Issue{}
	return s.DB.Collection(issue.GetTableName())
}

func (s *Store) Create(ctx context.Context, issue *issuemodel.Issue) error {
	if issue.Status == "" {
		issue.Status = issuemodel.StatusPending
	}
	if issue.Timestamp.IsZero() {
		issue.Timestamp = time.Now()
	}
	res, err := s.coll().InsertOne(ctx, issue)
	if err != nil {
		return errors.Wrap(err, "insert issue")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		issue.ID = oid
	}
	return nil
}

// FindByTicketID returns (nil, nil) when no record exists so callers can
// tell "not found" apart from a storage failure.
func (s *Store) FindByTicketID(ctx context.Context, ticketID string) (*issuemodel.Issue, error) {
	var issue issuemodel.Issue
	err := s.coll().FindOne(ctx, bson.M{issuemodel.IssueFieldTicketID: ticketID}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find issue by ticket id")
	}
	return &issue, nil
}

// ListAll returns every issue, newest first.
func (s *Store) ListAll(ctx context.Context) ([]issuemodel.Issue, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) FindByStatus(ctx context.Context, status string) ([]issuemodel.Issue, error) {
	return s.list(ctx, bson.M{issuemodel.IssueFieldStatus: status})
}

func (s *Store) ListByAssignee(ctx context.Context, employeeID primitive.ObjectID) ([]issuemodel.Issue, error) {
	return s.list(ctx, bson.M{issuemodel.IssueFieldAssignedTo: employeeID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]issuemodel.Issue, error) {
	cur, err := s.coll().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: issuemodel.IssueFieldTimestamp, Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "list issues")
	}
	defer cur.Close(ctx)

	var out []issuemodel.Issue
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode issues")
	}
	return out, nil
}

// UpdateByTicketID applies a partial staff edit and returns the new record.
// Setting status back to Pending clears the assignee.
func (s *Store) UpdateByTicketID(ctx context.Context, ticketID string, updates bson.M) (*issuemodel.Issue, error) {
	if len(updates) == 0 {
		return s.FindByTicketID(ctx, ticketID)
	}
	update := bson.M{"$set": updates}
	if status, ok := updates[issuemodel.IssueFieldStatus]; ok && status == issuemodel.StatusPending {
		delete(updates, issuemodel.IssueFieldAssignedTo)
		update["$unset"] = bson.M{issuemodel.IssueFieldAssignedTo: ""}
	}

	var issue issuemodel.Issue
	err := s.coll().FindOneAndUpdate(ctx,
		bson.M{issuemodel.IssueFieldTicketID: ticketID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "update issue")
	}
	return &issue, nil
}

// Assign sets the assignee and status Assigned; a nil employeeID unassigns
// and resets status to Pending.
func (s *Store) Assign(ctx context.Context, issueID primitive.ObjectID, employeeID *primitive.ObjectID) (*issuemodel.Issue, error) {
	var update bson.M
	if employeeID == nil {
		update = bson.M{
			"$set":   bson.M{issuemodel.IssueFieldStatus: issuemodel.StatusPending},
			"$unset": bson.M{issuemodel.IssueFieldAssignedTo: ""},
		}
	} else {
		update = bson.M{"$set": bson.M{
			issuemodel.IssueFieldStatus:     issuemodel.StatusAssigned,
			issuemodel.IssueFieldAssignedTo: *employeeID,
		}}
	}

	var issue issuemodel.Issue
	err := s.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": issueID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "assign issue")
	}
	return &issue, nil
}

// Stats is the dashboard aggregation.
type Stats struct {
	Total        int64            `json:"total"`
	Assigned     int64            `json:"assigned"`
	Pending      int64            `json:"pending"`
	Closed       int64            `json:"closed"`
	Resolved     int64            `json:"resolved"`
	Unresolved   int64            `json:"unresolved"`
	ByDepartment map[string]int64 `json:"byDepartment"`
	ByUrgency    map[string]int64 `json:"byUrgency"`
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	c := s.coll()
	stats := &Stats{
		ByDepartment: map[string]int64{},
		ByUrgency:    map[string]int64{},
	}

	counts := []struct {
		dst    *int64
		filter bson.M
	}{
		{&stats.Total, bson.M{}},
		{&stats.Assigned, bson.M{issuemodel.IssueFieldStatus: issuemodel.StatusAssigned}},
		{&stats.Pending, bson.M{issuemodel.IssueFieldStatus: issuemodel.StatusPending}},
		{&stats.Closed, bson.M{issuemodel.IssueFieldStatus: issuemodel.StatusClosed}},
		{&stats.Resolved, bson.M{issuemodel.IssueFieldResolution: "Resolved"}},
		{&stats.Unresolved, bson.M{issuemodel.IssueFieldResolution: "Unresolved"}},
	}
	for _, cnt := range counts {
		n, err := c.CountDocuments(ctx, cnt.filter)
		if err != nil {
			return nil, errors.Wrap(err, "count issues")
		}
		*cnt.dst = n
	}

	for _, u := range []string{issuemodel.UrgencyHigh, issuemodel.UrgencyMedium, issuemodel.UrgencyLow} {
		n, err := c.CountDocuments(ctx, bson.M{issuemodel.IssueFieldUrgency: u})
		if err != nil {
			return nil, errors.Wrap(err, "count by urgency")
		}
		stats.ByUrgency[u] = n
	}

	cur, err := c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + issuemodel.IssueFieldDepartment,
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "aggregate by department")
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode department counts")
	}
	for _, r := range rows {
		stats.ByDepartment[r.ID] = r.Count
	}
	return stats, nil
}
