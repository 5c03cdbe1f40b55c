package model

import (
	"time"

	"NagarSeva/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// TicketCounter holds the monotonically increasing sequence for one
// CITYCODE-DEPTCODE key. Seq is only ever moved by an atomic $inc; a
// read-then-write pair would hand two conversations the same number.
type TicketCounter struct {
	Key        string    `bson:"key"` // e.g. "BHO-WA"
	Seq        int64     `bson:"seq"`
	CreateTime time.Time `bson:"create_time"`
	UpdateTime time.Time `bson:"update_time"`
}

const (
	CounterFieldKey        = "key"
	CounterFieldSeq        = "seq"
	CounterFieldCreateTime = "create_time"
	CounterFieldUpdateTime = "update_time"
)

func (c *TicketCounter) GetTableName() string {
	return "ticket_counters"
}

func (c *TicketCounter) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(c.GetTableName())
}
