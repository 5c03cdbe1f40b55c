package seq

import (
	"context"
	"time"

	issuemodel "NagarSeva/module/issue/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCounters implements CounterStore on the ticket_counters collection.
type MongoCounters struct {
	DB *mongo.Database
}

// Incr atomically bumps the counter for key and returns the new value.
// A single FindOneAndUpdate with $inc: two racing callers each get their own
// value, a missing key is upserted and the first issued value is 1.
func (m *MongoCounters) Incr(ctx context.Context, key string) (int64, error) {
	counter := issuemodel.TicketCounter{}
	c := m.DB.Collection(counter.GetTableName())
	now := time.Now()

	filter := bson.M{issuemodel.CounterFieldKey: key}
	update := bson.M{
		"$inc":         bson.M{issuemodel.CounterFieldSeq: int64(1)},
		"$setOnInsert": bson.M{issuemodel.CounterFieldCreateTime: now},
		"$set":         bson.M{issuemodel.CounterFieldUpdateTime: now},
	}

	var after struct {
		Seq int64 `bson:"seq"`
	}
	err := c.FindOneAndUpdate(
		ctx, filter, update,
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&after)
	if err != nil {
		return 0, err
	}
	return after.Seq, nil
}
