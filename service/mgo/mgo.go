package mgo

import (
	"context"
	"sync"

	mongoutil "NagarSeva/data/database/mgo/mongoutil"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	mu     sync.RWMutex
	client *mongoutil.Client
)

// Init connects and installs the process-wide database handle. The server
// cannot serve anything without Mongo, so boot blocks here.
func Init(ctx context.Context, cfg *mongoutil.Config) error {
	cli, err := mongoutil.NewMongoDB(ctx, cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	client = cli
	mu.Unlock()
	return nil
}

func GetDB() *mongo.Database {
	mu.RLock()
	defer mu.RUnlock()
	if client == nil {
		panic("mongo not initialized, call mgo.Init first")
	}
	return client.GetDB()
}
