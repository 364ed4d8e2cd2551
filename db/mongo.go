package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.vocdoni.io/dvote/log"
)

const defaultTimeout = 10 * time.Second

// MongoStorage uses an external MongoDB service for storing providers,
// recipients, incidents and their event histories.
type MongoStorage struct {
	client   *mongo.Client
	database string

	providers  *mongo.Collection
	recipients *mongo.Collection
	incidents  *mongo.Collection
	events     *mongo.Collection
}

func New(url, database string) (*MongoStorage, error) {
	var err error
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Infow("connecting to mongodb", "url", url, "database", database)
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.database = database
	ms.initCollections(database)
	// if the reset flag is enabled, drop the database documents and recreate
	// the indexes, otherwise only create the indexes
	if reset := os.Getenv("INCIDENT_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
	} else if err := ms.createIndexes(); err != nil {
		return nil, err
	}
	return ms, nil
}

func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

func (ms *MongoStorage) initCollections(database string) {
	db := ms.client.Database(database)
	ms.providers = db.Collection("providers")
	ms.recipients = db.Collection("recipients")
	ms.incidents = db.Collection("incidents")
	ms.events = db.Collection("events")
}

// Reset drops every collection and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Infof("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	for _, col := range []*mongo.Collection{ms.providers, ms.recipients, ms.incidents, ms.events} {
		if err := col.Drop(ctx); err != nil {
			return err
		}
	}
	return ms.createIndexes()
}

func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	// index recipients by provider for fan-out lookups
	if _, err := ms.recipients.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "providerId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("cannot create recipients index: %w", err)
	}
	// index events by incident preserving insertion order for audit reads
	if _, err := ms.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "incidentId", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("cannot create events index: %w", err)
	}
	return nil
}
