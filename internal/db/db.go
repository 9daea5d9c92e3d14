package db

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDatabase = "cards"

// ConnectToDB opens a client for mongoURI and returns the database named in
// the URI path, or "cards" when the path is empty.
func ConnectToDB(mongoURI string) (*mongo.Database, *mongo.Client, error) {
	if mongoURI == "" {
		return nil, nil, errors.New("empty MongoDB URI")
	}

	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, nil, err
	}

	dbName := strings.TrimPrefix(uri.Path, "/")
	if dbName == "" {
		dbName = defaultDatabase
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client.Database(dbName), client, nil
}

// CreateIndexForCollection adds an ascending index on field.
func CreateIndexForCollection(ctx context.Context, db *mongo.Database, collectionName, field string) error {
	collection := db.Collection(collectionName)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(field + "_1"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
