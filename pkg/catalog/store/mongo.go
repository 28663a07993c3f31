package store

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/toolshelf/toolshelf/pkg/catalog"
	"github.com/toolshelf/toolshelf/pkg/errors"
)

// MongoStore keeps the catalog in a MongoDB collection, one document per
// tool keyed by name. Records round-trip through the catalog JSON codec
// so passthrough fields survive the same way they do in file catalogs.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoOptions configures the MongoDB connection.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "pinging MongoDB")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Load reads every tool document in the collection.
func (s *MongoStore) Load(ctx context.Context) (catalog.Catalog, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "querying catalog collection")
	}
	defer cursor.Close(ctx)

	c := catalog.Catalog{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decoding catalog document")
		}
		name, _ := doc["_id"].(string)
		delete(doc, "_id")

		data, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "encoding document %q", name)
		}
		tool := &catalog.Tool{}
		if err := json.Unmarshal(data, tool); err != nil {
			return nil, err
		}
		c[name] = tool
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "iterating catalog collection")
	}
	return c, nil
}

// Save upserts every tool document, keyed by catalog name.
func (s *MongoStore) Save(ctx context.Context, c catalog.Catalog) error {
	for _, name := range c.Names() {
		data, err := json.Marshal(c[name])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encoding tool %q", name)
		}
		var doc bson.M
		if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "converting tool %q", name)
		}
		doc["_id"] = name

		_, err = s.collection.ReplaceOne(ctx,
			bson.D{{Key: "_id", Value: name}}, doc,
			options.Replace().SetUpsert(true))
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "saving tool %q", name)
		}
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
