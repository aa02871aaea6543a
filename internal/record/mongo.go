package record

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// recordDoc is the MongoDB representation of a record. The latest working
// snapshot lives in data; the published snapshot, if any, in published.
type recordDoc struct {
	ID        string                 `bson:"_id"`
	Type      string                 `bson:"type"`
	Data      map[string]interface{} `bson:"data"`
	Published map[string]interface{} `bson:"published,omitempty"`
	HasPub    bool                   `bson:"has_published"`
	Version   int64                  `bson:"version"`
	UpdatedAt int64                  `bson:"updated_at"`
}

// MongoStore resolves records from a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a record store backed by the given collection.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{coll: db.Collection(collection)}
}

func (s *MongoStore) ResolveMany(ctx context.Context, ids []string, latest bool) (map[string]Record, error) {
	result := make(map[string]Record, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	if !latest {
		filter["has_published"] = true
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc recordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rec := Record{
			ID:        doc.ID,
			Type:      doc.Type,
			Data:      doc.Data,
			Version:   doc.Version,
			UpdatedAt: doc.UpdatedAt,
		}
		if !latest {
			rec.Data = doc.Published
		}
		result[rec.ID] = rec
	}
	return result, cursor.Err()
}
