package registry

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRegistry stores index definitions in a MongoDB collection.
type MongoRegistry struct {
	coll *mongo.Collection
}

// NewMongoRegistry creates a registry backed by the given collection.
func NewMongoRegistry(db *mongo.Database, collection string) *MongoRegistry {
	return &MongoRegistry{coll: db.Collection(collection)}
}

func (r *MongoRegistry) List(ctx context.Context) ([]Definition, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var defs []Definition
	for cursor.Next(ctx) {
		var def Definition
		if err := cursor.Decode(&def); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, cursor.Err()
}

func (r *MongoRegistry) Get(ctx context.Context, name string) (*Definition, error) {
	var def Definition
	err := r.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&def)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *MongoRegistry) Put(ctx context.Context, def Definition) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": def.Name}, def, opts)
	return err
}

func (r *MongoRegistry) Delete(ctx context.Context, name string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": name})
	return err
}
