package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type leaseDoc struct {
	Name      string `bson:"_id"`
	Owner     string `bson:"owner"`
	ExpiresAt int64  `bson:"expires_at"`
}

// MongoLocker implements Locker with a lease collection, usable across
// multiple synchronizer instances sharing one database.
type MongoLocker struct {
	coll *mongo.Collection
}

// NewMongoLocker creates a locker backed by the given collection.
func NewMongoLocker(db *mongo.Database, collection string) *MongoLocker {
	return &MongoLocker{coll: db.Collection(collection)}
}

func (l *MongoLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (Lease, error) {
	owner := uuid.NewString()
	now := time.Now()

	// Take over an expired lease first.
	res, err := l.coll.UpdateOne(ctx,
		bson.M{"_id": name, "expires_at": bson.M{"$lt": now.UnixMilli()}},
		bson.M{"$set": bson.M{"owner": owner, "expires_at": now.Add(ttl).UnixMilli()}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 1 {
		return &mongoLease{coll: l.coll, name: name, owner: owner}, nil
	}

	// No expired lease to take over; try to create one.
	_, err = l.coll.InsertOne(ctx, leaseDoc{
		Name:      name,
		Owner:     owner,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrNotAcquired
		}
		return nil, err
	}
	return &mongoLease{coll: l.coll, name: name, owner: owner}, nil
}

type mongoLease struct {
	coll  *mongo.Collection
	name  string
	owner string
}

func (l *mongoLease) Release(ctx context.Context) error {
	// Only the owner may release; an expired and taken-over lease matches
	// nothing here.
	_, err := l.coll.DeleteOne(ctx, bson.M{"_id": l.name, "owner": l.owner})
	return err
}
