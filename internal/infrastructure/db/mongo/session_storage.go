package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bahath/jobz-web/internal/core/ports"
)

const storageCollection = "browser_sessions"

// StorageRepository keeps one document per browser:
//
//	{_id: <browser_id>, items: {token: "...", user: "..."}, updated_at: <date>}
type StorageRepository struct {
	coll *mongo.Collection
}

// NewStorageRepository wraps the browser_sessions collection of db.
func NewStorageRepository(db *mongo.Database) *StorageRepository {
	return &StorageRepository{coll: db.Collection(storageCollection)}
}

// EnsureIndexes creates the ttl index on updated_at. A ttl <= 0 skips it.
func (r *StorageRepository) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())).SetName("updated_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

// Factory returns a ports.StorageFactory scoped to this repository.
func (r *StorageRepository) Factory() ports.StorageFactory {
	return func(browserID string) ports.SessionStorage {
		return &SessionStorage{coll: r.coll, id: browserID}
	}
}

type storageDoc struct {
	ID        string            `bson:"_id"`
	Items     map[string]string `bson:"items"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// SessionStorage is the durable storage of one browser, backed by MongoDB.
type SessionStorage struct {
	coll *mongo.Collection
	id   string
}

// GetItem returns the stored value or ports.ErrStorageKeyNotFound.
func (s *SessionStorage) GetItem(ctx context.Context, key string) (string, error) {
	var doc storageDoc
	opts := options.FindOne().SetProjection(bson.M{"items." + key: 1})
	if err := s.coll.FindOne(ctx, bson.M{"_id": s.id}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ports.ErrStorageKeyNotFound
		}
		return "", fmt.Errorf("find storage item %s: %w", key, err)
	}

	v, ok := doc.Items[key]
	if !ok {
		return "", ports.ErrStorageKeyNotFound
	}
	return v, nil
}

// SetItem upserts key in the browser's document.
func (s *SessionStorage) SetItem(ctx context.Context, key, value string) error {
	update := bson.M{
		"$set": bson.M{
			"items." + key: value,
			"updated_at":   time.Now().UTC(),
		},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set storage item %s: %w", key, err)
	}
	return nil
}

// RemoveItem unsets key. Removing a missing key is not an error.
func (s *SessionStorage) RemoveItem(ctx context.Context, key string) error {
	update := bson.M{
		"$unset": bson.M{"items." + key: ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.id}, update); err != nil {
		return fmt.Errorf("remove storage item %s: %w", key, err)
	}
	return nil
}
