package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/webinar_backend/config"
	"github.com/HSouheill/webinar_backend/models"
)

// KeyValueRepository is the generic string settings store
type KeyValueRepository struct {
	collection *mongo.Collection
}

func NewKeyValueRepository(db *mongo.Database) *KeyValueRepository {
	return &KeyValueRepository{
		collection: db.Collection(config.KeyValuesCollection),
	}
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) (*models.KeyValue, error) {
	var kv models.KeyValue
	if err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&kv); err != nil {
		return nil, notFound(err, "key "+key)
	}
	return &kv, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) (*models.KeyValue, error) {
	kv := models.KeyValue{Key: key, Value: value, UpdatedAt: time.Now()}
	update := bson.M{"$set": bson.M{"value": kv.Value, "updatedAt": kv.UpdatedAt}}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"key": key}, update, options.Update().SetUpsert(true)); err != nil {
		return nil, fmt.Errorf("failed to save key %s: %w", key, err)
	}
	return &kv, nil
}

func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("key %s: %w", key, models.ErrNotFound)
	}
	return nil
}
