package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/webinar_backend/config"
	"github.com/HSouheill/webinar_backend/models"
)

// UserServiceRepository stores the additional services each user subscribed to
type UserServiceRepository struct {
	collection *mongo.Collection
}

func NewUserServiceRepository(db *mongo.Database) *UserServiceRepository {
	return &UserServiceRepository{
		collection: db.Collection(config.UserServicesCollection),
	}
}

func (r *UserServiceRepository) ListByUID(ctx context.Context, uid string) ([]models.UserService, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"uid": uid},
		options.Find().SetSort(bson.D{{Key: "activatedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list user services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.UserService{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode user services: %w", err)
	}
	return services, nil
}

// Activate subscribes uid to the service, reactivating a cancelled subscription
func (r *UserServiceRepository) Activate(ctx context.Context, uid string, serviceID primitive.ObjectID) error {
	filter := bson.M{"uid": uid, "serviceId": serviceID}
	update := bson.M{
		"$set":   bson.M{"active": true, "activatedAt": time.Now()},
		"$unset": bson.M{"cancelledAt": ""},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to activate user service: %w", err)
	}
	return nil
}

func (r *UserServiceRepository) Cancel(ctx context.Context, uid string, serviceID primitive.ObjectID) error {
	filter := bson.M{"uid": uid, "serviceId": serviceID, "active": true}
	update := bson.M{"$set": bson.M{"active": false, "cancelledAt": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel user service: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("active subscription to %s: %w", serviceID.Hex(), models.ErrNotFound)
	}
	return nil
}
