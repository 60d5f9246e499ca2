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

// ServiceRequestRepository stores activation and cancellation requests
type ServiceRequestRepository struct {
	collection *mongo.Collection
}

func NewServiceRequestRepository(db *mongo.Database) *ServiceRequestRepository {
	return &ServiceRequestRepository{
		collection: db.Collection(config.ServiceRequestsCollection),
	}
}

func (r *ServiceRequestRepository) Create(ctx context.Context, uid string, serviceID primitive.ObjectID, kind, note string) (*models.ServiceRequest, error) {
	req := models.ServiceRequest{
		ID:        primitive.NewObjectID(),
		UID:       uid,
		ServiceID: serviceID,
		Kind:      kind,
		Status:    models.RequestPending,
		Note:      note,
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create service request: %w", err)
	}
	return &req, nil
}

// List returns requests newest first. Empty uid or status means no filter.
func (r *ServiceRequestRepository) List(ctx context.Context, uid, status string) ([]models.ServiceRequest, error) {
	filter := bson.M{}
	if uid != "" {
		filter["uid"] = uid
	}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.ServiceRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode service requests: %w", err)
	}
	return requests, nil
}

// Resolve moves a pending request to status. A request that is no longer
// pending yields models.ErrConflict.
func (r *ServiceRequestRepository) Resolve(ctx context.Context, id, status string) (*models.ServiceRequest, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	filter := bson.M{"_id": objID, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{"status": status, "resolvedAt": now}}

	var req models.ServiceRequest
	err = r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&req)
	if err == nil {
		return &req, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to resolve service request: %w", err)
	}

	// Tell a missing request apart from one already resolved
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service request: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("service request %s: %w", id, models.ErrNotFound)
	}
	return nil, fmt.Errorf("service request %s already resolved: %w", id, models.ErrConflict)
}

// Reopen puts an approved request back to pending. It only matches approved
// requests, so a request resolved again in the meantime is left alone.
func (r *ServiceRequestRepository) Reopen(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": objID, "status": models.RequestApproved}
	update := bson.M{
		"$set":   bson.M{"status": models.RequestPending},
		"$unset": bson.M{"resolvedAt": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reopen service request: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("approved service request %s: %w", id, models.ErrNotFound)
	}
	return nil
}
