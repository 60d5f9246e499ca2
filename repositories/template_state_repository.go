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

type TemplateStateRepository struct {
	collection *mongo.Collection
}

func NewTemplateStateRepository(db *mongo.Database) *TemplateStateRepository {
	return &TemplateStateRepository{
		collection: db.Collection(config.TemplateStatesCollection),
	}
}

func (r *TemplateStateRepository) Find(ctx context.Context, uid, templateID string) (*models.TemplateState, error) {
	var state models.TemplateState
	err := r.collection.FindOne(ctx, bson.M{"uid": uid, "templateId": templateID}).Decode(&state)
	if err != nil {
		return nil, notFound(err, "template state "+templateID)
	}
	return &state, nil
}

// Save replaces the stored state of (uid, templateID), creating it when missing
func (r *TemplateStateRepository) Save(ctx context.Context, uid, templateID string, req models.TemplateStateRequest) (*models.TemplateState, error) {
	filter := bson.M{"uid": uid, "templateId": templateID}
	update := bson.M{"$set": bson.M{
		"state":     req.State,
		"published": req.Published,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var state models.TemplateState
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to save template state: %w", err)
	}
	return &state, nil
}
