package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/webinar_backend/config"
	"github.com/HSouheill/webinar_backend/models"
)

// RegistrationRepository stores landing page sign-ups
type RegistrationRepository struct {
	collection *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{
		collection: db.Collection(config.RegistrationsCollection),
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, req models.RegistrationRequest) (*models.Registration, error) {
	reg := models.Registration{
		ID:              primitive.NewObjectID(),
		Kind:            req.Kind,
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		SponsorUsername: strings.TrimSpace(req.SponsorUsername),
		WebinarID:       req.WebinarID,
		Source:          req.Source,
		CreatedAt:       time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return &reg, nil
}

// List returns registrations newest first. Empty sponsor or kind means no filter.
func (r *RegistrationRepository) List(ctx context.Context, sponsor, kind string, limit int64) ([]models.Registration, error) {
	filter := bson.M{}
	if sponsor != "" {
		filter["sponsorUsername"] = sponsor
	}
	if kind != "" {
		filter["kind"] = kind
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer cursor.Close(ctx)

	registrations := []models.Registration{}
	if err := cursor.All(ctx, &registrations); err != nil {
		return nil, fmt.Errorf("failed to decode registrations: %w", err)
	}
	return registrations, nil
}
