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

// ServiceRepository stores the additional services catalogue
type ServiceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{
		collection: db.Collection(config.ServicesCollection),
	}
}

func (r *ServiceRepository) List(ctx context.Context, onlyActive bool) ([]models.AdditionalService, error) {
	filter := bson.M{}
	if onlyActive {
		filter["active"] = true
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.AdditionalService{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*models.AdditionalService, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var svc models.AdditionalService
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&svc); err != nil {
		return nil, notFound(err, "service "+id)
	}
	return &svc, nil
}

func (r *ServiceRepository) Create(ctx context.Context, req models.AdditionalServiceRequest) (*models.AdditionalService, error) {
	now := time.Now()
	svc := models.AdditionalService{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Billing:     req.Billing,
		Active:      req.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return &svc, nil
}

func (r *ServiceRepository) Update(ctx context.Context, id string, req models.AdditionalServiceRequest) (*models.AdditionalService, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"billing":     req.Billing,
		"active":      req.Active,
		"updatedAt":   time.Now(),
	}}

	var svc models.AdditionalService
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&svc)
	if err != nil {
		return nil, notFound(err, "service "+id)
	}
	return &svc, nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("service %s: %w", id, models.ErrNotFound)
	}
	return nil
}
