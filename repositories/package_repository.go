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

type PackageRepository struct {
	collection *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) *PackageRepository {
	return &PackageRepository{
		collection: db.Collection(config.PackagesCollection),
	}
}

// List returns packages sorted by display order
func (r *PackageRepository) List(ctx context.Context, onlyActive bool) ([]models.Package, error) {
	filter := bson.M{}
	if onlyActive {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	packages := []models.Package{}
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var pkg models.Package
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&pkg); err != nil {
		return nil, notFound(err, "package "+id)
	}
	return &pkg, nil
}

func (r *PackageRepository) Create(ctx context.Context, req models.PackageRequest) (*models.Package, error) {
	now := time.Now()
	pkg := models.Package{
		ID:            primitive.NewObjectID(),
		Name:          req.Name,
		Description:   req.Description,
		ActivationFee: req.ActivationFee,
		MonthlyFee:    req.MonthlyFee,
		TargetRole:    req.TargetRole,
		Features:      req.Features,
		Active:        req.Active,
		Order:         req.Order,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.collection.InsertOne(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return &pkg, nil
}

func (r *PackageRepository) Update(ctx context.Context, id string, req models.PackageRequest) (*models.Package, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":          req.Name,
		"description":   req.Description,
		"activationFee": req.ActivationFee,
		"monthlyFee":    req.MonthlyFee,
		"targetRole":    req.TargetRole,
		"features":      req.Features,
		"active":        req.Active,
		"order":         req.Order,
		"updatedAt":     time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var pkg models.Package
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&pkg); err != nil {
		return nil, notFound(err, "package "+id)
	}
	return &pkg, nil
}

func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("package %s: %w", id, models.ErrNotFound)
	}
	return nil
}
