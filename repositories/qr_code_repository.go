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

type QRCodeRepository struct {
	collection *mongo.Collection
}

func NewQRCodeRepository(db *mongo.Database) *QRCodeRepository {
	return &QRCodeRepository{
		collection: db.Collection(config.QRCodesCollection),
	}
}

func (r *QRCodeRepository) Create(ctx context.Context, slug string, req models.QRCodeRequest) (*models.QRCode, error) {
	now := time.Now()
	qr := models.QRCode{
		ID:                primitive.NewObjectID(),
		Slug:              slug,
		Name:              req.Name,
		Entries:           req.Entries,
		LastRotationIndex: -1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := r.collection.InsertOne(ctx, qr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("slug %s already taken: %w", slug, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create qr code: %w", err)
	}
	return &qr, nil
}

func (r *QRCodeRepository) List(ctx context.Context) ([]models.QRCode, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	defer cursor.Close(ctx)

	codes := []models.QRCode{}
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode qr codes: %w", err)
	}
	return codes, nil
}

func (r *QRCodeRepository) FindByID(ctx context.Context, id string) (*models.QRCode, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var qr models.QRCode
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&qr); err != nil {
		return nil, notFound(err, "qr code "+id)
	}
	return &qr, nil
}

func (r *QRCodeRepository) FindBySlug(ctx context.Context, slug string) (*models.QRCode, error) {
	var qr models.QRCode
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&qr); err != nil {
		return nil, notFound(err, "qr code "+slug)
	}
	return &qr, nil
}

// Update replaces name and entries. The rotation index is kept; resolution
// wraps it onto the new entry list.
func (r *QRCodeRepository) Update(ctx context.Context, id string, req models.QRCodeRequest) (*models.QRCode, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":      req.Name,
		"entries":   req.Entries,
		"updatedAt": time.Now(),
	}}

	var qr models.QRCode
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&qr)
	if err != nil {
		return nil, notFound(err, "qr code "+id)
	}
	return &qr, nil
}

func (r *QRCodeRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete qr code: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("qr code %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// CompareAndRotate moves the rotation index from expected to next and counts
// the click in one conditional update. It reports false when another scan
// changed the index first.
func (r *QRCodeRepository) CompareAndRotate(ctx context.Context, id primitive.ObjectID, expected, next int) (bool, error) {
	filter := bson.M{"_id": id, "lastRotationIndex": expected}
	update := bson.M{
		"$set": bson.M{"lastRotationIndex": next, "updatedAt": time.Now()},
		"$inc": bson.M{"clicks": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to rotate qr code: %w", err)
	}
	return result.MatchedCount == 1, nil
}
