package repositories

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

// MaxInQueryValues is Firestore's limit on values in an "in" filter
const MaxInQueryValues = 30

const profilesCollection = "users"

// ProfileRepository reads user profiles from Firestore
type ProfileRepository struct {
	client *firestore.Client
}

func NewProfileRepository(client *firestore.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	snap, err := r.client.Collection(profilesCollection).Doc(uid).Get(ctx)
	if err != nil {
		return nil, firestoreError(err, "profile "+uid)
	}

	var profile models.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", uid, err)
	}
	if profile.UID == "" {
		profile.UID = snap.Ref.ID
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	docs, err := r.client.Collection(profilesCollection).
		Where("username", "==", username).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, firestoreError(err, "profile "+username)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("profile %s: %w", username, models.ErrNotFound)
	}
	return decodeProfiles(docs)[0], nil
}

// FindBySponsors returns the profiles sponsored by any of usernames. Callers
// must keep each batch within MaxInQueryValues.
func (r *ProfileRepository) FindBySponsors(ctx context.Context, usernames []string) ([]models.UserProfile, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	if len(usernames) > MaxInQueryValues {
		return nil, fmt.Errorf("%w: %d sponsors in one query, max %d", models.ErrInvalidInput, len(usernames), MaxInQueryValues)
	}

	docs, err := r.client.Collection(profilesCollection).
		Where("sponsorUsername", "in", usernames).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, firestoreError(err, "sponsored profiles")
	}

	profiles := make([]models.UserProfile, 0, len(docs))
	for _, p := range decodeProfiles(docs) {
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func decodeProfiles(docs []*firestore.DocumentSnapshot) []*models.UserProfile {
	profiles := make([]*models.UserProfile, 0, len(docs))
	for _, doc := range docs {
		var p models.UserProfile
		if err := doc.DataTo(&p); err != nil {
			logging.Warn("Skipping malformed profile", "doc", doc.Ref.ID, "error", err)
			continue
		}
		if p.UID == "" {
			p.UID = doc.Ref.ID
		}
		profiles = append(profiles, &p)
	}
	return profiles
}

// firestoreError maps gRPC status codes onto domain errors
func firestoreError(err error, what string) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	case codes.PermissionDenied:
		return fmt.Errorf("%s: %w", what, models.ErrPermissionDenied)
	default:
		return fmt.Errorf("failed to read %s: %w", what, err)
	}
}
