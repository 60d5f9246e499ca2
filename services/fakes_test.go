package services

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/webinar_backend/models"
)

// fakeProfiles is an in-memory ProfileStore
type fakeProfiles struct {
	mu         sync.Mutex
	profiles   []models.UserProfile
	batchSizes []int
	sponsorErr error
}

func (f *fakeProfiles) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	for _, p := range f.profiles {
		if p.UID == uid {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %s: %w", uid, models.ErrNotFound)
}

func (f *fakeProfiles) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	for _, p := range f.profiles {
		if p.Username == username {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %s: %w", username, models.ErrNotFound)
}

func (f *fakeProfiles) FindBySponsors(ctx context.Context, usernames []string) ([]models.UserProfile, error) {
	f.mu.Lock()
	f.batchSizes = append(f.batchSizes, len(usernames))
	f.mu.Unlock()

	if f.sponsorErr != nil {
		return nil, f.sponsorErr
	}
	if len(usernames) > 30 {
		return nil, fmt.Errorf("%w: too many values", models.ErrInvalidInput)
	}

	wanted := map[string]bool{}
	for _, u := range usernames {
		wanted[u] = true
	}
	var found []models.UserProfile
	for _, p := range f.profiles {
		if wanted[p.SponsorUsername] {
			found = append(found, p)
		}
	}
	return found, nil
}

// fakePackages is an in-memory PackageFinder
type fakePackages struct {
	mu       sync.Mutex
	packages map[string]*models.Package
	calls    int
}

func newFakePackages(pkgs ...*models.Package) *fakePackages {
	f := &fakePackages{packages: map[string]*models.Package{}}
	for _, p := range pkgs {
		f.packages[p.ID.Hex()] = p
	}
	return f
}

func (f *fakePackages) FindByID(ctx context.Context, id string) (*models.Package, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, models.ErrInvalidID
	}
	pkg, ok := f.packages[id]
	if !ok {
		return nil, fmt.Errorf("package %s: %w", id, models.ErrNotFound)
	}
	copied := *pkg
	return &copied, nil
}

// fakeKV is an in-memory KeyValueStore
type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (*models.KeyValue, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, models.ErrNotFound)
	}
	return &models.KeyValue{Key: key, Value: v}, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) (*models.KeyValue, error) {
	f.values[key] = value
	return &models.KeyValue{Key: key, Value: value}, nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	if _, ok := f.values[key]; !ok {
		return fmt.Errorf("key %s: %w", key, models.ErrNotFound)
	}
	delete(f.values, key)
	return nil
}

// fakeSettings returns fixed rate tables
type fakeSettings struct {
	tables map[string][]models.CommissionLevelSetting
}

func (f *fakeSettings) CommissionLevels(ctx context.Context, table string) ([]models.CommissionLevelSetting, error) {
	levels, ok := f.tables[table]
	if !ok {
		return make([]models.CommissionLevelSetting, models.MaxCommissionLevels), nil
	}
	return levels, nil
}

type mockMailer struct {
	sendFunc func(to, subject, html string) error
}

func (m *mockMailer) Send(to, subject, html string) error {
	return m.sendFunc(to, subject, html)
}

func newPackage(fee float64) *models.Package {
	return &models.Package{ID: primitive.NewObjectID(), Name: "Pack", ActivationFee: fee, Active: true}
}
