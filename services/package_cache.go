package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/models"
)

// PackageCache keeps package reference data in memory so commission runs do
// not hit MongoDB once per referral.
type PackageCache struct {
	source PackageFinder
	cache  *cache.Cache
}

func NewPackageCache(source PackageFinder, ttl time.Duration) *PackageCache {
	return &PackageCache{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (pc *PackageCache) FindByID(ctx context.Context, id string) (*models.Package, error) {
	if cached, found := pc.cache.Get(id); found {
		metrics.CacheHitsTotal.WithLabelValues("packages").Inc()
		pkg := cached.(models.Package)
		return &pkg, nil
	}
	metrics.CacheMissesTotal.WithLabelValues("packages").Inc()

	pkg, err := pc.source.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pc.cache.SetDefault(id, *pkg)
	return pkg, nil
}

// Invalidate drops id after an admin update or delete
func (pc *PackageCache) Invalidate(id string) {
	pc.cache.Delete(id)
}
