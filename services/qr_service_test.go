package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/models"
)

// fakeQRStore keeps one code and applies CompareAndRotate like the
// conditional update does. lose makes the next n rotations fail as if
// another scan had won.
type fakeQRStore struct {
	mu   sync.Mutex
	code models.QRCode
	lose int
}

func (f *fakeQRStore) FindBySlug(ctx context.Context, slug string) (*models.QRCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slug != f.code.Slug {
		return nil, models.ErrNotFound
	}
	code := f.code
	return &code, nil
}

func (f *fakeQRStore) CompareAndRotate(ctx context.Context, id primitive.ObjectID, expected, next int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lose > 0 {
		f.lose--
		return false, nil
	}
	if f.code.ID != id || f.code.LastRotationIndex != expected {
		return false, nil
	}
	f.code.LastRotationIndex = next
	f.code.Clicks++
	return true, nil
}

func newQRStore(last int, entries ...models.QREntry) *fakeQRStore {
	return &fakeQRStore{code: models.QRCode{
		ID:                primitive.NewObjectID(),
		Slug:              "EVENT1",
		Entries:           entries,
		LastRotationIndex: last,
	}}
}

func TestNextRotationIndex(t *testing.T) {
	a := models.QREntry{URL: "https://a.example", Active: true}
	b := models.QREntry{URL: "https://b.example", Active: true}
	off := models.QREntry{URL: "https://off.example"}

	tests := []struct {
		name    string
		entries []models.QREntry
		last    int
		want    int
		wantOK  bool
	}{
		{"first scan starts at zero", []models.QREntry{a, b}, -1, 0, true},
		{"advances to next", []models.QREntry{a, b}, 0, 1, true},
		{"wraps around", []models.QREntry{a, b}, 1, 0, true},
		{"skips inactive and wraps", []models.QREntry{a, off}, 0, 0, true},
		{"skips several inactive", []models.QREntry{off, off, b, off}, 3, 2, true},
		{"single active entry repeats", []models.QREntry{off, b}, 1, 1, true},
		{"stale index past the end", []models.QREntry{a, b}, 7, 0, true},
		{"no active entries", []models.QREntry{off, off}, 0, 0, false},
		{"no entries", nil, -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextRotationIndex(tt.entries, tt.last)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestQRService_Resolve_RoundRobin(t *testing.T) {
	store := newQRStore(-1,
		models.QREntry{URL: "https://a.example", Active: true},
		models.QREntry{URL: "https://b.example", Active: false},
		models.QREntry{URL: "https://c.example", Active: true},
	)
	svc := NewQRService(store)

	var got []string
	for i := 0; i < 4; i++ {
		url, err := svc.Resolve(context.Background(), "EVENT1")
		require.NoError(t, err)
		got = append(got, url)
	}

	assert.Equal(t, []string{"https://a.example", "https://c.example", "https://a.example", "https://c.example"}, got)
	assert.Equal(t, int64(4), store.code.Clicks)
	assert.Equal(t, 2, store.code.LastRotationIndex)
}

func TestQRService_Resolve_SkipsInactiveAfterLast(t *testing.T) {
	store := newQRStore(0,
		models.QREntry{URL: "a", Active: true},
		models.QREntry{URL: "b", Active: false},
	)

	url, err := NewQRService(store).Resolve(context.Background(), "EVENT1")
	require.NoError(t, err)
	assert.Equal(t, "a", url)
	assert.Equal(t, 0, store.code.LastRotationIndex)
}

func TestQRService_Resolve_NoActiveEntries(t *testing.T) {
	store := newQRStore(-1, models.QREntry{URL: "a"})

	_, err := NewQRService(store).Resolve(context.Background(), "EVENT1")
	assert.ErrorIs(t, err, models.ErrNoActiveEntries)
	assert.Equal(t, int64(0), store.code.Clicks)
}

func TestQRService_Resolve_UnknownSlug(t *testing.T) {
	store := newQRStore(-1, models.QREntry{URL: "a", Active: true})

	_, err := NewQRService(store).Resolve(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// seriesCount collects c and counts the label combinations it exports
func seriesCount(c prometheus.Collector) int {
	ch := make(chan prometheus.Metric)
	go func() {
		c.Collect(ch)
		close(ch)
	}()
	n := 0
	for range ch {
		n++
	}
	return n
}

func TestQRService_Resolve_UnknownSlugsShareOneSeries(t *testing.T) {
	store := newQRStore(-1, models.QREntry{URL: "a", Active: true})
	svc := NewQRService(store)

	_, _ = svc.Resolve(context.Background(), "MISSING0")
	before := seriesCount(metrics.QRScansTotal)

	for i := 0; i < 50; i++ {
		_, err := svc.Resolve(context.Background(), fmt.Sprintf("MISSING%d", i))
		require.ErrorIs(t, err, models.ErrNotFound)
	}
	assert.Equal(t, before, seriesCount(metrics.QRScansTotal))
}

func TestQRService_Resolve_RetriesLostRace(t *testing.T) {
	store := newQRStore(-1,
		models.QREntry{URL: "a", Active: true},
		models.QREntry{URL: "b", Active: true},
	)
	store.lose = maxRotationAttempts - 1

	url, err := NewQRService(store).Resolve(context.Background(), "EVENT1")
	require.NoError(t, err)
	assert.Equal(t, "a", url)
	assert.Equal(t, int64(1), store.code.Clicks)
}

func TestQRService_Resolve_GivesUpUnderContention(t *testing.T) {
	store := newQRStore(-1, models.QREntry{URL: "a", Active: true})
	store.lose = maxRotationAttempts

	_, err := NewQRService(store).Resolve(context.Background(), "EVENT1")
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, int64(0), store.code.Clicks)
}

func TestQRService_Resolve_ConcurrentScansNeverShareAStep(t *testing.T) {
	store := newQRStore(-1,
		models.QREntry{URL: "a", Active: true},
		models.QREntry{URL: "b", Active: true},
	)
	svc := NewQRService(store)

	const scans = 4
	var wg sync.WaitGroup
	var mu sync.Mutex
	counts := map[string]int{}
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := svc.Resolve(context.Background(), "EVENT1")
			if err != nil {
				return
			}
			mu.Lock()
			counts[url]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every successful scan moved the index exactly once
	served := counts["a"] + counts["b"]
	assert.Equal(t, int64(served), store.code.Clicks)
	assert.LessOrEqual(t, counts["a"]-counts["b"], 1)
	assert.LessOrEqual(t, counts["b"]-counts["a"], 1)
}

func TestRenderQRPNG(t *testing.T) {
	data, err := RenderQRPNG("https://example.com/qr/EVENT1", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}
