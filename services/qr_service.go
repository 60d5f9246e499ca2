package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/models"
)

const maxRotationAttempts = 5

// QRCodeStore reads QR codes and advances their rotation index atomically
type QRCodeStore interface {
	FindBySlug(ctx context.Context, slug string) (*models.QRCode, error)
	CompareAndRotate(ctx context.Context, id primitive.ObjectID, expected, next int) (bool, error)
}

// NextRotationIndex returns the first active entry after last, wrapping
// around. ok is false when no entry is active.
func NextRotationIndex(entries []models.QREntry, last int) (int, bool) {
	n := len(entries)
	for i := 1; i <= n; i++ {
		idx := ((last+i)%n + n) % n
		if entries[idx].Active {
			return idx, true
		}
	}
	return 0, false
}

type QRService struct {
	codes QRCodeStore
}

func NewQRService(codes QRCodeStore) *QRService {
	return &QRService{codes: codes}
}

// Resolve picks the URL the scan of slug redirects to. The index moves with a
// conditional update so two simultaneous scans never land on the same
// rotation step; the loser rereads and tries again.
func (s *QRService) Resolve(ctx context.Context, slug string) (string, error) {
	for attempt := 0; attempt < maxRotationAttempts; attempt++ {
		code, err := s.codes.FindBySlug(ctx, slug)
		if err != nil {
			metrics.QRScansTotal.WithLabelValues("not_found").Inc()
			return "", err
		}

		next, ok := NextRotationIndex(code.Entries, code.LastRotationIndex)
		if !ok {
			metrics.QRScansTotal.WithLabelValues("no_active").Inc()
			return "", fmt.Errorf("qr code %s: %w", slug, models.ErrNoActiveEntries)
		}

		rotated, err := s.codes.CompareAndRotate(ctx, code.ID, code.LastRotationIndex, next)
		if err != nil {
			metrics.QRScansTotal.WithLabelValues("error").Inc()
			return "", err
		}
		if rotated {
			metrics.QRScansTotal.WithLabelValues("redirected").Inc()
			return code.Entries[next].URL, nil
		}

		logging.Debug("QR rotation lost a race, retrying", "slug", slug, "attempt", attempt+1)
	}

	metrics.QRScansTotal.WithLabelValues("conflict").Inc()
	return "", fmt.Errorf("qr code %s rotation contended: %w", slug, models.ErrConflict)
}

// RenderQRPNG encodes content as a size×size PNG QR code
func RenderQRPNG(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
