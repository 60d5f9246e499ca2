package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/webinar_backend/models"
)

type mockGateway struct {
	intentFunc   func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, string, error)
	checkoutFunc func(ctx context.Context, item CheckoutItem) (string, string, error)
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, string, error) {
	return m.intentFunc(ctx, amountCents, currency, metadata)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, item CheckoutItem) (string, string, error) {
	return m.checkoutFunc(ctx, item)
}

func TestChargeCents(t *testing.T) {
	tests := []struct {
		name     string
		fee      float64
		discount float64
		want     int64
		wantErr  bool
	}{
		{"no discount", 199, 0, 19900, false},
		{"fractional discount", 199, 50.5, 14850, false},
		{"float noise is rounded", 19.99, 0, 1999, false},
		{"discount equals fee", 10, 10, 0, true},
		{"free package", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChargeCents(newPackage(tt.fee), tt.discount)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentService_CreatePaymentIntent(t *testing.T) {
	pkg := newPackage(199)
	profiles := &fakeProfiles{profiles: []models.UserProfile{{UID: "u1", Username: "bob", DiscountApplied: 49}}}

	var gotCents int64
	var gotMeta map[string]string
	gateway := &mockGateway{
		intentFunc: func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, string, error) {
			gotCents, gotMeta = amountCents, metadata
			return "pi_123", "pi_123_secret", nil
		},
	}

	svc := NewPaymentService(gateway, profiles, newFakePackages(pkg))
	svc.currency = "usd"

	resp, err := svc.CreatePaymentIntent(context.Background(), "u1", pkg.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, int64(15000), gotCents)
	assert.Equal(t, "bob", gotMeta["username"])
	assert.Equal(t, pkg.ID.Hex(), gotMeta["packageId"])
	assert.Equal(t, "pi_123_secret", resp.ClientSecret)
	assert.Equal(t, 150.0, resp.Amount)
	assert.Equal(t, "usd", resp.Currency)
}

func TestPaymentService_CreateCheckoutSession(t *testing.T) {
	pkg := newPackage(99)
	profiles := &fakeProfiles{profiles: []models.UserProfile{{UID: "u1", Username: "bob", Email: "bob@example.com"}}}

	var got CheckoutItem
	gateway := &mockGateway{
		checkoutFunc: func(ctx context.Context, item CheckoutItem) (string, string, error) {
			got = item
			return "cs_1", "https://checkout.stripe.com/c/cs_1", nil
		},
	}

	svc := NewPaymentService(gateway, profiles, newFakePackages(pkg))
	resp, err := svc.CreateCheckoutSession(context.Background(), "u1", models.CheckoutSessionRequest{
		PackageID:  pkg.ID.Hex(),
		SuccessURL: "https://app.example.com/ok",
		CancelURL:  "https://app.example.com/cancel",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", resp.URL)
	assert.Equal(t, int64(9900), got.AmountCents)
	assert.Equal(t, "bob@example.com", got.CustomerEmail)
	assert.Equal(t, "u1", got.ClientReferenceID)
}

func TestPaymentService_Errors(t *testing.T) {
	pkg := newPackage(99)
	inactive := newPackage(99)
	inactive.Active = false
	profiles := &fakeProfiles{profiles: []models.UserProfile{{UID: "u1", Username: "bob"}}}
	gateway := &mockGateway{}

	t.Run("gateway not configured", func(t *testing.T) {
		svc := NewPaymentService(nil, profiles, newFakePackages(pkg))
		_, err := svc.CreatePaymentIntent(context.Background(), "u1", pkg.ID.Hex())
		assert.ErrorIs(t, err, models.ErrNotConfigured)
	})

	t.Run("inactive package", func(t *testing.T) {
		svc := NewPaymentService(gateway, profiles, newFakePackages(inactive))
		_, err := svc.CreatePaymentIntent(context.Background(), "u1", inactive.ID.Hex())
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("unknown package", func(t *testing.T) {
		svc := NewPaymentService(gateway, profiles, newFakePackages())
		_, err := svc.CreatePaymentIntent(context.Background(), "u1", pkg.ID.Hex())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
