package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

// PaymentGateway creates hosted payments. StripeGateway is the production
// implementation.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (id, clientSecret string, err error)
	CreateCheckoutSession(ctx context.Context, item CheckoutItem) (id, url string, err error)
}

// CheckoutItem is a single line Checkout Session
type CheckoutItem struct {
	Name              string
	AmountCents       int64
	Currency          string
	SuccessURL        string
	CancelURL         string
	CustomerEmail     string
	ClientReferenceID string
	Metadata          map[string]string
}

// StripeGateway talks to Stripe through its API client
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns nil when STRIPE_SECRET_KEY is not set
func NewStripeGateway() *StripeGateway {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		logging.Warn("STRIPE_SECRET_KEY is missing, payment endpoints disabled")
		return nil
	}

	api := &client.API{}
	api.Init(key, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, item CheckoutItem) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(item.SuccessURL),
		CancelURL:  stripe.String(item.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(item.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(item.Name),
					},
					UnitAmount: stripe.Int64(item.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	if item.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(item.CustomerEmail)
	}
	if item.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(item.ClientReferenceID)
	}
	for k, v := range item.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// PaymentService prices a package for the paying user and opens the payment
type PaymentService struct {
	gateway  PaymentGateway
	profiles ProfileStore
	packages PackageFinder
	currency string
}

func NewPaymentService(gateway PaymentGateway, profiles ProfileStore, packages PackageFinder) *PaymentService {
	currency := strings.ToLower(os.Getenv("STRIPE_CURRENCY"))
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{gateway: gateway, profiles: profiles, packages: packages, currency: currency}
}

// ChargeCents is the activation fee minus the user's discount in cents
func ChargeCents(pkg *models.Package, discount float64) (int64, error) {
	amount := decimal.NewFromFloat(pkg.ActivationFee).Sub(decimal.NewFromFloat(discount))
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: nothing to charge for package %s", models.ErrInvalidInput, pkg.ID.Hex())
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func (s *PaymentService) price(ctx context.Context, uid, packageID string) (*models.UserProfile, *models.Package, int64, error) {
	if s.gateway == nil {
		return nil, nil, 0, fmt.Errorf("payments: %w", models.ErrNotConfigured)
	}

	profile, err := s.profiles.FindByUID(ctx, uid)
	if err != nil {
		return nil, nil, 0, err
	}
	pkg, err := s.packages.FindByID(ctx, packageID)
	if err != nil {
		return nil, nil, 0, err
	}
	if !pkg.Active {
		return nil, nil, 0, fmt.Errorf("%w: package %s is not available", models.ErrInvalidInput, packageID)
	}

	cents, err := ChargeCents(pkg, profile.DiscountApplied)
	if err != nil {
		return nil, nil, 0, err
	}
	return profile, pkg, cents, nil
}

func (s *PaymentService) CreatePaymentIntent(ctx context.Context, uid, packageID string) (*models.PaymentIntentResponse, error) {
	profile, pkg, cents, err := s.price(ctx, uid, packageID)
	if err != nil {
		return nil, err
	}

	id, secret, err := s.gateway.CreatePaymentIntent(ctx, cents, s.currency, map[string]string{
		"uid":       profile.UID,
		"username":  profile.Username,
		"packageId": pkg.ID.Hex(),
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Payment intent created", "uid", uid, "packageId", packageID, "amountCents", cents)
	return &models.PaymentIntentResponse{
		ID:           id,
		ClientSecret: secret,
		Amount:       decimal.New(cents, -2).InexactFloat64(),
		Currency:     s.currency,
	}, nil
}

func (s *PaymentService) CreateCheckoutSession(ctx context.Context, uid string, req models.CheckoutSessionRequest) (*models.CheckoutSessionResponse, error) {
	profile, pkg, cents, err := s.price(ctx, uid, req.PackageID)
	if err != nil {
		return nil, err
	}

	id, url, err := s.gateway.CreateCheckoutSession(ctx, CheckoutItem{
		Name:              pkg.Name,
		AmountCents:       cents,
		Currency:          s.currency,
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
		CustomerEmail:     profile.Email,
		ClientReferenceID: profile.UID,
		Metadata: map[string]string{
			"username":  profile.Username,
			"packageId": pkg.ID.Hex(),
		},
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Checkout session created", "uid", uid, "packageId", req.PackageID, "amountCents", cents)
	return &models.CheckoutSessionResponse{ID: id, URL: url}, nil
}
