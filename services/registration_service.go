package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/utils"
)

// RegistrationStore persists registrations
type RegistrationStore interface {
	Create(ctx context.Context, req models.RegistrationRequest) (*models.Registration, error)
	List(ctx context.Context, sponsor, kind string, limit int64) ([]models.Registration, error)
}

// RegistrationService records landing page sign-ups and fans out the
// confirmation email and sponsor notification in the background.
type RegistrationService struct {
	store    RegistrationStore
	mailer   Mailer
	notifier *NotificationService
	dispatch func(func())
}

func NewRegistrationService(store RegistrationStore, mailer Mailer, notifier *NotificationService) *RegistrationService {
	return &RegistrationService{
		store:    store,
		mailer:   mailer,
		notifier: notifier,
		dispatch: func(f func()) { go f() },
	}
}

func (s *RegistrationService) Register(ctx context.Context, req models.RegistrationRequest) (*models.Registration, error) {
	sponsor, err := utils.NormalizeUsername(req.SponsorUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	req.SponsorUsername = sponsor
	req.Phone = phone
	req.FullName = utils.SanitizeInput(req.FullName)

	reg, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	logging.Info("Registration created", "id", reg.ID.Hex(), "kind", reg.Kind, "sponsor", reg.SponsorUsername)

	s.dispatch(func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.afterRegister(bg, reg)
	})

	return reg, nil
}

func (s *RegistrationService) afterRegister(ctx context.Context, reg *models.Registration) {
	if s.mailer != nil {
		subject, body, err := RegistrationEmail(reg)
		if err == nil {
			err = s.mailer.Send(reg.Email, subject, body)
		}
		if err != nil {
			logging.Warn("Registration confirmation email failed", "id", reg.ID.Hex(), "error", err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifySponsor(ctx, reg)
	}
}

// List returns registrations visible to the viewer: everything for admins,
// their own referrals for everyone else.
func (s *RegistrationService) List(ctx context.Context, viewer *models.UserProfile, kind string, limit int64) ([]models.Registration, error) {
	sponsor := viewer.Username
	if viewer.Role == models.RoleAdmin {
		sponsor = ""
	} else if sponsor == "" {
		return []models.Registration{}, nil
	}
	return s.store.List(ctx, sponsor, kind, limit)
}
