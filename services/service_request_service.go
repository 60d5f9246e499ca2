package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

// ServiceCatalog reads the additional services catalogue
type ServiceCatalog interface {
	FindByID(ctx context.Context, id string) (*models.AdditionalService, error)
}

// ServiceRequestStore persists activation and cancellation requests
type ServiceRequestStore interface {
	Create(ctx context.Context, uid string, serviceID primitive.ObjectID, kind, note string) (*models.ServiceRequest, error)
	List(ctx context.Context, uid, status string) ([]models.ServiceRequest, error)
	Resolve(ctx context.Context, id, status string) (*models.ServiceRequest, error)
	Reopen(ctx context.Context, id string) error
}

// UserServiceStore persists user subscriptions to additional services
type UserServiceStore interface {
	ListByUID(ctx context.Context, uid string) ([]models.UserService, error)
	Activate(ctx context.Context, uid string, serviceID primitive.ObjectID) error
	Cancel(ctx context.Context, uid string, serviceID primitive.ObjectID) error
}

type ServiceRequestService struct {
	catalog      ServiceCatalog
	requests     ServiceRequestStore
	userServices UserServiceStore
}

func NewServiceRequestService(catalog ServiceCatalog, requests ServiceRequestStore, userServices UserServiceStore) *ServiceRequestService {
	return &ServiceRequestService{catalog: catalog, requests: requests, userServices: userServices}
}

// Submit files a pending request. Activations need an active service.
func (s *ServiceRequestService) Submit(ctx context.Context, uid string, req models.CreateServiceRequest) (*models.ServiceRequest, error) {
	svc, err := s.catalog.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if req.Kind == models.RequestActivation && !svc.Active {
		return nil, fmt.Errorf("%w: service %s is not available", models.ErrInvalidInput, svc.Name)
	}
	return s.requests.Create(ctx, uid, svc.ID, req.Kind, req.Note)
}

func (s *ServiceRequestService) List(ctx context.Context, uid, status string) ([]models.ServiceRequest, error) {
	return s.requests.List(ctx, uid, status)
}

func (s *ServiceRequestService) UserServices(ctx context.Context, uid string) ([]models.UserService, error) {
	return s.userServices.ListByUID(ctx, uid)
}

// Resolve approves or rejects a pending request. Approval applies it to the
// user's subscriptions; when that fails the request goes back to pending.
func (s *ServiceRequestService) Resolve(ctx context.Context, id, status string) (*models.ServiceRequest, error) {
	req, err := s.requests.Resolve(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestApproved {
		return req, nil
	}

	switch req.Kind {
	case models.RequestActivation:
		err = s.userServices.Activate(ctx, req.UID, req.ServiceID)
	case models.RequestCancellation:
		err = s.userServices.Cancel(ctx, req.UID, req.ServiceID)
	}
	if err != nil {
		if rerr := s.requests.Reopen(ctx, id); rerr != nil {
			logging.Error("Failed to reopen service request", "id", id, "error", rerr)
		}
		if req.Kind == models.RequestCancellation && errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s has no active subscription to cancel", models.ErrInvalidInput, req.UID)
		}
		return nil, fmt.Errorf("request %s not applied: %w", id, err)
	}

	logging.Info("Service request applied", "id", id, "uid", req.UID, "kind", req.Kind)
	return req, nil
}
