package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Billing cycles for additional services
const (
	BillingOneTime = "one_time"
	BillingMonthly = "monthly"
)

// Service request kinds and statuses
const (
	RequestActivation   = "activation"
	RequestCancellation = "cancellation"

	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AdditionalService is an add-on a user can activate on top of a package
type AdditionalService struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Billing     string             `json:"billing" bson:"billing"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type AdditionalServiceRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Billing     string  `json:"billing" validate:"required,oneof=one_time monthly"`
	Active      bool    `json:"active"`
}

// ServiceRequest is a user's ask to activate or cancel an additional service
type ServiceRequest struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UID        string             `json:"uid" bson:"uid"`
	ServiceID  primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	Kind       string             `json:"kind" bson:"kind"`
	Status     string             `json:"status" bson:"status"`
	Note       string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	ResolvedAt *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

type CreateServiceRequest struct {
	ServiceID string `json:"serviceId" validate:"required,len=24,hexadecimal"`
	Kind      string `json:"kind" validate:"required,oneof=activation cancellation"`
	Note      string `json:"note" validate:"max=500"`
}

type ResolveServiceRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// UserService is an additional service subscribed by a user
type UserService struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UID         string             `json:"uid" bson:"uid"`
	ServiceID   primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	Active      bool               `json:"active" bson:"active"`
	ActivatedAt time.Time          `json:"activatedAt" bson:"activatedAt"`
	CancelledAt *time.Time         `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
}
