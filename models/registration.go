package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration kinds
const (
	RegistrationVisitor = "visitor"
	RegistrationMember  = "member"
)

// Registration is a landing page sign-up for a webinar
type Registration struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Kind            string             `json:"kind" bson:"kind"`
	FullName        string             `json:"fullName" bson:"fullName"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone,omitempty" bson:"phone,omitempty"`
	SponsorUsername string             `json:"sponsorUsername,omitempty" bson:"sponsorUsername,omitempty"`
	WebinarID       string             `json:"webinarId,omitempty" bson:"webinarId,omitempty"`
	Source          string             `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

type RegistrationRequest struct {
	Kind            string `json:"kind" validate:"required,oneof=visitor member"`
	FullName        string `json:"fullName" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"max=32"`
	SponsorUsername string `json:"sponsorUsername" validate:"max=64"`
	WebinarID       string `json:"webinarId" validate:"max=64"`
	Source          string `json:"source" validate:"max=64"`
}
