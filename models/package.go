package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package is a business package a registrant buys on activation
type Package struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	ActivationFee float64            `json:"activationFee" bson:"activationFee"`
	MonthlyFee    float64            `json:"monthlyFee" bson:"monthlyFee"`
	TargetRole    string             `json:"targetRole" bson:"targetRole"`
	Features      []string           `json:"features,omitempty" bson:"features,omitempty"`
	Active        bool               `json:"active" bson:"active"`
	Order         int                `json:"order" bson:"order"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PackageRequest is the admin create/update payload
type PackageRequest struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   string   `json:"description" validate:"max=2000"`
	ActivationFee float64  `json:"activationFee" validate:"gte=0"`
	MonthlyFee    float64  `json:"monthlyFee" validate:"gte=0"`
	TargetRole    string   `json:"targetRole" validate:"required,oneof=client impulsor_de_impacto"`
	Features      []string `json:"features"`
	Active        bool     `json:"active"`
	Order         int      `json:"order"`
}
