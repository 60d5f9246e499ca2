package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QREntry is one rotation target of a QR code
type QREntry struct {
	URL    string `json:"url" bson:"url" validate:"required,url"`
	Active bool   `json:"active" bson:"active"`
}

// QRCode redirects each scan to the next active entry in round-robin order.
// LastRotationIndex is -1 until the first scan.
type QRCode struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Slug              string             `json:"slug" bson:"slug"`
	Name              string             `json:"name" bson:"name"`
	Entries           []QREntry          `json:"entries" bson:"entries"`
	LastRotationIndex int                `json:"lastRotationIndex" bson:"lastRotationIndex"`
	Clicks            int64              `json:"clicks" bson:"clicks"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type QRCodeRequest struct {
	Slug    string    `json:"slug" validate:"omitempty,alphanum,max=32"`
	Name    string    `json:"name" validate:"required,max=120"`
	Entries []QREntry `json:"entries" validate:"required,min=1,dive"`
}
