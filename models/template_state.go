package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateState is the saved editor state of one webinar template for one user
type TemplateState struct {
	ID         primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	UID        string                 `json:"uid" bson:"uid"`
	TemplateID string                 `json:"templateId" bson:"templateId"`
	State      map[string]interface{} `json:"state" bson:"state"`
	Published  bool                   `json:"published" bson:"published"`
	UpdatedAt  time.Time              `json:"updatedAt" bson:"updatedAt"`
}

type TemplateStateRequest struct {
	State     map[string]interface{} `json:"state" validate:"required"`
	Published bool                   `json:"published"`
}
