package models

import "time"

// KeyValue is one entry of the generic settings store
type KeyValue struct {
	Key       string    `json:"key" bson:"key"`
	Value     string    `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type KeyValueRequest struct {
	Value *string `json:"value" validate:"required"`
}
