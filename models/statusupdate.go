package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// StatusUpdate holds the structure for the status_updates collection in
// mongo. The collection is an append-only log; a report's display status is
// conventionally the latest entry.
type StatusUpdate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReportID    primitive.ObjectID `bson:"report_id" json:"reportId"`
	Status      string             `bson:"status" json:"status"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// StatusUpdateRequest is the officer-side body for appending a status update
type StatusUpdateRequest struct {
	Status      string `json:"status" validate:"required"`
	Description string `json:"description"`
}
