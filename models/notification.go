package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification holds the structure for the notifications collection in
// mongo. One row is written per notified officer during an SOS fan-out and
// per escalation reminder from the scheduler.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"user_id" json:"userId"` // recipient (officer or citizen)
	ReportID  primitive.ObjectID `bson:"report_id,omitempty" json:"reportId,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"createdAt"`
}
