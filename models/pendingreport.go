package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PendingReport stashes an in-progress submission for a visitor who hit the
// composer without a session. The client gets back the token, logs in, then
// replays the stash; replay deletes the row.
type PendingReport struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Token     string             `bson:"token" json:"token"`
	Form      ReportRequest      `bson:"form" json:"form"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"createdAt"`
}
