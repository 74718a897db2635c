package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Sender roles for report conversations
const (
	SenderCitizen = "citizen"
	SenderOfficer = "officer"
)

// Message holds the structure for the messages collection in mongo when the
// store-backed chat bridge is active. The CometChat bridge keeps history on
// the external service instead and never touches this collection.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReportID  primitive.ObjectID `bson:"report_id" json:"reportId"`
	SenderID  string             `bson:"sender_id" json:"senderId"`
	Sender    string             `bson:"sender" json:"sender"` // citizen or officer
	Content   string             `bson:"content" json:"content"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// MessageRequest is the body for sending a chat message
type MessageRequest struct {
	Content string `json:"content" validate:"required"`
}
