package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EmergencyContact holds the structure for the emergency_contacts
// collection in mongo. Contacts are managed from the profile screen and are
// only read back during the SOS fan-out.
type EmergencyContact struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"user_id" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Relationship string             `bson:"relationship,omitempty" json:"relationship,omitempty"`
	CreatedAt    primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// EmergencyContactRequest is the body for creating a contact
type EmergencyContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Relationship string `json:"relationship"`
}
