package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// GeoPoint is the GeoJSON point stored on officer documents so the store
// can answer proximity queries itself
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"` // always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [lon, lat]
}

// Officer holds the structure for the police_officers collection in mongo
type Officer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	BadgeNumber string             `bson:"badge_number" json:"badgeNumber"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Available   bool               `bson:"available" json:"available"`
	Location    GeoPoint           `bson:"location" json:"location"`
	CreatedAt   primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// OfficerLoginRequest is the officer login body
type OfficerLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
