package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report statuses written by the application. The status column is a free
// string in the store; these are the conventional values.
const (
	StatusReceived            = "received"
	StatusUnderInvestigation  = "under_investigation"
	StatusResolved            = "resolved"
	StatusEmergencyDispatched = "emergency_dispatched"
)

// PriorityEmergency flags SOS reports for dispatcher triage
const PriorityEmergency = "EMERGENCY"

// Report holds the structure for the crime_reports collection in mongo
type Report struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CrimeType       string             `bson:"crime_type" json:"crimeType"`
	Description     string             `bson:"description" json:"description"`
	Location        string             `bson:"location" json:"location"` // EWKT point text, e.g. SRID=4326;POINT(lon lat)
	Status          string             `bson:"status" json:"status"`
	CurrentStatus   string             `bson:"current_status,omitempty" json:"currentStatus,omitempty"`
	Priority        string             `bson:"priority,omitempty" json:"priority,omitempty"`
	Media           []string           `bson:"media" json:"media"`
	ComplainantID   string             `bson:"complainant_id" json:"complainantId"`
	AssignedOfficer string             `bson:"assigned_officer,omitempty" json:"assignedOfficer,omitempty"`
	CreatedAt       primitive.DateTime `bson:"created_at" json:"createdAt"`
}

// ReportRequest is the JSON body accepted by the composer and the
// pending-report stash. File attachments ride alongside it as multipart
// parts, so they never appear here.
type ReportRequest struct {
	CrimeType   string  `json:"crimeType" validate:"required,oneof=Theft Assault Harassment Vehicle Property Other Emergency"`
	Description string  `json:"description" validate:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// OfficerSummary is the assigned-officer projection embedded in tracker
// responses
type OfficerSummary struct {
	ID          string `json:"id"`
	BadgeNumber string `json:"badgeNumber"`
}

// ReportStatusResponse is the tracker view of a report: the record, its
// nested evidence and status history, and the display status computed with
// the two-tier fallback (current_status, then status, then "In Progress").
type ReportStatusResponse struct {
	Report        Report          `json:"report"`
	CurrentStatus string          `json:"currentStatus"`
	Evidence      []Evidence      `json:"evidence"`
	StatusUpdates []StatusUpdate  `json:"statusUpdates"`
	Officer       *OfficerSummary `json:"assignedOfficer,omitempty"`
}
