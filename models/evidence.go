package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Evidence type classifications. Derived from the file extension at upload
// time and used only for display icon selection, never for validation.
const (
	EvidenceImage    = "IMAGE"
	EvidenceVideo    = "VIDEO"
	EvidenceAudio    = "AUDIO"
	EvidenceDocument = "DOCUMENT"
)

// Evidence holds the structure for the evidence collection in mongo.
// Rows are created right after a successful upload and are immutable
// afterwards; the application never deletes them.
type Evidence struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReportID  primitive.ObjectID `bson:"report_id" json:"reportId"`
	FilePath  string             `bson:"file_path" json:"filePath"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"createdAt"`
}
