package storage

import (
	"path"
	"strings"

	"github.com/safereport/safereport-api/models"
)

var extensionTypes = map[string]string{
	".jpg":  models.EvidenceImage,
	".jpeg": models.EvidenceImage,
	".png":  models.EvidenceImage,
	".gif":  models.EvidenceImage,
	".mp4":  models.EvidenceVideo,
	".mov":  models.EvidenceVideo,
	".avi":  models.EvidenceVideo,
	".mp3":  models.EvidenceAudio,
	".wav":  models.EvidenceAudio,
}

// Classify maps a file path to an evidence type by extension. Anything
// unrecognized counts as a document.
func Classify(filePath string) string {
	ext := strings.ToLower(path.Ext(filePath))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return models.EvidenceDocument
}
