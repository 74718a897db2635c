package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safereport/safereport-api/models"
	"github.com/safereport/safereport-api/storage"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"uploads/photo.jpg", models.EvidenceImage},
		{"uploads/photo.PNG", models.EvidenceImage},
		{"scene.gif", models.EvidenceImage},
		{"clip.mp4", models.EvidenceVideo},
		{"clip.MOV", models.EvidenceVideo},
		{"dashcam.avi", models.EvidenceVideo},
		{"note.mp3", models.EvidenceAudio},
		{"note.wav", models.EvidenceAudio},
		{"statement.pdf", models.EvidenceDocument},
		{"no-extension", models.EvidenceDocument},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, storage.Classify(tc.path), tc.path)
	}
}
