package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/models"
)

const evidenceFolder = "report-evidence"

// Store wraps the Cloudinary client used for evidence uploads
type Store struct {
	cld *cloudinary.Cloudinary
}

// NewStore builds a Store from a cloudinary:// connection URL
func NewStore(cloudinaryURL string) (*Store, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &Store{cld: cld}, nil
}

// Upload stores one evidence file under a random name that keeps the original
// extension. Existing assets are never overwritten. Returns the public URL of
// the stored asset and its public ID for later cleanup.
func (s *Store) Upload(ctx context.Context, file io.Reader, filename string) (string, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	publicID := fmt.Sprintf("%s/%s%s", evidenceFolder, uuid.New().String(), ext)

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "auto",
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return resp.SecureURL, publicID, nil
}

// Destroy removes a previously uploaded asset. Used to roll back uploads when
// the rest of a report submission fails. The destroy API has no "auto"
// resource type, so it is recovered from the key's extension.
func (s *Store) Destroy(ctx context.Context, publicID string) {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType(publicID),
	})
	if err != nil {
		zap.S().Errorw("failed to destroy asset", "public_id", publicID, "error", err)
	}
}

func resourceType(publicID string) string {
	switch Classify(publicID) {
	case models.EvidenceImage:
		return "image"
	case models.EvidenceVideo, models.EvidenceAudio:
		return "video"
	default:
		return "raw"
	}
}
