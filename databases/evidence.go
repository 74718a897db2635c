package databases

// go generate: mockery --name EvidenceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safereport/safereport-api/models"
)

const evidenceName = "evidence"

// EvidenceDatabase contains the methods to use with the evidence database
type EvidenceDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Evidence, error)
	InsertMany(ctx context.Context, evidence []models.Evidence) error
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type evidenceDatabase struct {
	db DatabaseHelper
}

// NewEvidenceDatabase initializes a new instance of evidence database with the provided db connection
func NewEvidenceDatabase(db DatabaseHelper) EvidenceDatabase {
	return &evidenceDatabase{
		db: db,
	}
}

func (c *evidenceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Evidence, error) {
	var evidence []models.Evidence
	cr, err := c.db.Collection(evidenceName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&evidence)
	if err != nil {
		return nil, err
	}
	return evidence, nil
}

func (c *evidenceDatabase) InsertMany(ctx context.Context, evidence []models.Evidence) error {
	docs := make([]interface{}, 0, len(evidence))
	for _, e := range evidence {
		docs = append(docs, e)
	}
	return c.db.Collection(evidenceName).InsertMany(ctx, docs)
}

// UpdateMany returns the number of rows that matched the filter
func (c *evidenceDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := c.db.Collection(evidenceName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (c *evidenceDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(evidenceName).DeleteMany(ctx, filter)
}
