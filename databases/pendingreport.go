package databases

// go generate: mockery --name PendingReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safereport/safereport-api/models"
)

const pendingReportName = "pending_reports"

// PendingReportDatabase contains the methods to use with the pending report database
type PendingReportDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.PendingReport, error)
	InsertOne(ctx context.Context, pending models.PendingReport) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type pendingReportDatabase struct {
	db DatabaseHelper
}

// NewPendingReportDatabase initializes a new instance of pending report database with the provided db connection
func NewPendingReportDatabase(db DatabaseHelper) PendingReportDatabase {
	return &pendingReportDatabase{
		db: db,
	}
}

func (c *pendingReportDatabase) FindOne(ctx context.Context, filter interface{}) (*models.PendingReport, error) {
	pending := &models.PendingReport{}
	err := c.db.Collection(pendingReportName).FindOne(ctx, filter).Decode(&pending)
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (c *pendingReportDatabase) InsertOne(ctx context.Context, pending models.PendingReport) error {
	_, err := c.db.Collection(pendingReportName).InsertOne(ctx, pending)
	return err
}

func (c *pendingReportDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(pendingReportName).DeleteOne(ctx, filter, opts...)
}

func (c *pendingReportDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(pendingReportName).DeleteMany(ctx, filter)
}
