package databases

// go generate: mockery --name StatusUpdateDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safereport/safereport-api/models"
)

const statusUpdateName = "status_updates"

// StatusUpdateDatabase contains the methods to use with the status update database
type StatusUpdateDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StatusUpdate, error)
	FindHistory(ctx context.Context, reportID interface{}) ([]models.StatusUpdate, error)
	InsertOne(ctx context.Context, update models.StatusUpdate) error
}

type statusUpdateDatabase struct {
	db DatabaseHelper
}

// NewStatusUpdateDatabase initializes a new instance of status update database with the provided db connection
func NewStatusUpdateDatabase(db DatabaseHelper) StatusUpdateDatabase {
	return &statusUpdateDatabase{
		db: db,
	}
}

func (c *statusUpdateDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StatusUpdate, error) {
	var updates []models.StatusUpdate
	cr, err := c.db.Collection(statusUpdateName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// FindHistory returns the timeline for one report, newest first. Ties on
// created_at fall back to _id ascending so the ordering stays stable across
// reads (insertion order within the same timestamp).
func (c *statusUpdateDatabase) FindHistory(ctx context.Context, reportID interface{}) ([]models.StatusUpdate, error) {
	sort := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	return c.Find(ctx, bson.M{"report_id": reportID}, sort)
}

func (c *statusUpdateDatabase) InsertOne(ctx context.Context, update models.StatusUpdate) error {
	_, err := c.db.Collection(statusUpdateName).InsertOne(ctx, update)
	return err
}
