package databases

// go generate: mockery --name OfficerDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safereport/safereport-api/models"
)

const officerName = "police_officers"

// OfficerDatabase contains the methods to use with the police officer database
type OfficerDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Officer, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Officer, error)
	FindNearby(ctx context.Context, lon, lat float64, limit int64) ([]models.Officer, error)
	InsertOne(ctx context.Context, officer models.Officer) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
}

type officerDatabase struct {
	db DatabaseHelper
}

// NewOfficerDatabase initializes a new instance of officer database with the provided db connection
func NewOfficerDatabase(db DatabaseHelper) OfficerDatabase {
	return &officerDatabase{
		db: db,
	}
}

func (c *officerDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Officer, error) {
	officer := &models.Officer{}
	err := c.db.Collection(officerName).FindOne(ctx, filter).Decode(&officer)
	if err != nil {
		return nil, err
	}
	return officer, nil
}

func (c *officerDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Officer, error) {
	var officers []models.Officer
	cr, err := c.db.Collection(officerName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&officers)
	if err != nil {
		return nil, err
	}
	return officers, nil
}

// FindNearby returns available officers ordered by proximity to the given
// point. Proximity is the store's job: $near on the 2dsphere index sorts by
// distance, the application only caps the fan-out.
func (c *officerDatabase) FindNearby(ctx context.Context, lon, lat float64, limit int64) ([]models.Officer, error) {
	filter := bson.M{
		"available": true,
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lon, lat},
				},
			},
		},
	}
	return c.Find(ctx, filter, &options.FindOptions{Limit: &limit})
}

func (c *officerDatabase) InsertOne(ctx context.Context, officer models.Officer) error {
	_, err := c.db.Collection(officerName).InsertOne(ctx, officer)
	return err
}

func (c *officerDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(officerName).UpdateOne(ctx, filter, update, opts...)
	return err
}
