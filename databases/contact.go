package databases

// go generate: mockery --name ContactDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safereport/safereport-api/models"
)

const contactName = "emergency_contacts"

// ContactDatabase contains the methods to use with the emergency contact database
type ContactDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.EmergencyContact, error)
	InsertOne(ctx context.Context, contact models.EmergencyContact) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type contactDatabase struct {
	db DatabaseHelper
}

// NewContactDatabase initializes a new instance of contact database with the provided db connection
func NewContactDatabase(db DatabaseHelper) ContactDatabase {
	return &contactDatabase{
		db: db,
	}
}

func (c *contactDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.EmergencyContact, error) {
	var contacts []models.EmergencyContact
	cr, err := c.db.Collection(contactName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&contacts)
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *contactDatabase) InsertOne(ctx context.Context, contact models.EmergencyContact) error {
	_, err := c.db.Collection(contactName).InsertOne(ctx, contact)
	return err
}

func (c *contactDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(contactName).DeleteOne(ctx, filter, opts...)
}
