package databases

// go generate: mockery --name MessageDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safereport/safereport-api/models"
)

const messageName = "messages"

// MessageDatabase contains the methods to use with the message database
type MessageDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Message, error)
	FindConversation(ctx context.Context, reportID primitive.ObjectID, limit int64, before primitive.ObjectID) ([]models.Message, error)
	InsertOne(ctx context.Context, message models.Message) error
}

type messageDatabase struct {
	db DatabaseHelper
}

// NewMessageDatabase initializes a new instance of message database with the provided db connection
func NewMessageDatabase(db DatabaseHelper) MessageDatabase {
	return &messageDatabase{
		db: db,
	}
}

func (c *messageDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Message, error) {
	var messages []models.Message
	cr, err := c.db.Collection(messageName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindConversation pages backwards through one report's messages, newest
// first. A zero `before` id means start from the latest message.
func (c *messageDatabase) FindConversation(ctx context.Context, reportID primitive.ObjectID, limit int64, before primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"report_id": reportID}
	if !before.IsZero() {
		filter["_id"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(limit)
	return c.Find(ctx, filter, opts)
}

func (c *messageDatabase) InsertOne(ctx context.Context, message models.Message) error {
	_, err := c.db.Collection(messageName).InsertOne(ctx, message)
	return err
}
