package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
)

// StoreService keeps conversations in the messages collection and delivers
// them over the websocket hub.
type StoreService struct {
	MDB databases.MessageDatabase
	Hub *Hub
}

// NewStoreService builds the store-backed chat service
func NewStoreService(mdb databases.MessageDatabase, hub *Hub) *StoreService {
	return &StoreService{MDB: mdb, Hub: hub}
}

// SendMessage persists the message and pushes it to the report's subscribers
func (s *StoreService) SendMessage(ctx context.Context, reportID primitive.ObjectID, senderID, role, content string) (*models.Message, error) {
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		ReportID:  reportID,
		SenderID:  senderID,
		Sender:    role,
		Content:   content,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := s.MDB.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(reportID.Hex(), msg)
	return &msg, nil
}

// History pages backwards through the conversation, newest first
func (s *StoreService) History(ctx context.Context, reportID primitive.ObjectID, limit int64, before primitive.ObjectID) ([]models.Message, error) {
	return s.MDB.FindConversation(ctx, reportID, limit, before)
}

// IdentityFor returns the identity as stored: the raw account id
func (s *StoreService) IdentityFor(role, id string) string {
	return id
}
