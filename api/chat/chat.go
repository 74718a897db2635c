// Package chat bridges citizens and responding officers over a per-report
// conversation. Two backends exist: the message store with websocket
// delivery, and CometChat where the hosted service owns delivery and this
// server only proxies sends and history reads.
package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
)

// Service is the conversation capability handlers talk to. The backend is
// chosen once at startup; handlers never branch on it.
type Service interface {
	SendMessage(ctx context.Context, reportID primitive.ObjectID, senderID, role, content string) (*models.Message, error)
	History(ctx context.Context, reportID primitive.ObjectID, limit int64, before primitive.ObjectID) ([]models.Message, error)
	IdentityFor(role, id string) string
}

// New selects the chat backend from config
func New(conf *config.Config, mdb databases.MessageDatabase, hub *Hub) Service {
	if conf.ChatBackend == "cometchat" {
		return NewCometChatService(conf)
	}
	return NewStoreService(mdb, hub)
}
