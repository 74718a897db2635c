package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/models"
)

// CometChatService proxies sends and history reads to the CometChat REST
// API. Delivery to connected clients is CometChat's job; no hub involved.
type CometChatService struct {
	APIKey string
	Client *http.Client

	baseURL string
}

// NewCometChatService builds the hosted-chat adapter from config
func NewCometChatService(conf *config.Config) *CometChatService {
	return &CometChatService{
		APIKey: conf.CometChatAPIKey,
		Client: &http.Client{Timeout: 15 * time.Second},
		baseURL: fmt.Sprintf("https://%s.api-%s.cometchat.io/v3",
			conf.CometChatAppID, conf.CometChatRegion),
	}
}

// IdentityFor maps an account to its CometChat UID
func (s *CometChatService) IdentityFor(role, id string) string {
	if role == models.SenderOfficer {
		return "OFFICER_" + id
	}
	return "USER_" + id
}

func conversationUID(reportID primitive.ObjectID) string {
	return "REPORT_" + reportID.Hex()
}

type cometSendRequest struct {
	Category     string            `json:"category"`
	Type         string            `json:"type"`
	Receiver     string            `json:"receiver"`
	ReceiverType string            `json:"receiverType"`
	Data         map[string]string `json:"data"`
}

type cometMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Data   struct {
		Text string `json:"text"`
	} `json:"data"`
	SentAt int64 `json:"sentAt"`
}

type cometEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (s *CometChatService) do(ctx context.Context, method, url string, body []byte, onBehalfOf string) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apiKey", s.APIKey)
	if onBehalfOf != "" {
		req.Header.Set("onBehalfOf", onBehalfOf)
	}
	return s.Client.Do(req)
}

// SendMessage posts a text message into the report's group conversation
func (s *CometChatService) SendMessage(ctx context.Context, reportID primitive.ObjectID, senderID, role, content string) (*models.Message, error) {
	body, err := json.Marshal(cometSendRequest{
		Category:     "message",
		Type:         "text",
		Receiver:     conversationUID(reportID),
		ReceiverType: "group",
		Data:         map[string]string{"text": content},
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.do(ctx, http.MethodPost, s.baseURL+"/messages", body, s.IdentityFor(role, senderID))
	if err != nil {
		return nil, fmt.Errorf("cometchat send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cometchat send returned status %d", resp.StatusCode)
	}

	msg := models.Message{
		ID:        primitive.NewObjectID(),
		ReportID:  reportID,
		SenderID:  senderID,
		Sender:    role,
		Content:   content,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	return &msg, nil
}

// History pulls the group conversation, newest first
func (s *CometChatService) History(ctx context.Context, reportID primitive.ObjectID, limit int64, before primitive.ObjectID) ([]models.Message, error) {
	url := fmt.Sprintf("%s/groups/%s/messages?per_page=%s&affix=prepend",
		s.baseURL, conversationUID(reportID), strconv.FormatInt(limit, 10))

	resp, err := s.do(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, fmt.Errorf("cometchat history failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cometchat history returned status %d", resp.StatusCode)
	}

	var envelope cometEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode cometchat response: %w", err)
	}
	var raw []cometMessage
	if err := json.Unmarshal(envelope.Data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode cometchat messages: %w", err)
	}

	messages := make([]models.Message, 0, len(raw))
	for _, m := range raw {
		role := models.SenderCitizen
		senderID := m.Sender
		if len(m.Sender) > 8 && m.Sender[:8] == "OFFICER_" {
			role = models.SenderOfficer
			senderID = m.Sender[8:]
		} else if len(m.Sender) > 5 && m.Sender[:5] == "USER_" {
			senderID = m.Sender[5:]
		}
		messages = append(messages, models.Message{
			ReportID:  reportID,
			SenderID:  senderID,
			Sender:    role,
			Content:   m.Data.Text,
			CreatedAt: primitive.NewDateTimeFromTime(time.Unix(m.SentAt, 0)),
		})
	}
	return messages, nil
}
