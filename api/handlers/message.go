package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/api/chat"
	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
)

const defaultHistoryLimit = 50

// Message handles the per-report conversation endpoints. The chat backend
// behind the Service interface was picked once at startup.
type Message struct {
	RDB      databases.ReportDatabase
	Chat     chat.Service
	Validate *validator.Validate
}

// SendMessageHandler posts a message into a report's conversation. The
// sender role comes from comparing the sender with the report's assigned
// officer, never from the client.
func (m Message) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	oid, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	var body struct {
		SenderID string `json:"senderId"`
		models.MessageRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.SenderID == "" {
		config.ErrorStatus("missing senderId", http.StatusBadRequest, w, fmt.Errorf("senderId is required"))
		return
	}
	if err := m.Validate.Struct(body.MessageRequest); err != nil {
		config.ErrorStatus("invalid message", http.StatusBadRequest, w, err)
		return
	}

	report, err := m.RDB.FindOne(r.Context(), bson.M{"_id": oid})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	role := models.SenderCitizen
	if report.AssignedOfficer != "" && report.AssignedOfficer == body.SenderID {
		role = models.SenderOfficer
	}

	msg, err := m.Chat.SendMessage(r.Context(), oid, body.SenderID, role, body.Content)
	if err != nil {
		config.ErrorStatus("failed to send message", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(msg)
	w.Write(b)
}

// MessageHistoryHandler pages backwards through a report's conversation
func (m Message) MessageHistoryHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	oid, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	limit := int64(defaultHistoryLimit)
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	var before primitive.ObjectID
	if b := r.URL.Query().Get("before"); b != "" {
		before, err = primitive.ObjectIDFromHex(b)
		if err != nil {
			config.ErrorStatus("invalid before cursor", http.StatusBadRequest, w, err)
			return
		}
	}

	messages, err := m.Chat.History(r.Context(), oid, limit, before)
	if err != nil {
		config.ErrorStatus("failed to get messages", http.StatusInternalServerError, w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	b, err := json.Marshal(messages)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
