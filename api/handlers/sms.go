package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/notify"
)

// SMS handles the outbound text-message gateway
type SMS struct {
	Sender notify.SMSSender
}

type smsRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendSMSHandler forwards one message to the SMS gateway
func (s SMS) SendSMSHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.To == "" || req.Body == "" {
		config.ErrorStatus("missing to or body", http.StatusBadRequest, w, fmt.Errorf("to and body are required"))
		return
	}

	if err := s.Sender.Send(req.To, req.Body); err != nil {
		config.ErrorStatus("failed to send SMS", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "SMS sent"}`))
}
