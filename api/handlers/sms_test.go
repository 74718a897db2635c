package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safereport/safereport-api/api/handlers"
	"github.com/safereport/safereport-api/models"
)

func TestSMS_SendSMSHandler(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/send-sms", strings.NewReader(`{"to": "+15551234567", "body": "hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	sender := &fakeSMSSender{}
	s := handlers.SMS{Sender: sender}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SendSMSHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"message": "SMS sent"}`, rr.Body.String())
	assert.Equal(t, []string{"+15551234567"}, sender.sent)
}

func TestSMS_SendSMSHandlerMissingFields(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/send-sms", strings.NewReader(`{"to": "+15551234567"}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	sender := &fakeSMSSender{}
	s := handlers.SMS{Sender: sender}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SendSMSHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "missing to or body", Error: "to and body are required"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
	assert.Equal(t, 0, sender.count())
}

func TestSMS_SendSMSHandlerGatewayError(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/send-sms", strings.NewReader(`{"to": "+15551234567", "body": "hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	sender := &fakeSMSSender{err: errors.New("gateway unreachable")}
	s := handlers.SMS{Sender: sender}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SendSMSHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "failed to send SMS", Error: "gateway unreachable"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
}
