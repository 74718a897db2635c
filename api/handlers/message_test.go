package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/api/handlers"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/databases/mocks"
	"github.com/safereport/safereport-api/models"
)

type fakeChatService struct {
	lastRole string
	history  []models.Message
}

func (f *fakeChatService) SendMessage(ctx context.Context, reportID primitive.ObjectID, senderID, role, content string) (*models.Message, error) {
	f.lastRole = role
	return &models.Message{
		ID:        primitive.NewObjectID(),
		ReportID:  reportID,
		SenderID:  senderID,
		Sender:    role,
		Content:   content,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}, nil
}

func (f *fakeChatService) History(ctx context.Context, reportID primitive.ObjectID, limit int64, before primitive.ObjectID) ([]models.Message, error) {
	return f.history, nil
}

func (f *fakeChatService) IdentityFor(role, id string) string {
	return id
}

func TestMessage_SendMessageHandlerCitizenRole(t *testing.T) {
	body := `{"senderId": "608cafd595eb9dc05379b7f4", "content": "Any update?"}`
	req, err := http.NewRequest("POST", "/api/v1/report/608cafd595eb9dc05379b7f3/messages", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "608cafd595eb9dc05379b7f3"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Report)
		(*arg).AssignedOfficer = "some-other-officer"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "crime_reports").Return(conn)

	chatService := &fakeChatService{}
	m := handlers.Message{
		RDB:      databases.NewReportDatabase(db),
		Chat:     chatService,
		Validate: validator.New(),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.SendMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.SenderCitizen, chatService.lastRole)

	var got models.Message
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Any update?", got.Content)
}

func TestMessage_SendMessageHandlerOfficerRole(t *testing.T) {
	body := `{"senderId": "608cafd595eb9dc05379b7f4", "content": "On my way"}`
	req, err := http.NewRequest("POST", "/api/v1/report/608cafd595eb9dc05379b7f3/messages", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "608cafd595eb9dc05379b7f3"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	// the sender matches the assigned officer, so the role flips server-side
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Report)
		(*arg).AssignedOfficer = "608cafd595eb9dc05379b7f4"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "crime_reports").Return(conn)

	chatService := &fakeChatService{}
	m := handlers.Message{
		RDB:      databases.NewReportDatabase(db),
		Chat:     chatService,
		Validate: validator.New(),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.SendMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.SenderOfficer, chatService.lastRole)
}

func TestMessage_MessageHistoryHandlerInvalidCursor(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/report/608cafd595eb9dc05379b7f3/messages?before=nope", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "608cafd595eb9dc05379b7f3"})
	req.Header.Set("Authorization", "Bearer abc123")

	m := handlers.Message{
		RDB:      databases.NewReportDatabase(&MockDatabaseHelper{}),
		Chat:     &fakeChatService{},
		Validate: validator.New(),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MessageHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "invalid before cursor", Error: "the provided hex string is not a valid ObjectID"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
}

func TestMessage_MessageHistoryHandlerEmpty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/report/608cafd595eb9dc05379b7f3/messages", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "608cafd595eb9dc05379b7f3"})
	req.Header.Set("Authorization", "Bearer abc123")

	m := handlers.Message{
		RDB:      databases.NewReportDatabase(&MockDatabaseHelper{}),
		Chat:     &fakeChatService{},
		Validate: validator.New(),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MessageHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `[]`, rr.Body.String())
}
