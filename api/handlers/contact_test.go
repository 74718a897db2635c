package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/safereport/safereport-api/api/handlers"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/databases/mocks"
	"github.com/safereport/safereport-api/models"
)

func TestContact_ListContactsHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/contacts?userId=1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.EmergencyContact)
		*arg = []models.EmergencyContact{{UserID: "1234", Name: "Mom", Phone: "+15550001111"}}
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "emergency_contacts").Return(conn)

	c := handlers.Contact{CDB: databases.NewContactDatabase(db), Validate: validator.New()}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ListContactsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.EmergencyContact
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Mom", got[0].Name)
}

func TestContact_ListContactsHandlerMissingUser(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/contacts", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	c := handlers.Contact{CDB: databases.NewContactDatabase(db), Validate: validator.New()}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ListContactsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "missing userId", Error: "userId query param is required"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
	db.AssertNotCalled(t, "Collection", "emergency_contacts")
}

func TestContact_CreateContactHandler(t *testing.T) {
	body := `{"userId": "1234", "name": "Mom", "phone": "+15550001111", "relationship": "parent"}`
	req, err := http.NewRequest("POST", "/api/v1/contacts", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "emergency_contacts").Return(conn)

	c := handlers.Contact{CDB: databases.NewContactDatabase(db), Validate: validator.New()}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateContactHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got models.EmergencyContact
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "1234", got.UserID)
	assert.Equal(t, "Mom", got.Name)
	assert.False(t, got.ID.IsZero())
}

func TestContact_CreateContactHandlerMissingPhone(t *testing.T) {
	body := `{"userId": "1234", "name": "Mom"}`
	req, err := http.NewRequest("POST", "/api/v1/contacts", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	c := handlers.Contact{CDB: databases.NewContactDatabase(db), Validate: validator.New()}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateContactHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", "emergency_contacts")
}

func TestContact_DeleteContactHandlerInvalidID(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/contacts/nope", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"contact_id": "nope"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	c := handlers.Contact{CDB: databases.NewContactDatabase(db), Validate: validator.New()}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteContactHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "contact not found", Error: "the provided hex string is not a valid ObjectID"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
}

func TestContact_DeleteContactHandler(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/contacts/608cafd595eb9dc05379b7f3", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"contact_id": "608cafd595eb9dc05379b7f3"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	db.On("Collection", "emergency_contacts").Return(conn)

	c := handlers.Contact{CDB: databases.NewContactDatabase(db), Validate: validator.New()}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteContactHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"message": "contact deleted"}`, rr.Body.String())
}
