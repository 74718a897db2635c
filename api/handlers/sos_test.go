package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/safereport/safereport-api/api/handlers"
	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/databases/mocks"
	"github.com/safereport/safereport-api/models"
)

type fakeGeocoder struct {
	address string
}

func (f fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) string {
	return f.address
}

type fakeSMSSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSMSSender) Send(to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeSMSSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestSOS_SOSHandlerMissingUser(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/sos", strings.NewReader(`{"latitude": 37.7749, "longitude": -122.4194}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	sender := &fakeSMSSender{}

	s := handlers.SOS{
		RDB:    databases.NewReportDatabase(db),
		SDB:    databases.NewStatusUpdateDatabase(db),
		CDB:    databases.NewContactDatabase(db),
		ODB:    databases.NewOfficerDatabase(db),
		NDB:    databases.NewNotificationDatabase(db),
		Geo:    fakeGeocoder{address: "123 Main St"},
		SMS:    sender,
		Config: &config.Config{SOSOfficerFanout: 3},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SOSHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "missing userId", Error: "userId is required"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
	db.AssertNotCalled(t, "Collection", "crime_reports")
}

func TestSOS_SOSHandlerZeroContacts(t *testing.T) {
	body := `{"userId": "608cafd595eb9dc05379b7f3", "latitude": 37.7749, "longitude": -122.4194}`
	req, err := http.NewRequest("POST", "/api/v1/sos", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	reportConn := &mocks.CollectionHelper{}
	statusConn := &mocks.CollectionHelper{}
	officerConn := &mocks.CollectionHelper{}
	contactConn := &mocks.CollectionHelper{}
	emptyCursor := &mocks.CursorHelper{}

	emptyCursor.On("Decode", mock.Anything).Return(nil)
	reportConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	statusConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	officerConn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(emptyCursor, nil)
	contactConn.On("Find", mock.Anything, mock.Anything).Return(emptyCursor, nil)
	db.On("Collection", "crime_reports").Return(reportConn)
	db.On("Collection", "status_updates").Return(statusConn)
	db.On("Collection", "police_officers").Return(officerConn)
	db.On("Collection", "emergency_contacts").Return(contactConn)

	sender := &fakeSMSSender{}
	s := handlers.SOS{
		RDB:    databases.NewReportDatabase(db),
		SDB:    databases.NewStatusUpdateDatabase(db),
		CDB:    databases.NewContactDatabase(db),
		ODB:    databases.NewOfficerDatabase(db),
		NDB:    databases.NewNotificationDatabase(db),
		Geo:    fakeGeocoder{address: "123 Main St"},
		SMS:    sender,
		Config: &config.Config{SOSOfficerFanout: 3},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SOSHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got struct {
		ReportID         string `json:"reportId"`
		Address          string `json:"address"`
		OfficersNotified int    `json:"officersNotified"`
		ContactsNotified int    `json:"contactsNotified"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ReportID)
	assert.Equal(t, "123 Main St", got.Address)
	assert.Equal(t, 0, got.OfficersNotified)
	assert.Equal(t, 0, got.ContactsNotified)

	// no stored contacts means no SMS fan-out
	assert.Equal(t, 0, sender.count())

	// both the initial and the dispatched status rows are written
	statusConn.AssertNumberOfCalls(t, "InsertOne", 2)
}

func TestSOS_SOSHandlerNoCoordinates(t *testing.T) {
	body := `{"userId": "608cafd595eb9dc05379b7f3"}`
	req, err := http.NewRequest("POST", "/api/v1/sos", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	reportConn := &mocks.CollectionHelper{}
	statusConn := &mocks.CollectionHelper{}
	officerConn := &mocks.CollectionHelper{}
	contactConn := &mocks.CollectionHelper{}
	emptyCursor := &mocks.CursorHelper{}

	emptyCursor.On("Decode", mock.Anything).Return(nil)
	reportConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	statusConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	officerConn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(emptyCursor, nil)
	contactConn.On("Find", mock.Anything, mock.Anything).Return(emptyCursor, nil)
	db.On("Collection", "crime_reports").Return(reportConn)
	db.On("Collection", "status_updates").Return(statusConn)
	db.On("Collection", "police_officers").Return(officerConn)
	db.On("Collection", "emergency_contacts").Return(contactConn)

	s := handlers.SOS{
		RDB:    databases.NewReportDatabase(db),
		SDB:    databases.NewStatusUpdateDatabase(db),
		CDB:    databases.NewContactDatabase(db),
		ODB:    databases.NewOfficerDatabase(db),
		NDB:    databases.NewNotificationDatabase(db),
		Geo:    fakeGeocoder{address: "should not be used"},
		SMS:    &fakeSMSSender{},
		Config: &config.Config{SOSOfficerFanout: 3},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SOSHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	// a missing fix never blocks the pipeline, the address just degrades
	assert.Equal(t, "Location detection failed", got["address"])
}
