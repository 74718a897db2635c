package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/safereport/safereport-api/api/handlers"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/databases/mocks"
	"github.com/safereport/safereport-api/models"
)

func TestOfficer_OfficerLoginHandlerUnknownEmail(t *testing.T) {
	body := `{"email": "officer@pd.gov", "password": "hunter22"}`
	req, err := http.NewRequest("POST", "/api/v1/officer/login", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "police_officers").Return(conn)

	o := handlers.Officer{ODB: databases.NewOfficerDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.OfficerLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "Invalid credentials"}`, rr.Body.String())
}

func TestOfficer_OfficerLoginHandlerWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	body := `{"email": "officer@pd.gov", "password": "wrong-horse"}`
	req, err := http.NewRequest("POST", "/api/v1/officer/login", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Officer)
		(*arg).Email = "officer@pd.gov"
		(*arg).Password = string(hash)
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "police_officers").Return(conn)

	o := handlers.Officer{ODB: databases.NewOfficerDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.OfficerLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "Invalid credentials"}`, rr.Body.String())
}

func TestOfficer_OfficerLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	body := `{"email": "Officer@PD.gov", "password": "correct-horse"}`
	req, err := http.NewRequest("POST", "/api/v1/officer/login", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Officer)
		(*arg).Email = "officer@pd.gov"
		(*arg).Password = string(hash)
		(*arg).BadgeNumber = "B-1042"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "police_officers").Return(conn)

	o := handlers.Officer{ODB: databases.NewOfficerDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.OfficerLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		Token   string `json:"token"`
		Officer struct {
			Email       string `json:"email"`
			BadgeNumber string `json:"badgeNumber"`
		} `json:"officer"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "officer@pd.gov", got.Officer.Email)
	assert.Equal(t, "B-1042", got.Officer.BadgeNumber)
}

func TestOfficer_NearbyOfficersHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/officers/nearby?lat=37.7749&lng=-122.4194&limit=2", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Officer)
		*arg = []models.Officer{{Name: "Officer Diaz", BadgeNumber: "B-1042", Available: true}}
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "police_officers").Return(conn)

	o := handlers.Officer{ODB: databases.NewOfficerDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.NearbyOfficersHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Officer
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "B-1042", got[0].BadgeNumber)
}

func TestOfficer_NearbyOfficersHandlerBadCoordinates(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/officers/nearby?lat=abc&lng=-122.4194", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	o := handlers.Officer{ODB: databases.NewOfficerDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(o.NearbyOfficersHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Collection", "police_officers")
}
