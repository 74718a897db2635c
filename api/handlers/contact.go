package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
)

// Contact handles emergency contact requests
type Contact struct {
	CDB      databases.ContactDatabase
	Validate *validator.Validate
}

// ListContactsHandler returns the calling user's emergency contacts
func (c Contact) ListContactsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		config.ErrorStatus("missing userId", http.StatusBadRequest, w, fmt.Errorf("userId query param is required"))
		return
	}

	contacts, err := c.CDB.Find(r.Context(), bson.M{"user_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get contacts", http.StatusInternalServerError, w, err)
		return
	}
	if contacts == nil {
		contacts = []models.EmergencyContact{}
	}

	b, err := json.Marshal(contacts)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateContactHandler adds an emergency contact
func (c Contact) CreateContactHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		models.EmergencyContactRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.UserID == "" {
		config.ErrorStatus("missing userId", http.StatusBadRequest, w, fmt.Errorf("userId is required"))
		return
	}
	if err := c.Validate.Struct(body.EmergencyContactRequest); err != nil {
		config.ErrorStatus("invalid contact", http.StatusBadRequest, w, err)
		return
	}

	contact := models.EmergencyContact{
		ID:           primitive.NewObjectID(),
		UserID:       body.UserID,
		Name:         body.Name,
		Phone:        body.Phone,
		Email:        body.Email,
		Relationship: body.Relationship,
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := c.CDB.InsertOne(r.Context(), contact); err != nil {
		config.ErrorStatus("failed to save contact", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(contact)
	w.Write(b)
}

// DeleteContactHandler removes an emergency contact
func (c Contact) DeleteContactHandler(w http.ResponseWriter, r *http.Request) {
	contactID := mux.Vars(r)["contact_id"]

	oid, err := primitive.ObjectIDFromHex(contactID)
	if err != nil {
		config.ErrorStatus("contact not found", http.StatusNotFound, w, err)
		return
	}

	if err := c.CDB.DeleteOne(r.Context(), bson.M{"_id": oid}); err != nil {
		config.ErrorStatus("failed to delete contact", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "contact deleted"}`))
}
