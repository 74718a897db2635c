package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
)

// User handles citizen account and notification requests
type User struct {
	DB       databases.UserDatabase
	NDB      databases.NotificationDatabase
	Validate *validator.Validate
}

// UserCreateHandler registers a new citizen account
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := u.Validate.Struct(req); err != nil {
		config.ErrorStatus("invalid signup", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	count, err := u.DB.CountDocuments(r.Context(), bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("failed to check existing user", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("email already registered", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Name:      req.Name,
		Phone:     req.Phone,
		Password:  string(hash),
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := u.DB.InsertOne(r.Context(), user); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(user)
	w.Write(b)
}

// UserCheckEmailHandler reports whether an email is already registered
func (u User) UserCheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	count, err := u.DB.CountDocuments(r.Context(), bson.M{"email": strings.TrimSpace(strings.ToLower(req.Email))})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(map[string]bool{"exists": count > 0})
	w.Write(b)
}

// UserHandler returns one user by id
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	user, err := u.DB.FindOne(r.Context(), bson.M{"_id": oid})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GetUserNotificationsHandler lists a user's notifications, newest first,
// paginated with limit and page query params
func (u User) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	notifications, err := u.NDB.FindPage(r.Context(), bson.M{"user_id": userID}, limit, page)
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusInternalServerError, w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	b, err := json.Marshal(notifications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkNotificationAsReadHandler flips a notification's read flag
func (u User) MarkNotificationAsReadHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	notificationID := vars["notification_id"]

	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, err)
		return
	}

	err = u.NDB.UpdateOne(r.Context(),
		bson.M{"_id": oid, "user_id": vars["user_id"]},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		config.ErrorStatus("failed to update notification", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "notification marked as read"}`))
}

// DeleteNotificationHandler removes a notification
func (u User) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	notificationID := vars["notification_id"]

	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, err)
		return
	}

	err = u.NDB.DeleteOne(r.Context(), bson.M{"_id": oid, "user_id": vars["user_id"]})
	if err != nil {
		config.ErrorStatus("failed to delete notification", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "notification deleted"}`))
}
