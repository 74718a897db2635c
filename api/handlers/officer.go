package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
)

// Officer handles officer account and dispatch lookups
type Officer struct {
	ODB databases.OfficerDatabase
}

type officerLoginResponse struct {
	Token   string `json:"token"`
	Officer struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		BadgeNumber string `json:"badgeNumber"`
	} `json:"officer"`
}

// OfficerLoginHandler handles officer login via email/password and returns a JWT
func (o Officer) OfficerLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.OfficerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "email and password required"})
		return
	}

	officer, err := o.ODB.FindOne(r.Context(), bson.M{"email": email})
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(officer.Password), []byte(req.Password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "server misconfigured"})
		return
	}

	claims := jwt.MapClaims{
		"sub":   officer.ID.Hex(),
		"email": officer.Email,
		"badge": officer.BadgeNumber,
		"scope": "officer",
		"typ":   "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token generation failed"})
		return
	}

	var resp officerLoginResponse
	resp.Token = signed
	resp.Officer.ID = officer.ID.Hex()
	resp.Officer.Email = officer.Email
	resp.Officer.BadgeNumber = officer.BadgeNumber

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// NearbyOfficersHandler returns available officers closest to a point
func (o Officer) NearbyOfficersHandler(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lonErr != nil {
		err := latErr
		if err == nil {
			err = lonErr
		}
		config.ErrorStatus("invalid coordinates", http.StatusBadRequest, w, err)
		return
	}

	limit := int64(10)
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}

	officers, err := o.ODB.FindNearby(r.Context(), lon, lat, limit)
	if err != nil {
		config.ErrorStatus("failed to get nearby officers", http.StatusInternalServerError, w, err)
		return
	}
	if officers == nil {
		officers = []models.Officer{}
	}

	b, err := json.Marshal(officers)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateAvailabilityHandler lets an officer flip their dispatch availability
// and refresh their patrol position
func (o Officer) UpdateAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OfficerID string  `json:"officerId"`
		Available bool    `json:"available"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	oid, err := primitive.ObjectIDFromHex(body.OfficerID)
	if err != nil {
		config.ErrorStatus("officer not found", http.StatusNotFound, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"available": body.Available,
		"location": models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{body.Longitude, body.Latitude},
		},
	}}
	if err := o.ODB.UpdateOne(r.Context(), bson.M{"_id": oid}, update); err != nil {
		config.ErrorStatus("failed to update officer", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "officer updated"}`))
}
