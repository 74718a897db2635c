package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/geo"
	"github.com/safereport/safereport-api/models"
	"github.com/safereport/safereport-api/notify"
)

// ReverseGeocoder resolves coordinates to an address, best effort
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) string
}

// SOS handles the emergency dispatch pipeline
type SOS struct {
	RDB    databases.ReportDatabase
	SDB    databases.StatusUpdateDatabase
	CDB    databases.ContactDatabase
	ODB    databases.OfficerDatabase
	NDB    databases.NotificationDatabase
	Geo    ReverseGeocoder
	SMS    notify.SMSSender
	Config *config.Config
}

type sosRequest struct {
	UserID    string  `json:"userId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type sosResponse struct {
	ReportID         string `json:"reportId"`
	Address          string `json:"address"`
	OfficersNotified int    `json:"officersNotified"`
	ContactsNotified int    `json:"contactsNotified"`
}

// SOSHandler runs the emergency pipeline in order: locate, compose,
// persist, officer fan-out, contact fan-out, final status. Failures before
// the fan-out abort the whole flow; fan-out failures are logged and the
// flow completes regardless.
func (s SOS) SOSHandler(w http.ResponseWriter, r *http.Request) {
	var req sosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.UserID == "" {
		config.ErrorStatus("missing userId", http.StatusUnauthorized, w, fmt.Errorf("userId is required"))
		return
	}

	address := geo.LocationDetectionFailed
	if req.Latitude != 0 || req.Longitude != 0 {
		address = s.Geo.Reverse(r.Context(), req.Latitude, req.Longitude)
	}

	report := models.Report{
		ID:            primitive.NewObjectID(),
		CrimeType:     "Emergency",
		Description:   fmt.Sprintf("EMERGENCY SOS triggered. Location: %s", address),
		Location:      geo.FormatPoint(req.Longitude, req.Latitude),
		Status:        models.StatusReceived,
		Priority:      models.PriorityEmergency,
		Media:         []string{},
		ComplainantID: req.UserID,
		CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := s.RDB.InsertOne(r.Context(), report); err != nil {
		config.ErrorStatus("failed to save emergency report", http.StatusInternalServerError, w, err)
		return
	}
	if err := s.SDB.InsertOne(r.Context(), models.StatusUpdate{
		ID:        primitive.NewObjectID(),
		ReportID:  report.ID,
		Status:    models.StatusReceived,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}); err != nil {
		zap.S().Errorw("failed to insert initial status update", "report_id", report.ID.Hex(), "error", err)
	}

	officersNotified := s.notifyOfficers(r.Context(), report, address, req.Latitude, req.Longitude)
	contactsNotified := s.notifyContacts(r.Context(), req.UserID, address, req.Latitude, req.Longitude)

	// dispatched is recorded even when nobody could be reached; the report
	// itself is the escalation trail
	if err := s.SDB.InsertOne(r.Context(), models.StatusUpdate{
		ID:          primitive.NewObjectID(),
		ReportID:    report.ID,
		Status:      models.StatusEmergencyDispatched,
		Description: fmt.Sprintf("Emergency dispatched. %d officers alerted, %d contacts notified.", officersNotified, contactsNotified),
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}); err != nil {
		zap.S().Errorw("failed to insert dispatched status update", "report_id", report.ID.Hex(), "error", err)
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(sosResponse{
		ReportID:         report.ID.Hex(),
		Address:          address,
		OfficersNotified: officersNotified,
		ContactsNotified: contactsNotified,
	})
	w.Write(b)
}

// notifyOfficers fans out to the nearest available officers: one
// notification row each plus a websocket alert. The store orders by
// proximity; the cap comes from config.
func (s SOS) notifyOfficers(ctx context.Context, report models.Report, address string, lat, lon float64) int {
	officers, err := s.ODB.FindNearby(ctx, lon, lat, s.Config.SOSOfficerFanout)
	if err != nil {
		zap.S().Errorw("officer lookup failed", "report_id", report.ID.Hex(), "error", err)
		return 0
	}

	for _, officer := range officers {
		notification := models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    officer.ID.Hex(),
			ReportID:  report.ID,
			Title:     "Emergency SOS",
			Body:      fmt.Sprintf("Emergency reported at %s. Map: %s", address, geo.MapsLink(lat, lon)),
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		}
		if err := s.NDB.InsertOne(ctx, notification); err != nil {
			zap.S().Errorw("failed to save officer notification", "officer_id", officer.ID.Hex(), "error", err)
			continue
		}
		sendAlertToUser(officer.ID.Hex(), "emergency_sos", notification)
	}
	return len(officers)
}

// notifyContacts fires one SMS per stored emergency contact, plus an email
// where the contact has one. Fire and forget: delivery failures are logged,
// never surfaced, and never block the pipeline.
func (s SOS) notifyContacts(ctx context.Context, userID, address string, lat, lon float64) int {
	contacts, err := s.CDB.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		zap.S().Errorw("contact lookup failed", "user_id", userID, "error", err)
		return 0
	}
	if len(contacts) == 0 {
		return 0
	}

	body := fmt.Sprintf("EMERGENCY SOS: your contact needs help. Location: %s. Map: %s", address, geo.MapsLink(lat, lon))
	for _, contact := range contacts {
		go func(c models.EmergencyContact) {
			if err := s.SMS.Send(c.Phone, body); err != nil {
				zap.S().Errorw("failed to send SOS SMS", "contact_id", c.ID.Hex(), "error", err)
			}
		}(contact)
		if contact.Email != "" {
			go func(c models.EmergencyContact) {
				err := notify.SendEmail(s.Config.SendgridAPIToken, c.Email, c.Name,
					"Emergency SOS Alert", "<p>"+body+"</p>", body)
				if err != nil {
					zap.S().Errorw("failed to send SOS email", "contact_id", c.ID.Hex(), "error", err)
				}
			}(contact)
		}
	}
	return len(contacts)
}
