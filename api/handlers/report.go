package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/api"
	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/geo"
	"github.com/safereport/safereport-api/models"
	"github.com/safereport/safereport-api/storage"
)

const maxUploadBytes = 32 << 20

// EvidenceStore is the slice of the object store the composer needs
type EvidenceStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, string, error)
	Destroy(ctx context.Context, publicID string)
}

// ImageDescriber produces a short text description of an image, best effort
type ImageDescriber interface {
	DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Report handles report submission and tracking requests
type Report struct {
	RDB      databases.ReportDatabase
	EDB      databases.EvidenceDatabase
	SDB      databases.StatusUpdateDatabase
	UDB      databases.UserDatabase
	ODB      databases.OfficerDatabase
	PDB      databases.PendingReportDatabase
	Store    EvidenceStore
	Vision   ImageDescriber
	Validate *validator.Validate
}

type uploadResult struct {
	url      string
	publicID string
	filename string
	isImage  bool
	raw      []byte
}

// CreateReportHandler accepts a multipart report submission: form fields
// plus any number of files under "evidence". Evidence uploaded standalone
// before submission rides along as row ids under "evidence_ids" and gets
// attached instead of re-uploaded. Uploads fan out concurrently; one failed
// upload aborts the submission and already-stored objects are destroyed so
// nothing is left half-submitted.
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		config.ErrorStatus("missing user_id", http.StatusUnauthorized, w, fmt.Errorf("user_id is required"))
		return
	}

	lat, _ := strconv.ParseFloat(r.FormValue("latitude"), 64)
	lon, _ := strconv.ParseFloat(r.FormValue("longitude"), 64)
	form := models.ReportRequest{
		CrimeType:   r.FormValue("crime_type"),
		Description: r.FormValue("description"),
		Latitude:    lat,
		Longitude:   lon,
	}
	if err := re.Validate.Struct(form); err != nil {
		config.ErrorStatus("invalid report submission", http.StatusBadRequest, w, err)
		return
	}

	var adoptIDs []primitive.ObjectID
	if r.MultipartForm != nil {
		var err error
		adoptIDs, err = parseEvidenceIDs(r.MultipartForm.Value["evidence_ids"])
		if err != nil {
			config.ErrorStatus("invalid evidence_ids", http.StatusBadRequest, w, err)
			return
		}
	}

	re.upsertProfile(r.Context(), userID)

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["evidence"]
	}

	uploads, err := re.uploadAll(r.Context(), files)
	if err != nil {
		re.cleanupUploads(uploads)
		config.ErrorStatus("failed to upload evidence", http.StatusInternalServerError, w, err)
		return
	}

	description := re.appendImageDescriptions(r.Context(), form.Description, uploads)

	report := models.Report{
		ID:            primitive.NewObjectID(),
		CrimeType:     form.CrimeType,
		Description:   description,
		Location:      geo.FormatPoint(form.Longitude, form.Latitude),
		Status:        models.StatusReceived,
		Media:         mediaURLs(uploads),
		ComplainantID: userID,
		CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := re.RDB.InsertOne(r.Context(), report); err != nil {
		re.cleanupUploads(uploads)
		config.ErrorStatus("failed to save report", http.StatusInternalServerError, w, err)
		return
	}

	if len(uploads) > 0 {
		rows := make([]models.Evidence, 0, len(uploads))
		for _, u := range uploads {
			rows = append(rows, models.Evidence{
				ID:        primitive.NewObjectID(),
				ReportID:  report.ID,
				FilePath:  u.publicID,
				Type:      storage.Classify(u.filename),
				CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
			})
		}
		if err := re.EDB.InsertMany(r.Context(), rows); err != nil {
			re.cleanupUploads(uploads)
			_ = re.RDB.DeleteOne(r.Context(), bson.M{"_id": report.ID})
			config.ErrorStatus("failed to save evidence records", http.StatusInternalServerError, w, err)
			return
		}
	}

	// adopt evidence uploaded before submission; only rows not yet attached
	// to a report are eligible
	if len(adoptIDs) > 0 {
		_, err := re.EDB.UpdateMany(r.Context(),
			bson.M{"_id": bson.M{"$in": adoptIDs}, "report_id": primitive.NilObjectID},
			bson.M{"$set": bson.M{"report_id": report.ID}})
		if err != nil {
			re.cleanupUploads(uploads)
			_ = re.RDB.DeleteOne(r.Context(), bson.M{"_id": report.ID})
			config.ErrorStatus("failed to attach evidence", http.StatusInternalServerError, w, err)
			return
		}
	}

	// the report exists either way; a missing first status row only costs
	// the tracker its initial history entry
	if err := re.SDB.InsertOne(r.Context(), models.StatusUpdate{
		ID:          primitive.NewObjectID(),
		ReportID:    report.ID,
		Status:      models.StatusReceived,
		Description: "Report received and queued for review",
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}); err != nil {
		zap.S().Errorw("failed to insert initial status update", "report_id", report.ID.Hex(), "error", err)
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(map[string]string{"reportId": report.ID.Hex()})
	w.Write(b)
}

// upsertProfile makes sure a profile row exists for the submitter. Racing
// submissions both upsert the same key, so a duplicate is not an error.
func (re Report) upsertProfile(ctx context.Context, userID string) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}
	err = re.UDB.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$setOnInsert": bson.M{"created_at": primitive.NewDateTimeFromTime(time.Now())}},
		options.Update().SetUpsert(true))
	if err != nil {
		zap.S().Debugw("profile upsert skipped", "user_id", userID, "error", err)
	}
}

// uploadAll stores every attachment concurrently and joins on the result.
// The first failure wins; the caller destroys whatever did get stored.
func (re Report) uploadAll(ctx context.Context, files []*multipart.FileHeader) ([]uploadResult, error) {
	results := make([]uploadResult, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()

			f, err := fh.Open()
			if err != nil {
				errs[i] = fmt.Errorf("failed to open %s: %w", fh.Filename, err)
				return
			}
			defer f.Close()

			raw, err := io.ReadAll(f)
			if err != nil {
				errs[i] = fmt.Errorf("failed to read %s: %w", fh.Filename, err)
				return
			}

			url, publicID, err := re.Store.Upload(ctx, bytes.NewReader(raw), fh.Filename)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = uploadResult{
				url:      url,
				publicID: publicID,
				filename: fh.Filename,
				isImage:  storage.Classify(fh.Filename) == models.EvidenceImage,
				raw:      raw,
			}
		}(i, fh)
	}
	wg.Wait()

	var stored []uploadResult
	for _, res := range results {
		if res.publicID != "" {
			stored = append(stored, res)
		}
	}
	for _, err := range errs {
		if err != nil {
			return stored, err
		}
	}
	return stored, nil
}

func (re Report) cleanupUploads(uploads []uploadResult) {
	for _, u := range uploads {
		re.Store.Destroy(context.Background(), u.publicID)
	}
}

// appendImageDescriptions asks the vision service about each attached image
// and appends what it says to the report description. Purely best effort.
func (re Report) appendImageDescriptions(ctx context.Context, description string, uploads []uploadResult) string {
	if re.Vision == nil {
		return description
	}
	for _, u := range uploads {
		if !u.isImage {
			continue
		}
		desc, err := re.Vision.DescribeImage(ctx, u.raw, "image/jpeg")
		if err != nil {
			zap.S().Warnw("image description failed", "file", u.filename, "error", err)
			continue
		}
		if desc != "" {
			description = fmt.Sprintf("%s\n\n[Attachment: %s] %s", description, u.filename, desc)
		}
	}
	return description
}

// parseEvidenceIDs parses the evidence_ids form field, one hex ObjectID per
// value, comma-separated values allowed within a value
func parseEvidenceIDs(values []string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			oid, err := primitive.ObjectIDFromHex(part)
			if err != nil {
				return nil, fmt.Errorf("bad evidence id %q: %w", part, err)
			}
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

func mediaURLs(uploads []uploadResult) []string {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		urls = append(urls, u.url)
	}
	return urls
}

const defaultRecentLimit = 5

// RecentReportsHandler returns the newest reports, newest first. The home
// feed asks for the default of five; limit= overrides it.
func (re Report) RecentReportsHandler(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultRecentLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			config.ErrorStatus("invalid limit", http.StatusBadRequest, w, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = n
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reports, err := re.RDB.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	b, err := json.Marshal(reports)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportStatusHandler returns the tracker view of one report. A tracking
// code that is not even ObjectID-shaped renders as not-found without a
// store round trip.
func (re Report) ReportStatusHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	oid, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := re.RDB.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	evidence, err := re.EDB.Find(ctx, bson.M{"report_id": oid})
	if err != nil {
		config.ErrorStatus("failed to get evidence", http.StatusInternalServerError, w, err)
		return
	}

	updates, err := re.SDB.FindHistory(ctx, oid)
	if err != nil {
		config.ErrorStatus("failed to get status history", http.StatusInternalServerError, w, err)
		return
	}

	resp := models.ReportStatusResponse{
		Report:        *report,
		CurrentStatus: displayStatus(report),
		Evidence:      evidence,
		StatusUpdates: updates,
	}
	if report.AssignedOfficer != "" {
		if officerOID, err := primitive.ObjectIDFromHex(report.AssignedOfficer); err == nil {
			if officer, err := re.ODB.FindOne(ctx, bson.M{"_id": officerOID}); err == nil {
				resp.Officer = &models.OfficerSummary{ID: officer.ID.Hex(), BadgeNumber: officer.BadgeNumber}
			}
		}
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// displayStatus applies the two-tier fallback used everywhere a status is
// shown: current_status, then status, then "In Progress".
func displayStatus(report *models.Report) string {
	if report.CurrentStatus != "" {
		return report.CurrentStatus
	}
	if report.Status != "" {
		return report.Status
	}
	return "In Progress"
}

// AppendStatusHandler lets an officer append a status update. The report's
// current_status mirrors the latest entry.
func (re Report) AppendStatusHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	oid, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := re.Validate.Struct(req); err != nil {
		config.ErrorStatus("invalid status update", http.StatusBadRequest, w, err)
		return
	}

	if _, err := re.RDB.FindOne(r.Context(), bson.M{"_id": oid}); err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	update := models.StatusUpdate{
		ID:          primitive.NewObjectID(),
		ReportID:    oid,
		Status:      req.Status,
		Description: req.Description,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := re.SDB.InsertOne(r.Context(), update); err != nil {
		config.ErrorStatus("failed to save status update", http.StatusInternalServerError, w, err)
		return
	}

	if err := re.RDB.UpdateOne(r.Context(), bson.M{"_id": oid},
		bson.M{"$set": bson.M{"current_status": req.Status}}); err != nil {
		zap.S().Errorw("failed to mirror current_status", "report_id", reportID, "error", err)
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(update)
	w.Write(b)
}

// OfficerLocationHandler returns a position for the responding unit. With
// no live AVL feed the position is simulated 0.5 to 2km off the incident.
func (re Report) OfficerLocationHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	oid, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	report, err := re.RDB.FindOne(r.Context(), bson.M{"_id": oid})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	lon, lat, ok := geo.ParsePoint(report.Location)
	if !ok {
		config.ErrorStatus("report has no location", http.StatusNotFound, w, fmt.Errorf("unparseable location"))
		return
	}

	officerLon, officerLat := geo.NearbyPoint(lon, lat, 0.5, 2.0)
	b, _ := json.Marshal(map[string]float64{
		"latitude":  officerLat,
		"longitude": officerLon,
	})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreatePendingReportHandler stashes a submission from a visitor without a
// session and hands back a resume token
func (re Report) CreatePendingReportHandler(w http.ResponseWriter, r *http.Request) {
	var form models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := re.Validate.Struct(form); err != nil {
		config.ErrorStatus("invalid report submission", http.StatusBadRequest, w, err)
		return
	}

	pending := models.PendingReport{
		ID:        primitive.NewObjectID(),
		Token:     uuid.New().String(),
		Form:      form,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := re.PDB.InsertOne(r.Context(), pending); err != nil {
		config.ErrorStatus("failed to stash report", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(map[string]string{"token": pending.Token})
	w.Write(b)
}

// ReplayPendingReportHandler completes a stashed submission for the now
// authenticated user and deletes the stash
func (re Report) ReplayPendingReportHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		config.ErrorStatus("missing userId", http.StatusBadRequest, w, fmt.Errorf("userId is required"))
		return
	}

	pending, err := re.PDB.FindOne(r.Context(), bson.M{"token": token})
	if err != nil {
		config.ErrorStatus("pending report not found", http.StatusNotFound, w, err)
		return
	}

	re.upsertProfile(r.Context(), body.UserID)

	report := models.Report{
		ID:            primitive.NewObjectID(),
		CrimeType:     pending.Form.CrimeType,
		Description:   pending.Form.Description,
		Location:      geo.FormatPoint(pending.Form.Longitude, pending.Form.Latitude),
		Status:        models.StatusReceived,
		Media:         []string{},
		ComplainantID: body.UserID,
		CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := re.RDB.InsertOne(r.Context(), report); err != nil {
		config.ErrorStatus("failed to save report", http.StatusInternalServerError, w, err)
		return
	}

	if err := re.SDB.InsertOne(r.Context(), models.StatusUpdate{
		ID:          primitive.NewObjectID(),
		ReportID:    report.ID,
		Status:      models.StatusReceived,
		Description: "Report received and queued for review",
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}); err != nil {
		zap.S().Errorw("failed to insert initial status update", "report_id", report.ID.Hex(), "error", err)
	}

	if err := re.PDB.DeleteOne(r.Context(), bson.M{"_id": pending.ID}); err != nil {
		zap.S().Warnw("failed to delete pending report", "token", token, "error", err)
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(map[string]string{"reportId": report.ID.Hex()})
	w.Write(b)
}
