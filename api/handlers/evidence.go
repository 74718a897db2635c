package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
	"github.com/safereport/safereport-api/storage"
)

// Evidence handles standalone evidence uploads, e.g. voice memos recorded
// before the report itself is submitted. Rows created here have no report
// attached yet; the scheduler sweeps the ones that never get one.
type Evidence struct {
	EDB   databases.EvidenceDatabase
	Store EvidenceStore
}

// UploadEvidenceHandler stores one file and returns its key and URL
func (e Evidence) UploadEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("missing file", http.StatusBadRequest, w, fmt.Errorf("a file part named file is required"))
		return
	}
	defer file.Close()

	url, publicID, err := e.Store.Upload(r.Context(), file, header.Filename)
	if err != nil {
		config.ErrorStatus("failed to upload file", http.StatusInternalServerError, w, err)
		return
	}

	row := models.Evidence{
		ID:        primitive.NewObjectID(),
		FilePath:  publicID,
		Type:      storage.Classify(header.Filename),
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := e.EDB.InsertMany(r.Context(), []models.Evidence{row}); err != nil {
		e.Store.Destroy(r.Context(), publicID)
		config.ErrorStatus("failed to save evidence record", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(map[string]string{
		"id":       row.ID.Hex(),
		"filePath": publicID,
		"url":      url,
		"type":     row.Type,
	})
	w.Write(b)
}
