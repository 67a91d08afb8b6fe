package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/alt-ctrl-dev/aba-validator/internal/ingestion"
	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
	"github.com/go-chi/chi/v5"
)

type ValidationService struct {
	DBManager      database.DBManager
	MaxUploadBytes int64
}

func NewValidationService(dbManager database.DBManager, maxUploadBytes int64) *ValidationService {
	return &ValidationService{DBManager: dbManager, MaxUploadBytes: maxUploadBytes}
}

type errorResponse struct {
	Error  string   `json:"error"`
	Line   int      `json:"line,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// ValidateRecords decodes the ABA file sent as the request body and returns
// the part chosen by the filter query parameter.
func (h *ValidationService) ValidateRecords(w http.ResponseWriter, r *http.Request) {
	filter, ok := models.ParseRecordFilter(r.URL.Query().Get("filter"))
	if !ok {
		http.Error(w, "Invalid 'filter'. Use all, descriptive_record, detail_record or file_record.", http.StatusBadRequest)
		return
	}

	records, err := ingestion.GetRecordsFromReader(h.body(w, r), filter)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewFileRecordsView(records))
}

// ValidateLines returns the outcome of every line of the uploaded file
// without checking record order.
func (h *ValidationService) ValidateLines(w http.ResponseWriter, r *http.Request) {
	outcomes, err := ingestion.ProcessReader(h.body(w, r))
	if err != nil {
		writeValidationError(w, err)
		return
	}
	if len(outcomes) == 0 {
		writeValidationError(w, parser.ErrNoContent)
		return
	}

	writeJSON(w, http.StatusOK, models.NewRecordViews(outcomes))
}

func (h *ValidationService) GetFileStatus(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || fileID <= 0 {
		http.Error(w, "File id must be a positive integer", http.StatusBadRequest)
		return
	}

	record, err := h.DBManager.GetFileRecord(fileID)
	if err != nil {
		if errors.Is(err, database.ErrFileRecordNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to load file %d: %v", fileID, err)
		http.Error(w, "Failed to retrieve file information", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *ValidationService) body(w http.ResponseWriter, r *http.Request) io.Reader {
	if h.MaxUploadBytes > 0 {
		return http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	return r.Body
}

func writeValidationError(w http.ResponseWriter, err error) {
	response := errorResponse{
		Error:  err.Error(),
		Line:   parser.LineOf(err),
		Fields: parser.FieldsOf(err),
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
	case errors.Is(err, parser.ErrNoContent), errors.Is(err, parser.ErrInvalidFilter):
		writeJSON(w, http.StatusBadRequest, response)
	case errors.Is(err, parser.ErrInternal):
		log.Printf("ERROR: Validation failed unexpectedly: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		writeJSON(w, http.StatusUnprocessableEntity, response)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}
