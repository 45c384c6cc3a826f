package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/exifreport/internal/images"
	"github.com/lehigh-university-libraries/exifreport/internal/inspect"
	"github.com/lehigh-university-libraries/exifreport/internal/models"
	"github.com/lehigh-university-libraries/exifreport/internal/storage"
)

// DefaultMaxUpload caps uploaded image size
const DefaultMaxUpload = 10 << 20

// Inspector produces reports for the API
type Inspector interface {
	InspectURL(ctx context.Context, url string) (*models.Report, error)
	InspectBytes(source string, data []byte) (*models.Report, error)
}

type Handler struct {
	reportStore *storage.ReportStore
	inspector   Inspector
	maxUpload   int64
}

func New(inspector Inspector, store *storage.ReportStore, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	if store == nil {
		store = storage.New()
	}
	return &Handler{
		reportStore: store,
		inspector:   inspector,
		maxUpload:   maxUpload,
	}
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/inspect", h.HandleInspect)
	mux.HandleFunc("/api/reports", h.HandleReports)
	mux.HandleFunc("/api/reports/", h.HandleReportDetail)
	mux.HandleFunc("/report", h.HandleTextReport)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}

// writeInspectError maps an acquisition failure to a status code
func (h *Handler) writeInspectError(w http.ResponseWriter, err error) {
	var (
		fe *images.FetchError
		de *images.DecodeError
	)
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &fe) && fe.Kind == images.Unexpected:
		code = http.StatusBadRequest
	case errors.As(err, &fe):
		code = http.StatusBadGateway
	case errors.As(err, &de):
		code = http.StatusUnsupportedMediaType
	}
	h.writeError(w, inspect.Describe(err), code)
}

// Report helpers
func (h *Handler) getReportOrError(w http.ResponseWriter, id string) (*models.Report, bool) {
	report, exists := h.reportStore.Get(id)
	if !exists {
		h.writeError(w, "Report not found", http.StatusNotFound)
		return nil, false
	}
	return report, true
}
