package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/exifreport/internal/output"
)

func (h *Handler) HandleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.reportStore.All())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleReportDetail(w http.ResponseWriter, r *http.Request) {
	reportID := strings.TrimPrefix(r.URL.Path, "/api/reports/")

	report, ok := h.getReportOrError(w, reportID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if _, err := w.Write([]byte(output.PlainText(report))); err != nil {
				slog.Error("Unable to write report", "err", err)
			}
			return
		}
		h.writeJSON(w, report)
	case "DELETE":
		h.reportStore.Delete(reportID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTextReport renders the plain report for ?image=URL
func (h *Handler) HandleTextReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	imageURL := r.URL.Query().Get("image")
	if imageURL == "" {
		h.writeError(w, "image query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.inspector.InspectURL(r.Context(), imageURL)
	if err != nil {
		h.writeInspectError(w, err)
		return
	}
	h.reportStore.Set(report.ID, report)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(output.PlainText(report))); err != nil {
		slog.Error("Unable to write report", "err", err)
	}
}
