package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

func (h *Handler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// JSON bodies carry an image URL, anything else is a multipart upload
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLInspect(w, r)
		return
	}

	h.handleFileInspect(w, r)
}

func (h *Handler) handleURLInspect(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(request.ImageURL) == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	report, err := h.inspector.InspectURL(r.Context(), request.ImageURL)
	if err != nil {
		h.writeInspectError(w, err)
		return
	}

	h.reportStore.Set(report.ID, report)
	slog.Info("Report stored", "id", report.ID, "source", report.Source, "fields", report.FieldCount())

	h.writeJSON(w, report)
}

func (h *Handler) handleFileInspect(w http.ResponseWriter, r *http.Request) {
	// room for multipart framing on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, fmt.Sprintf("File too large (max %dMB)", h.maxUpload>>20), http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if int64(len(fileData)) > h.maxUpload {
		h.writeError(w, fmt.Sprintf("File too large (max %dMB)", h.maxUpload>>20), http.StatusRequestEntityTooLarge)
		return
	}

	report, err := h.inspector.InspectBytes(header.Filename, fileData)
	if err != nil {
		h.writeInspectError(w, err)
		return
	}

	h.reportStore.Set(report.ID, report)
	slog.Info("Report stored", "id", report.ID, "source", report.Source, "fields", report.FieldCount())

	h.writeJSON(w, report)
}
