package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/serisow/abstractor/config"
	"github.com/serisow/abstractor/document"
	"github.com/serisow/abstractor/pipeline"
	"github.com/serisow/abstractor/schema"
)

// ExtractHandler accepts an uploaded document plus a field schema and returns
// the structured extraction result.
type ExtractHandler struct {
	cfg       config.Config
	logger    *slog.Logger
	extractor *document.Extractor
	pipeline  *pipeline.Pipeline
}

func NewExtractHandler(cfg config.Config, pl *pipeline.Pipeline, logger *slog.Logger) *ExtractHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractHandler{
		cfg:       cfg,
		logger:    logger,
		extractor: document.NewExtractor(logger),
		pipeline:  pl,
	}
}

func (h *ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	logger := h.logger.With(slog.String("request_id", requestID))

	logger.Info("Received extraction request")

	// Parse the incoming multipart form
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		writeJSONError(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	// Parse and validate the schema before touching the file
	schemaRaw := r.FormValue("schema")
	if schemaRaw == "" {
		writeJSONError(w, "Missing schema form field", http.StatusBadRequest)
		return
	}
	sch, err := schema.Parse([]byte(schemaRaw))
	if err != nil {
		logger.Warn("Invalid schema supplied",
			slog.String("error", err.Error()))
		writeJSONError(w, "Invalid schema: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Get the file from the form
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxUploadSize {
		writeJSONError(w, "File size exceeds the upload limit", http.StatusBadRequest)
		return
	}

	// Read the file into a buffer
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	payload := bytes.NewReader(buf.Bytes())

	logger.Debug("Classifying document",
		slog.String("filename", header.Filename),
		slog.String("content_type", header.Header.Get("Content-Type")),
		slog.Int64("size", header.Size))

	kind, err := document.Sniff(header.Filename, payload)
	if err != nil {
		logger.Error("Unsupported file type",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Measure extraction time
	extractStart := time.Now()

	text, err := h.extractor.Extract(kind, payload)
	if err != nil {
		logger.Error("Text extraction failed",
			slog.String("filename", header.Filename),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		if errors.Is(err, document.ErrOCRUnavailable) {
			writeJSONError(w, document.ErrOCRUnavailable.Error(), http.StatusInternalServerError)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("Text extraction completed",
		slog.String("kind", string(kind)),
		slog.Int("text_length", len(text)),
		slog.Duration("extraction_time", time.Since(extractStart)))

	result := h.pipeline.Run(r.Context(), text, sch)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error("Failed to encode response",
			slog.String("error", err.Error()))
	}
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
