package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/krau/filekit/config"
	"github.com/krau/filekit/filestore"
	"github.com/krau/filekit/storage"
)

// multipart parts above this size are spooled to disk
const maxMemory = 8 << 20

type UploadResponse struct {
	Path string `json:"path"`
}

type MoveRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type MoveResponse struct {
	Moved bool `json:"moved"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// InfoExtra is attached to every record returned by the info endpoint.
type InfoExtra struct {
	RequestID   string `json:"request_id"`
	Storage     string `json:"storage"`
	DownloadURL string `json:"download_url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	cfg config.APIConfig
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	if h.cfg.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	dir := r.FormValue("dir")
	if dir != "" && !isSafePath(dir) {
		respondError(w, "invalid dir", http.StatusBadRequest)
		return
	}

	stor := storage.FromContext(r.Context())
	p, err := stor.Upload(r.Context(), filestore.FromMultipart(files[0]), dir)
	if err != nil {
		if errors.Is(err, filestore.ErrInvalidArgument) {
			respondError(w, "file cannot be empty", http.StatusBadRequest)
			return
		}
		logger.Error("Upload failed", "err", err)
		respondError(w, "upload failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, UploadResponse{Path: p})
}

func (h *handlers) handleDownload(w http.ResponseWriter, r *http.Request) {
	p, ok := pathValue(w, r)
	if !ok {
		return
	}
	data, err := storage.FromContext(r.Context()).Download(r.Context(), p)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *handlers) handleExists(w http.ResponseWriter, r *http.Request) {
	p, ok := pathValue(w, r)
	if !ok {
		return
	}
	if storage.FromContext(r.Context()).Exists(r.Context(), p) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := pathValue(w, r)
	if !ok {
		return
	}
	deleted := storage.FromContext(r.Context()).Delete(r.Context(), p)
	respondJSON(w, http.StatusOK, DeleteResponse{Deleted: deleted})
}

func (h *handlers) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Source == "" || req.Destination == "" {
		respondError(w, "source and destination are required", http.StatusBadRequest)
		return
	}
	if !isSafePath(req.Source) || !isSafePath(req.Destination) {
		respondError(w, "invalid path", http.StatusBadRequest)
		return
	}
	moved := storage.FromContext(r.Context()).Move(r.Context(), req.Source, req.Destination)
	respondJSON(w, http.StatusOK, MoveResponse{Moved: moved})
}

func (h *handlers) handleInfo(w http.ResponseWriter, r *http.Request) {
	p, ok := pathValue(w, r)
	if !ok {
		return
	}
	stor := storage.FromContext(r.Context())
	downloadURL := "/api/v1/files/" + escapePath(p)
	if name := r.URL.Query().Get("store"); name != "" {
		downloadURL += "?store=" + url.QueryEscape(name)
	}
	rec, err := filestore.GetInfo(r.Context(), stor, p, InfoExtra{
		RequestID:   w.Header().Get("X-Request-Id"),
		Storage:     stor.Name(),
		DownloadURL: downloadURL,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func pathValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := r.PathValue("path")
	if p == "" || !isSafePath(p) {
		respondError(w, "invalid path", http.StatusBadRequest)
		return "", false
	}
	return p, true
}

// isSafePath rejects absolute paths and parent segments so requests cannot leave the storage root.
func isSafePath(p string) bool {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) || strings.Contains(p, ":") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return false
		}
	}
	return true
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, filestore.ErrNotFound) {
		respondError(w, "file not found", http.StatusNotFound)
		return
	}
	log.FromContext(r.Context()).Error("Storage operation failed", "path", r.URL.Path, "err", err)
	respondError(w, "internal error", http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}
