package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vidshare/backend/internal/api/middleware"
	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/db/models"
	"github.com/vidshare/backend/internal/storage"
	"github.com/vidshare/backend/internal/validate"
)

// maxUploadBytes caps a single multipart upload request.
const maxUploadBytes = 500 << 20 // 500 MiB

var errNotAnImage = errors.New("thumbnail must be an image")

type VideosHandler struct {
	store   *db.Store
	uploads *storage.Uploads
}

func NewVideosHandler(store *db.Store, uploads *storage.Uploads) *VideosHandler {
	return &VideosHandler{store: store, uploads: uploads}
}

func videoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// List supports ?category= (with the "All" sentinel) and ?search= filters.
func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	videos, err := h.store.ListVideos(category, search)
	if err != nil {
		jsonError(w, "failed to list videos", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, videos, http.StatusOK)
}

func (h *VideosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		jsonError(w, "invalid video ID", http.StatusBadRequest)
		return
	}
	video, err := h.store.GetVideo(id)
	if err == db.ErrNotFound {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load video", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, video, http.StatusOK)
}

// Upload accepts a multipart body: one "file" part (video/*), a "videoData"
// JSON part with the metadata, and an optional "thumbnail" image part. The
// MIME gate runs before anything is written to the store or disk.
func (h *VideosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart body or payload too large", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		jsonError(w, "exactly one file is required", http.StatusBadRequest)
		return
	}
	header := files[0]
	if !storage.IsVideoUpload(header) {
		jsonError(w, "only video files are accepted", http.StatusBadRequest)
		return
	}

	var req validate.VideoInsertRequest
	if err := json.Unmarshal([]byte(r.FormValue("videoData")), &req); err != nil {
		jsonError(w, "videoData must be valid JSON", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	file, err := header.Open()
	if err != nil {
		jsonError(w, "failed to read uploaded file", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	fileName, filePath, err := h.uploads.Save(file, header)
	if err != nil {
		jsonError(w, "failed to store uploaded file", http.StatusInternalServerError)
		return
	}

	thumbnailPath, err := h.saveThumbnail(r)
	if err != nil {
		h.uploads.Remove(filePath)
		jsonError(w, "failed to store thumbnail", http.StatusBadRequest)
		return
	}

	video := &models.Video{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Duration:      req.Duration,
		FileName:      fileName,
		FilePath:      filePath,
		ThumbnailPath: thumbnailPath,
		UploaderID:    claims.UserID,
	}
	if err := h.store.CreateVideo(video); err != nil {
		h.uploads.Remove(filePath)
		h.uploads.Remove(thumbnailPath)
		jsonError(w, "failed to create video", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, video, http.StatusCreated)
}

func (h *VideosHandler) saveThumbnail(r *http.Request) (string, error) {
	thumbs := r.MultipartForm.File["thumbnail"]
	if len(thumbs) == 0 {
		return "", nil
	}
	header := thumbs[0]
	if !storage.IsImageUpload(header) {
		return "", errNotAnImage
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	_, path, err := h.uploads.Save(file, header)
	return path, err
}

// Embed registers a remote URL instead of hosting a file.
func (h *VideosHandler) Embed(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req validate.EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	video := &models.Video{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		EmbedURL:    req.EmbedURL,
		IsEmbedded:  true,
		UploaderID:  claims.UserID,
	}
	if err := h.store.CreateVideo(video); err != nil {
		jsonError(w, "failed to create video", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, video, http.StatusCreated)
}

// Update patches video fields. Only the uploader or an admin may modify a video.
func (h *VideosHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		jsonError(w, "invalid video ID", http.StatusBadRequest)
		return
	}
	video, done := h.authorizeOwner(w, r, id)
	if done {
		return
	}

	var req validate.VideoPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	updated, err := h.store.UpdateVideo(video.ID, db.VideoPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
	})
	if err == db.ErrNotFound {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to update video", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, updated, http.StatusOK)
}

// Delete removes the record and then the backing files. The two steps are
// not transactional: a crash in between leaves an orphaned file or a
// dangling record.
func (h *VideosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		jsonError(w, "invalid video ID", http.StatusBadRequest)
		return
	}
	video, done := h.authorizeOwner(w, r, id)
	if done {
		return
	}

	if err := h.store.DeleteVideo(video.ID); err == db.ErrNotFound {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	} else if err != nil {
		jsonError(w, "failed to delete video", http.StatusInternalServerError)
		return
	}

	if err := h.uploads.Remove(video.FilePath); err != nil {
		log.Printf("failed to remove file for video %d: %v", video.ID, err)
	}
	if err := h.uploads.Remove(video.ThumbnailPath); err != nil {
		log.Printf("failed to remove thumbnail for video %d: %v", video.ID, err)
	}

	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// IncrementViews bumps the view counter; no session required.
func (h *VideosHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		jsonError(w, "invalid video ID", http.StatusBadRequest)
		return
	}
	views, err := h.store.IncrementViews(id)
	if err == db.ErrNotFound {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to increment views", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]int64{"views": views}, http.StatusOK)
}

func (h *VideosHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		jsonError(w, "invalid video ID", http.StatusBadRequest)
		return
	}
	video, err := h.store.GetVideo(id)
	if err == db.ErrNotFound || (err == nil && video.ThumbnailPath == "") {
		jsonError(w, "thumbnail not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load video", http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, video.ThumbnailPath)
}

// authorizeOwner loads the video and enforces owner-or-admin. It writes the
// error response itself and reports done=true when the caller should stop.
func (h *VideosHandler) authorizeOwner(w http.ResponseWriter, r *http.Request, id int64) (*models.Video, bool) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return nil, true
	}
	video, err := h.store.GetVideo(id)
	if err == db.ErrNotFound {
		jsonError(w, "video not found", http.StatusNotFound)
		return nil, true
	}
	if err != nil {
		jsonError(w, "failed to load video", http.StatusInternalServerError)
		return nil, true
	}
	if video.UploaderID != claims.UserID && !claims.IsAdmin {
		jsonError(w, "not allowed to modify this video", http.StatusForbidden)
		return nil, true
	}
	return video, false
}
