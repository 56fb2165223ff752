package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/vidshare/backend/internal/db"
)

type StreamHandler struct {
	store *db.Store
}

func NewStreamHandler(store *db.Store) *StreamHandler {
	return &StreamHandler{store: store}
}

// Serve streams the backing file of an uploaded video. Without a Range
// header the whole file is sent with a 200; with "bytes=<start>-<end?>" the
// inclusive window is sent with a 206 and a Content-Range header. Each
// request gets its own file handle, so concurrent viewers never share an
// offset. Embedded videos have no backing file and respond 404.
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
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
	if video.IsEmbedded || video.FilePath == "" {
		jsonError(w, "video has no local file", http.StatusNotFound)
		return
	}

	file, err := os.Open(video.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, "video file not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to open video file", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		jsonError(w, "failed to stat video file", http.StatusInternalServerError)
		return
	}
	size := info.Size()

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, file); err != nil {
			// Headers are gone; all we can do is drop the connection.
			log.Printf("stream: copy failed for video %d: %v", id, err)
		}
		return
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		jsonError(w, "invalid range", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		jsonError(w, "failed to seek video file", http.StatusInternalServerError)
		return
	}

	chunkSize := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(chunkSize, 10))
	w.Header().Set("Content-Type", "video/mp4")
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.CopyN(w, file, chunkSize); err != nil {
		log.Printf("stream: range copy failed for video %d: %v", id, err)
	}
}

// parseRange parses "bytes=<start>-<end?>" against a file of the given size.
// The end offset is inclusive and defaults to size-1. A missing or
// non-numeric start, start beyond the file, or end < start is an error
// (served as 416 rather than the undefined behavior a lax parser gives).
// An end past the file is clamped to size-1.
func parseRange(header string, size int64) (start, end int64, err error) {
	value, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, errors.New("unsupported range unit")
	}
	if strings.Contains(value, ",") {
		return 0, 0, errors.New("multiple ranges not supported")
	}
	startStr, endStr, ok := strings.Cut(value, "-")
	if !ok {
		return 0, 0, errors.New("malformed range")
	}

	start, err = strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, errors.New("invalid range start")
	}
	if start >= size {
		return 0, 0, errors.New("range start beyond end of file")
	}

	end = size - 1
	if s := strings.TrimSpace(endStr); s != "" {
		end, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, errors.New("invalid range end")
		}
		if end < start {
			return 0, 0, errors.New("range end before start")
		}
		if end >= size {
			end = size - 1
		}
	}
	return start, end, nil
}
