package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".ts": true, ".mpg": true, ".mpeg": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsVideoUpload gates intake on the part's declared Content-Type, falling
// back to the file extension when the client sent a generic type.
func IsVideoUpload(header *multipart.FileHeader) bool {
	ct := header.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "video/") {
		return true
	}
	if ct == "" || ct == "application/octet-stream" {
		return IsVideoFile(header.Filename)
	}
	return false
}

func IsImageUpload(header *multipart.FileHeader) bool {
	ct := header.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "image/") {
		return true
	}
	if ct == "" || ct == "application/octet-stream" {
		return imageExtensions[strings.ToLower(filepath.Ext(header.Filename))]
	}
	return false
}

// Uploads persists uploaded files under a single directory, naming each one
// with a generated UUID so client-supplied names never reach the filesystem.
type Uploads struct {
	dir string
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Uploads{dir: dir}, nil
}

func (u *Uploads) Dir() string {
	return u.dir
}

// Save streams the multipart file to disk and returns the generated file
// name and its full path.
func (u *Uploads) Save(file multipart.File, header *multipart.FileHeader) (fileName, filePath string, err error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	fileName = uuid.New().String() + ext
	filePath = filepath.Join(u.dir, fileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", "", err
	}
	return fileName, filePath, nil
}

// Remove deletes a stored file. Missing files are not an error: the record
// and the file are deleted as two separate steps, so a crash in between can
// leave either side orphaned.
func (u *Uploads) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
