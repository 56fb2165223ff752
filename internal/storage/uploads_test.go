package storage

import (
	"mime/multipart"
	"net/textproto"
	"testing"
)

func header(filename, contentType string) *multipart.FileHeader {
	h := &multipart.FileHeader{Filename: filename, Header: make(textproto.MIMEHeader)}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func TestIsVideoUpload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        bool
	}{
		{"declared video type", "clip.mp4", "video/mp4", true},
		{"declared webm", "clip.bin", "video/webm", true},
		{"text file", "notes.txt", "text/plain", false},
		{"image file", "pic.png", "image/png", false},
		{"octet-stream with video ext", "clip.mkv", "application/octet-stream", true},
		{"octet-stream with other ext", "doc.pdf", "application/octet-stream", false},
		{"no type, video ext", "clip.mov", "", true},
		{"no type, no ext", "clip", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVideoUpload(header(tt.filename, tt.contentType)); got != tt.want {
				t.Errorf("IsVideoUpload(%q, %q) = %v, want %v", tt.filename, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestIsImageUpload(t *testing.T) {
	if !IsImageUpload(header("thumb.jpg", "image/jpeg")) {
		t.Error("expected image/jpeg to pass")
	}
	if IsImageUpload(header("clip.mp4", "video/mp4")) {
		t.Error("expected video type to fail the image gate")
	}
}

func TestRemoveToleratesMissingFile(t *testing.T) {
	u, err := NewUploads(t.TempDir())
	if err != nil {
		t.Fatalf("NewUploads: %v", err)
	}
	if err := u.Remove(""); err != nil {
		t.Errorf("Remove(empty) = %v", err)
	}
	if err := u.Remove(u.Dir() + "/never-existed.mp4"); err != nil {
		t.Errorf("Remove(missing) = %v", err)
	}
}
