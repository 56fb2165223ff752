package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Video is either uploaded content (FileName/FilePath set) or embedded
// content (EmbedURL set, IsEmbedded true), never both.
type Video struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	FileName      string    `json:"file_name,omitempty"`
	FilePath      string    `json:"-"`
	EmbedURL      string    `json:"embed_url,omitempty"`
	IsEmbedded    bool      `json:"is_embedded"`
	ThumbnailPath string    `json:"-"`
	Category      string    `json:"category,omitempty"`
	UploaderID    int64     `json:"uploader_id"`
	Views         int64     `json:"views"`
	Duration      int       `json:"duration,omitempty"` // seconds
	CreatedAt     time.Time `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
