package db

import (
	"testing"

	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/db/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := s.CreateUser(username, hash, false)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func addVideo(t *testing.T, s *Store, uploaderID int64, title, description, category string) *models.Video {
	t.Helper()
	v := &models.Video{
		Title:       title,
		Description: description,
		Category:    category,
		FileName:    "f.mp4",
		FilePath:    "/tmp/f.mp4",
		UploaderID:  uploaderID,
	}
	if err := s.CreateVideo(v); err != nil {
		t.Fatalf("CreateVideo(%s): %v", title, err)
	}
	return v
}

func TestGetVideoNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetVideo(42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByID(42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for user, got %v", err)
	}
	if _, err := s.GetUserByUsername("nobody"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for username, got %v", err)
	}
}

func TestListVideosAllSentinelMatchesUnfiltered(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	addVideo(t, s, u.ID, "first", "", "Music")
	addVideo(t, s, u.ID, "second", "", "Gaming")
	addVideo(t, s, u.ID, "third", "", "")

	all, err := s.ListVideos("", "")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	sentinel, err := s.ListVideos("All", "")
	if err != nil {
		t.Fatalf("ListVideos(All): %v", err)
	}

	if len(all) != 3 || len(sentinel) != 3 {
		t.Fatalf("expected 3 videos each, got %d and %d", len(all), len(sentinel))
	}
	for i := range all {
		if all[i].ID != sentinel[i].ID {
			t.Fatalf("position %d: unfiltered has ID %d, sentinel has ID %d", i, all[i].ID, sentinel[i].ID)
		}
	}
}

func TestListVideosSortedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	first := addVideo(t, s, u.ID, "first", "", "")
	second := addVideo(t, s, u.ID, "second", "", "")
	third := addVideo(t, s, u.ID, "third", "", "")

	videos, err := s.ListVideos("", "")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	want := []int64{third.ID, second.ID, first.ID}
	for i, id := range want {
		if videos[i].ID != id {
			t.Fatalf("position %d: got ID %d, want %d", i, videos[i].ID, id)
		}
	}
}

func TestListVideosCategoryFilter(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	addVideo(t, s, u.ID, "song", "", "Music")
	addVideo(t, s, u.ID, "match", "", "Gaming")

	videos, err := s.ListVideos("Gaming", "")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 1 || videos[0].Title != "match" {
		t.Fatalf("expected only the Gaming video, got %+v", videos)
	}
}

func TestSearchVideos(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	addVideo(t, s, u.ID, "Golang Tutorial", "learn the basics", "")
	addVideo(t, s, u.ID, "Cooking Show", "pasta with GOLANG jokes", "")
	addVideo(t, s, u.ID, "Cat Compilation", "cats being cats", "")

	tests := []struct {
		query string
		want  int
	}{
		{"golang", 2}, // case-insensitive over title and description
		{"GOLANG", 2},
		{"tutorial", 1},
		{"cats", 1},
		{"", 3}, // empty query returns all
		{"zebra", 0},
	}
	for _, tt := range tests {
		videos, err := s.ListVideos("", tt.query)
		if err != nil {
			t.Fatalf("ListVideos(search=%q): %v", tt.query, err)
		}
		if len(videos) != tt.want {
			t.Errorf("search %q: got %d videos, want %d", tt.query, len(videos), tt.want)
		}
	}
}

func TestIncrementViews(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	v := addVideo(t, s, u.ID, "clip", "", "")

	const n = 5
	var last int64
	for i := 0; i < n; i++ {
		views, err := s.IncrementViews(v.ID)
		if err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
		if views != last+1 {
			t.Fatalf("expected views %d, got %d", last+1, views)
		}
		last = views
	}

	got, err := s.GetVideo(v.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if got.Views != n {
		t.Fatalf("expected %d views stored, got %d", n, got.Views)
	}

	if _, err := s.IncrementViews(9999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing video, got %v", err)
	}
}

func TestUpdateVideoPatch(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	v := addVideo(t, s, u.ID, "old title", "old description", "Music")

	title := "new title"
	duration := 90
	updated, err := s.UpdateVideo(v.ID, VideoPatch{Title: &title, Duration: &duration})
	if err != nil {
		t.Fatalf("UpdateVideo: %v", err)
	}
	if updated.Title != "new title" || updated.Duration != 90 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Description != "old description" || updated.Category != "Music" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := s.UpdateVideo(9999, VideoPatch{Title: &title}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteVideo(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "uploader")
	v := addVideo(t, s, u.ID, "doomed", "", "")

	if err := s.DeleteVideo(v.ID); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	if _, err := s.GetVideo(v.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteVideo(v.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	s := newTestStore(t)
	u := addUser(t, s, "alice")

	if err := s.UpdateUserPassword(u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, err := s.GetUserByID(u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Password != "new-hash" {
		t.Fatalf("password not updated, got %q", got.Password)
	}

	if err := s.UpdateUserPassword(9999, "x"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureAdmin("admin", "admin"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := s.EnsureAdmin("admin2", "other"); err != nil {
		t.Fatalf("EnsureAdmin second call: %v", err)
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" || !users[0].IsAdmin {
		t.Fatalf("expected single seeded admin, got %+v", users)
	}
}

func TestSeedCategories(t *testing.T) {
	s := newTestStore(t)
	names := []string{"Music", "Gaming"}
	if err := s.SeedCategories(names); err != nil {
		t.Fatalf("SeedCategories: %v", err)
	}
	// Re-seeding must not duplicate.
	if err := s.SeedCategories(names); err != nil {
		t.Fatalf("SeedCategories again: %v", err)
	}

	categories, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}

	if _, err := s.CreateCategory("Music"); err == nil {
		t.Fatal("expected duplicate category to fail")
	}
}
