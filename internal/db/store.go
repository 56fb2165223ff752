package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/db/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

// Store holds all application state. It is backed by an in-memory SQLite
// database: everything except uploaded files is lost on restart.
type Store struct {
	db *sql.DB
}

func NewStore() (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// A :memory: DSN opens a separate database per connection; pin to one.
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		file_name TEXT NOT NULL DEFAULT '',
		file_path TEXT NOT NULL DEFAULT '',
		embed_url TEXT NOT NULL DEFAULT '',
		is_embedded INTEGER NOT NULL DEFAULT 0,
		thumbnail_path TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		uploader_id INTEGER NOT NULL,
		views INTEGER NOT NULL DEFAULT 0,
		duration INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (uploader_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// EnsureAdmin creates the seed admin account if no admin exists yet.
func (s *Store) EnsureAdmin(username, password string) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE is_admin = 1").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO users (username, password, is_admin, created_at) VALUES (?, ?, 1, ?)",
		username, hash, time.Now(),
	)
	return err
}

// SeedCategories inserts any missing names. "All" is a filter sentinel,
// never a stored category.
func (s *Store) SeedCategories(names []string) error {
	for _, name := range names {
		if _, err := s.db.Exec("INSERT OR IGNORE INTO categories (name) VALUES (?)", name); err != nil {
			return err
		}
	}
	return nil
}

// --- users ---

func (s *Store) CreateUser(username, hashedPassword string, isAdmin bool) (*models.User, error) {
	now := time.Now()
	res, err := s.db.Exec(
		"INSERT INTO users (username, password, is_admin, created_at) VALUES (?, ?, ?, ?)",
		username, hashedPassword, isAdmin, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, Password: hashedPassword, IsAdmin: isAdmin, CreatedAt: now}, nil
}

func (s *Store) GetUserByID(id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, username, password, is_admin, created_at FROM users WHERE id = ?", id))
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, username, password, is_admin, created_at FROM users WHERE username = ?", username))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, username, password, is_admin, created_at FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserPassword(id int64, hashedPassword string) error {
	res, err := s.db.Exec("UPDATE users SET password = ? WHERE id = ?", hashedPassword, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- videos ---

const videoColumns = "id, title, description, file_name, file_path, embed_url, is_embedded, thumbnail_path, category, uploader_id, views, duration, created_at"

// CreateVideo assigns ID, CreatedAt and a zero view counter on v.
func (s *Store) CreateVideo(v *models.Video) error {
	v.CreatedAt = time.Now()
	v.Views = 0
	res, err := s.db.Exec(`
		INSERT INTO videos (title, description, file_name, file_path, embed_url, is_embedded, thumbnail_path, category, uploader_id, views, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		v.Title, v.Description, v.FileName, v.FilePath, v.EmbedURL, v.IsEmbedded,
		v.ThumbnailPath, v.Category, v.UploaderID, v.Duration, v.CreatedAt,
	)
	if err != nil {
		return err
	}
	v.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetVideo(id int64) (*models.Video, error) {
	row := s.db.QueryRow("SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	v := &models.Video{}
	err := scanVideo(row.Scan, v)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVideos returns videos newest-first. An empty or "All" category means
// no category filter; an empty search matches everything.
func (s *Store) ListVideos(category, search string) ([]models.Video, error) {
	query := "SELECT " + videoColumns + " FROM videos"
	var conds []string
	var args []interface{}

	if category != "" && category != "All" {
		conds = append(conds, "category = ?")
		args = append(args, category)
	}
	if search != "" {
		conds = append(conds, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var v models.Video
		if err := scanVideo(rows.Scan, &v); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func scanVideo(scan func(...interface{}) error, v *models.Video) error {
	return scan(&v.ID, &v.Title, &v.Description, &v.FileName, &v.FilePath,
		&v.EmbedURL, &v.IsEmbedded, &v.ThumbnailPath, &v.Category,
		&v.UploaderID, &v.Views, &v.Duration, &v.CreatedAt)
}

// VideoPatch carries partial updates; nil fields are left untouched.
type VideoPatch struct {
	Title         *string
	Description   *string
	Category      *string
	ThumbnailPath *string
	Duration      *int
}

func (s *Store) UpdateVideo(id int64, patch VideoPatch) (*models.Video, error) {
	var sets []string
	var args []interface{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.ThumbnailPath != nil {
		sets = append(sets, "thumbnail_path = ?")
		args = append(args, *patch.ThumbnailPath)
	}
	if patch.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *patch.Duration)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.Exec("UPDATE videos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetVideo(id)
}

func (s *Store) DeleteVideo(id int64) error {
	res, err := s.db.Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one and returns the new value.
func (s *Store) IncrementViews(id int64) (int64, error) {
	var views int64
	err := s.db.QueryRow(
		"UPDATE videos SET views = views + 1 WHERE id = ? RETURNING views", id,
	).Scan(&views)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return views, nil
}

// --- categories ---

func (s *Store) ListCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) CreateCategory(name string) (*models.Category, error) {
	res, err := s.db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
