package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/vidshare/backend/internal/api"
	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/db/models"
	"github.com/vidshare/backend/internal/storage"
)

type env struct {
	store   *db.Store
	uploads *storage.Uploads
	jwt     *auth.JWTService
	router  *chi.Mux
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := db.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	uploads, err := storage.NewUploads(t.TempDir())
	if err != nil {
		t.Fatalf("NewUploads: %v", err)
	}

	jwtService := auth.NewJWTService("test-secret")
	cfg := &config.Config{CORSOrigins: []string{"*"}}

	return &env{
		store:   store,
		uploads: uploads,
		jwt:     jwtService,
		router:  api.NewRouter(store, jwtService, uploads, cfg),
	}
}

// createUser stores a user with the password "secret".
func (e *env) createUser(t *testing.T, username string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := e.store.CreateUser(username, hash, isAdmin)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

// sessionCookie mints a session cookie for the given user.
func (e *env) sessionCookie(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	token, err := e.jwt.GenerateToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return &http.Cookie{Name: "vidshare_session", Value: token}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func readBody(t *testing.T, rec *httptest.ResponseRecorder) []byte {
	t.Helper()
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return body
}
