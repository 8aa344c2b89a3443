package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oxyrus/photowall/internal/auth"
	"github.com/Oxyrus/photowall/internal/http/handlers"
	"github.com/Oxyrus/photowall/internal/storage"
)

func TestAuthHandlerRegisterSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	users := newStubUsers()
	handler := handlers.NewAuthHandler(newTestLogger(), users, testTokens())
	handler.Register(ctx)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	created, err := users.GetByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("expected user to be created: %v", err)
	}
	if created.Admin {
		t.Fatalf("registered users must not be admins by default")
	}
	if created.PasswordHash == "longenough" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestAuthHandlerRegisterShortPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	users := newStubUsers()
	handler := handlers.NewAuthHandler(newTestLogger(), users, testTokens())
	handler.Register(ctx)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(users.byEmail) != 0 {
		t.Fatalf("no user may be created on validation failure")
	}
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"taken@example.com","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	users := newStubUsers()
	seedUser(t, users, "taken@example.com", "whatever", false)

	handler := handlers.NewAuthHandler(newTestLogger(), users, testTokens())
	handler.Register(ctx)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	users := newStubUsers()
	seedUser(t, users, "admin@example.com", "correct horse", true)

	tokens := testTokens()
	handler := handlers.NewAuthHandler(newTestLogger(), users, tokens)
	handler.Login(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("expected a verifiable token: %v", err)
	}
	if !claims.Admin {
		t.Fatalf("expected admin claim for admin user")
	}
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	users := newStubUsers()
	seedUser(t, users, "admin@example.com", "correct horse", true)

	handler := handlers.NewAuthHandler(newTestLogger(), users, testTokens())
	handler.Login(ctx)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandlerLoginUnknownEmail(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	handler := handlers.NewAuthHandler(newTestLogger(), newStubUsers(), testTokens())
	handler.Login(ctx)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

type stubUsers struct {
	nextID  int64
	byEmail map[string]storage.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{byEmail: make(map[string]storage.User)}
}

func (s *stubUsers) Create(_ context.Context, input storage.UserCreate) (storage.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, exists := s.byEmail[email]; exists {
		return storage.User{}, storage.ErrConflict
	}

	s.nextID++
	user := storage.User{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: input.PasswordHash,
		Admin:        input.Admin,
		CreatedAt:    time.Now().UTC(),
	}
	s.byEmail[email] = user
	return user, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (storage.User, error) {
	user, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (storage.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return storage.User{}, storage.ErrNotFound
}

func seedUser(t *testing.T, users *stubUsers, email, password string, admin bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing fixture password: %v", err)
	}

	if _, err := users.Create(context.Background(), storage.UserCreate{
		Email:        email,
		PasswordHash: string(hash),
		Admin:        admin,
	}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}

func testTokens() *auth.Tokens {
	return auth.NewTokens("test-secret", time.Hour)
}
