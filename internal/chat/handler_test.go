package chat

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/precoreal/storefront-backend/internal/user"
)

const testSecret = "test-secret"

func strPtr(s string) *string { return &s }

func newTestApp(accounts ...user.User) *fiber.App {
	users := user.NewService(user.NewInMemoryRepository(accounts))
	handler := NewHandler(NewService(NewInMemoryRepository()), users, testSecret)
	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	return app
}

func signToken(t *testing.T, userID int) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func TestPostMessageAsGuest(t *testing.T) {
	app := newTestApp()

	body := strings.NewReader(`{"text":"olá a todos"}`)
	req := httptest.NewRequest("POST", "/api/v1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	var posted Message
	if err := json.NewDecoder(res.Body).Decode(&posted); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if posted.UserName != GuestName || posted.UserID != nil {
		t.Fatalf("expected a guest message, got %+v", posted)
	}
}

func TestPostMessageWithBearerToken(t *testing.T) {
	app := newTestApp(user.User{ID: 7, Email: "ana@example.com", Password: "hash", DisplayName: strPtr("Ana")})

	body := strings.NewReader(`{"text":"oi, sou eu"}`)
	req := httptest.NewRequest("POST", "/api/v1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, 7))
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	var posted Message
	if err := json.NewDecoder(res.Body).Decode(&posted); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if posted.UserID == nil || *posted.UserID != 7 || posted.UserName != "Ana" {
		t.Fatalf("expected identified sender, got %+v", posted)
	}
}

func TestPostMessageBadTokenFallsBackToGuest(t *testing.T) {
	app := newTestApp()

	body := strings.NewReader(`{"text":"token ruim"}`)
	req := httptest.NewRequest("POST", "/api/v1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-token")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("a bad token must not block a guest post, got %d", res.StatusCode)
	}

	var posted Message
	if err := json.NewDecoder(res.Body).Decode(&posted); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if posted.UserName != GuestName {
		t.Fatalf("expected guest fallback, got %+v", posted)
	}
}

func TestPostMessageEmptyText(t *testing.T) {
	app := newTestApp()

	body := strings.NewReader(`{"text":"   "}`)
	req := httptest.NewRequest("POST", "/api/v1/messages", body)
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestListMessages(t *testing.T) {
	app := newTestApp()

	for _, text := range []string{"um", "dois", "três"} {
		body := strings.NewReader(`{"text":"` + text + `"}`)
		req := httptest.NewRequest("POST", "/api/v1/messages", body)
		req.Header.Set("Content-Type", "application/json")
		if _, err := app.Test(req); err != nil {
			t.Fatalf("post failed: %v", err)
		}
	}

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/messages?limit=2", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var messages []Message
	if err := json.NewDecoder(res.Body).Decode(&messages); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(messages) != 2 || messages[0].Text != "dois" || messages[1].Text != "três" {
		t.Fatalf("expected the chronological tail, got %+v", messages)
	}
}

func TestListMessagesInvalidLimit(t *testing.T) {
	app := newTestApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/messages?limit=abc", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}
