package chat

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/precoreal/storefront-backend/internal/user"
)

// Profiles resolves the display name shown next to authenticated messages.
type Profiles interface {
	GetProfile(id int) (user.Profile, error)
}

type Handler struct {
	service   *Service
	profiles  Profiles
	jwtSecret string
}

func NewHandler(service *Service, profiles Profiles, jwtSecret string) *Handler {
	return &Handler{service: service, profiles: profiles, jwtSecret: jwtSecret}
}

// RegisterPublicRoutes wires the chat routes. Posting is open to guests, so
// the whole surface stays public; a bearer token, when present, only attaches
// the sender's identity.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/messages", h.listMessages)
	app.Get("/api/v1/messages/stream", h.streamMessages)
	app.Post("/api/v1/messages", h.postMessage)
}

func (h *Handler) postMessage(c *fiber.Ctx) error {
	var payload struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	m := Message{Text: payload.Text}
	if id, ok := h.bearerUserID(c); ok {
		m.UserID = &id
		if profile, err := h.profiles.GetProfile(id); err == nil {
			m.UserName = profile.DisplayName
		}
	}

	posted, err := h.service.Post(m)
	if err != nil {
		if err == ErrEmptyMessage {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "message text is required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(posted)
}

func (h *Handler) listMessages(c *fiber.Ctx) error {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid limit"})
	}

	messages, err := h.service.Recent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(messages)
}

func (h *Handler) streamMessages(c *fiber.Ctx) error {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid limit"})
	}

	snapshots, detach, err := h.service.Subscribe(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer detach()
		for snapshot := range snapshots {
			payload, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

// bearerUserID extracts the authenticated user id from an optional
// Authorization header. Missing or invalid tokens mean a guest post, not an
// error.
func (h *Handler) bearerUserID(c *fiber.Ctx) (int, bool) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}

	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	raw, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(raw), true
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultRecentLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fiber.ErrBadRequest
	}
	return limit, nil
}
