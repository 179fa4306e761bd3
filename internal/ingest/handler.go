package ingest

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/precoreal/storefront-backend/internal/search"
)

type Handler struct {
	pipeline *Pipeline
}

type ingestRequest struct {
	Label string `json:"label"`
}

func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/ingest", h.ingest)
}

// ingest runs the full search-persist-classify pipeline for one label and
// returns the per-item outcomes. A failed search is an error state, distinct
// from the empty result set ("no products found"). Clients that accept
// text/event-stream get the outcomes pushed one by one instead.
func (h *Handler) ingest(c *fiber.Ctx) error {
	payload := new(ingestRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if strings.Contains(c.Get("Accept"), "text/event-stream") {
		return h.ingestStream(c, payload.Label)
	}

	summary, err := h.pipeline.Run(c.Context(), payload.Label, nil)
	if err != nil {
		if errors.Is(err, ErrEmptyLabel) || errors.Is(err, search.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "label is required"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	if summary.Total == 0 {
		return c.JSON(fiber.Map{"message": "no products found", "summary": summary})
	}
	return c.JSON(summary)
}

// ingestStream pushes one SSE event per item outcome while the pipeline runs,
// then a final summary event. The label is validated before the stream opens
// so input errors still get a proper status code.
func (h *Handler) ingestStream(c *fiber.Ctx, label string) error {
	if strings.TrimSpace(label) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "label is required"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ctx := c.Context()
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		emit := func(outcome ItemOutcome) {
			writeEvent(w, "item", outcome)
		}
		summary, err := h.pipeline.Run(ctx, label, emit)
		if err != nil {
			writeEvent(w, "error", fiber.Map{"message": err.Error()})
			return
		}
		writeEvent(w, "summary", summary)
	})
	return nil
}

func writeEvent(w *bufio.Writer, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if _, err := w.WriteString("event: " + event + "\ndata: " + string(raw) + "\n\n"); err != nil {
		return
	}
	_ = w.Flush()
}
