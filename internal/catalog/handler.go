package catalog

import (
	"bufio"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/products/stream", h.streamProducts)
	app.Get("/api/v1/products/:id", h.getProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid limit"})
	}

	products, err := h.service.List(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}

// streamProducts exposes the catalog subscription as server-sent events: one
// full snapshot per event, newest first.
func (h *Handler) streamProducts(c *fiber.Ctx) error {
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
				// client went away; release the listener
				return
			}
		}
	})
	return nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errInvalidLimit
	}
	return limit, nil
}

var errInvalidLimit = fiber.NewError(fiber.StatusBadRequest, "invalid limit")
