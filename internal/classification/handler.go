package classification

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/classify", h.classify)
}

func (h *Handler) classify(c *fiber.Ctx) error {
	var payload struct {
		ProductName        string `json:"productName"`
		ProductDescription string `json:"productDescription"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := h.service.ClassifyProduct(c.Context(), payload.ProductName, payload.ProductDescription)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(result)
}
