package store

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/precoreal/storefront-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/store/:storeId", h.getStorefront)
	app.Get("/api/v1/store/:storeId/ads", h.listAds)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/store/ads", h.postAd)
}

func validateAdPayload(ad *Ad) map[string]string {
	errs := map[string]string{}
	if ad.Name == "" {
		errs["name"] = "name is required"
	}
	if ad.Description == "" {
		errs["description"] = "description is required"
	}
	if ad.Price <= 0 {
		errs["price"] = "price must be > 0"
	}
	valid := false
	for _, c := range AllowedCategories {
		if ad.Category == c {
			valid = true
			break
		}
	}
	if !valid {
		errs["category"] = "invalid category"
	}
	if u, err := url.Parse(ad.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs["imageUrl"] = "imageUrl must be a valid URL"
	}
	if ad.AdType == "" {
		ad.AdType = AdTypeStandard
	}
	if !ad.AdType.Valid() {
		errs["adType"] = "adType must be standard, offer or promotion"
	}
	return errs
}

func (h *Handler) postAd(c *fiber.Ctx) error {
	ownerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ad := new(Ad)
	if err := c.BodyParser(ad); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// validate payload and return all validation errors together
	if ves := validateAdPayload(ad); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.PostAd(ownerID, *ad)
	if err != nil {
		switch err {
		case ErrNotStoreOwner:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "only store owners can post ads"})
		case user.ErrInsufficientCredits:
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"message": "insufficient credits"})
		case user.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getStorefront(c *fiber.Ctx) error {
	storeID, err := strconv.Atoi(c.Params("storeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	front, err := h.service.Storefront(storeID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Store not found")
	}
	return c.JSON(front)
}

func (h *Handler) listAds(c *fiber.Ctx) error {
	storeID, err := strconv.Atoi(c.Params("storeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	ads, err := h.service.ListByStore(storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	return c.JSON(ads)
}
