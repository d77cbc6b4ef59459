package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/labstack/echo/v4"
)

// carouselUpload reads the "image" files and the JSON "productLinks" array of a
// carousel form. Non-admins are turned away before the upload is parsed.
func (h *Handler) carouselUpload(c echo.Context, p models.Principal, linksRequired bool) ([]models.Image, []string, error) {
	if err := services.RequireAdmin(p); err != nil {
		return nil, nil, err
	}
	images, err := h.formImages(c, "image")
	if err != nil {
		return nil, nil, err
	}

	values, err := formValues(c)
	if err != nil {
		return nil, nil, err
	}
	var links []string
	present, err := jsonField(values, "productLinks", &links)
	if err != nil {
		return nil, nil, apperror.Validation("Product links must be an array")
	}
	if !present && linksRequired && len(images) > 0 {
		return nil, nil, apperror.Validation("Product links are required")
	}
	return images, links, nil
}

func (h *Handler) CreateCarousel(c echo.Context, p models.Principal) error {
	images, links, err := h.carouselUpload(c, p, true)
	if err != nil {
		return err
	}
	carousel, err := h.svc.Carousel.Create(c.Request().Context(), p, images, links)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Carousel created", envelope{"data": carousel})
}

func (h *Handler) UpdateCarousel(c echo.Context, p models.Principal) error {
	images, links, err := h.carouselUpload(c, p, false)
	if err != nil {
		return err
	}
	carousel, err := h.svc.Carousel.Update(c.Request().Context(), p, images, links)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Carousel updated", envelope{"data": carousel})
}

// GetCarousel is the public homepage carousel with inlined images.
func (h *Handler) GetCarousel(c echo.Context) error {
	slides, err := h.svc.Carousel.Slides(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, envelope{"data": slides})
}

func (h *Handler) AdminCarousel(c echo.Context, p models.Principal) error {
	carousel, err := h.svc.Carousel.Admin(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"data": carousel})
}

func (h *Handler) DeleteCarousel(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "carousel")
	if err != nil {
		return err
	}
	if err := h.svc.Carousel.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Carousel deleted successfully", nil)
}
