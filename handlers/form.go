package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pathID(c echo.Context, what string) (primitive.ObjectID, error) {
	return services.ParseID(c.Param("id"), what)
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNotAnImage):
		return apperror.Validation("Only image uploads are allowed")
	case errors.Is(err, utils.ErrImageTooLarge):
		return apperror.Validation("Image is too large")
	default:
		return apperror.Validation("Invalid file upload")
	}
}

// optionalImage reads a single uploaded image; a missing part yields nil.
func (h *Handler) optionalImage(c echo.Context, field string) (*models.Image, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Validation("Invalid file upload")
	}
	img, err := utils.ReadImage(fh, h.opts.MaxUploadBytes)
	if err != nil {
		return nil, uploadError(err)
	}
	return img, nil
}

func (h *Handler) formImages(c echo.Context, field string) ([]models.Image, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperror.Validation("Invalid file upload")
	}
	images, err := utils.ReadImages(form, field, h.opts.MaxUploadBytes)
	if err != nil {
		return nil, uploadError(err)
	}
	return images, nil
}

// jsonField decodes a form value carrying a JSON document. present is false when the
// field was not sent.
func jsonField(values url.Values, field string, dst interface{}) (present bool, err error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, apperror.Validation("%s must be valid JSON", field)
	}
	return true, nil
}

// formValues returns the url-encoded or multipart form values of the request.
func formValues(c echo.Context) (url.Values, error) {
	values, err := c.FormParams()
	if err != nil {
		return nil, apperror.Validation("Invalid form data")
	}
	return values, nil
}

// stringField returns nil when field was not sent.
func stringField(values url.Values, field string) *string {
	if _, ok := values[field]; !ok {
		return nil
	}
	v := strings.TrimSpace(values.Get(field))
	return &v
}

// floatField parses an optional numeric form value.
func floatField(values url.Values, field string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.Validation("%s must be a number", field)
	}
	return &v, nil
}
