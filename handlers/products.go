package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/labstack/echo/v4"
)

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// productInput reads a new listing from a JSON body or a (multipart) form where specs
// and offers are JSON-encoded fields.
func productInput(c echo.Context) (services.ProductInput, error) {
	var in services.ProductInput
	if isJSON(c) {
		return in, bind(c, &in)
	}

	values, err := formValues(c)
	if err != nil {
		return in, err
	}
	in.Title = values.Get("title")
	in.Description = values.Get("description")
	in.Category = values.Get("category")
	in.SubCategory = values.Get("subCategory")
	in.Target = models.Target(strings.ToLower(strings.TrimSpace(values.Get("target"))))
	if in.Price, err = floatField(values, "price"); err != nil {
		return in, err
	}
	discount, err := floatField(values, "discount")
	if err != nil {
		return in, err
	}
	if discount != nil {
		in.Discount = *discount
	}
	if _, err := jsonField(values, "specs", &in.Specs); err != nil {
		return in, err
	}
	if _, err := jsonField(values, "offers", &in.Offers); err != nil {
		return in, err
	}
	return in, nil
}

func productUpdate(c echo.Context) (services.ProductUpdate, error) {
	var in services.ProductUpdate
	if isJSON(c) {
		return in, bind(c, &in)
	}

	values, err := formValues(c)
	if err != nil {
		return in, err
	}
	in.Title = stringField(values, "title")
	in.Description = stringField(values, "description")
	in.Category = stringField(values, "category")
	in.SubCategory = stringField(values, "subCategory")
	if target := stringField(values, "target"); target != nil {
		t := models.Target(strings.ToLower(*target))
		in.Target = &t
	}
	if in.Price, err = floatField(values, "price"); err != nil {
		return in, err
	}
	if in.Discount, err = floatField(values, "discount"); err != nil {
		return in, err
	}

	var specs []models.Spec
	if present, err := jsonField(values, "specs", &specs); err != nil {
		return in, err
	} else if present {
		in.Specs = &specs
	}
	var offers []models.Offer
	if present, err := jsonField(values, "offers", &offers); err != nil {
		return in, err
	} else if present {
		in.Offers = &offers
	}
	return in, nil
}

func (h *Handler) CreateProduct(c echo.Context, p models.Principal) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}
	image, err := h.optionalImage(c, "image")
	if err != nil {
		return err
	}

	product, err := h.svc.Catalog.Create(c.Request().Context(), p, in, image)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Product created successfully", envelope{"product": product})
}

func (h *Handler) UpdateProduct(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "product")
	if err != nil {
		return err
	}
	in, err := productUpdate(c)
	if err != nil {
		return err
	}
	image, err := h.optionalImage(c, "image")
	if err != nil {
		return err
	}

	product, err := h.svc.Catalog.Update(c.Request().Context(), p, id, in, image)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product updated successfully", envelope{"product": product})
}

func (h *Handler) DeleteProduct(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "product")
	if err != nil {
		return err
	}
	if err := h.svc.Catalog.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product deleted successfully", envelope{"productId": id.Hex()})
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.svc.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, envelope{"product": product})
}

func productFilter(query url.Values) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Title:        strings.TrimSpace(query.Get("title")),
		Description:  strings.TrimSpace(query.Get("description")),
		Category:     strings.TrimSpace(query.Get("category")),
		SubCategory:  strings.TrimSpace(query.Get("subCategory")),
		Specs:        strings.TrimSpace(query.Get("specs")),
		DiscountOnly: query.Get("discount") == "true",
		Target:       models.Target(strings.ToLower(strings.TrimSpace(query.Get("target")))),
	}
	var err error
	if filter.MinPrice, err = floatField(query, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = floatField(query, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return filter, apperror.Validation("minPrice must not exceed maxPrice")
	}
	return filter, nil
}

func (h *Handler) FilterProducts(c echo.Context) error {
	filter, err := productFilter(c.QueryParams())
	if err != nil {
		return err
	}
	products, err := h.svc.Catalog.Filter(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(products), "products": products})
}

func (h *Handler) SearchProducts(c echo.Context) error {
	products, err := h.svc.Catalog.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(products), "products": products})
}

func (h *Handler) SubmitReview(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "product")
	if err != nil {
		return err
	}
	var in services.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}

	result, err := h.svc.Catalog.SubmitReview(c.Request().Context(), p, id, in)
	if err != nil {
		return err
	}
	return ok(c, envelope{"averageRating": result.AverageRating, "reviews": result.Reviews})
}
