// Package services holds the marketplace business operations. Every exported method
// takes the caller's models.Principal explicitly and returns *apperror.Error values for
// caller faults.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxCASAttempts bounds the re-read and re-apply loop for version-guarded writes.
const maxCASAttempts = 3

// Clock returns the current time. Services take one so tests can pin timestamps.
type Clock func() time.Time

// retryOnConflict runs op again while it fails with repositories.ErrConflict.
func retryOnConflict(op func() error) error {
	var err error
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if err = op(); !errors.Is(err, repositories.ErrConflict) {
			return err
		}
	}
	return err
}

// storeError translates repository failures. notFound is the client message used when
// the document is missing; apperrors pass through untouched.
func storeError(ctx context.Context, err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return apperror.NotFound("%s", notFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperror.Conflict("Resource already exists")
	case errors.Is(err, repositories.ErrConflict):
		return apperror.Conflict("The resource was modified concurrently, please retry")
	case errors.Is(err, models.ErrInvalidTransition):
		return apperror.InvalidTransition("%s", err.Error())
	default:
		logging.Ctx(ctx).Error().Err(err).Msg("store operation failed")
		return apperror.Internal(err, "Server error")
	}
}

// ParseID parses a hex object id from a path parameter.
func ParseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("Invalid %s id", what)
	}
	return id, nil
}

// RequireAdmin fails with Forbidden unless p is an administrator.
func RequireAdmin(p models.Principal) error {
	if !p.IsAdmin {
		return apperror.Forbidden("Admin only")
	}
	return nil
}

// summariesInOrder projects products in the order of ids, skipping ids that no longer
// resolve to a product.
func summariesInOrder(ids []primitive.ObjectID, products []models.Product) []models.ProductSummary {
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	out := make([]models.ProductSummary, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p.Summary())
		}
	}
	return out
}

func summaries(products []models.Product) []models.ProductSummary {
	out := make([]models.ProductSummary, len(products))
	for i := range products {
		out[i] = products[i].Summary()
	}
	return out
}
