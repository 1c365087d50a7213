package repository

import (
	"context"
	"errors"

	"screams/internal/models"

	"gorm.io/gorm"
)

// translate maps a gorm error onto the application taxonomy. Missing rows
// become NOT_FOUND, context cancellation passes through untouched and every
// other driver failure is reported as STORE_UNAVAILABLE.
func translate(err error, resource string, id interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewStoreUnavailableError(err)
	}
}

func translateList(err error) error {
	return translate(err, "", nil)
}
