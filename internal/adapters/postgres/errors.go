package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/asistoya/shared-services/internal/core/apperr"
)

// translate converts driver errors reported by the server into the store
// error contract. Transport errors are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &apperr.StoreError{
			Code:    string(pqErr.Code),
			Message: pqErr.Message,
			Details: pqErr.Detail,
			Hint:    pqErr.Hint,
		}
	}
	return err
}

func isRejection(err error) bool {
	var storeErr *apperr.StoreError
	return errors.As(err, &storeErr)
}
