package get_availability

import (
	"fmt"

	"github.com/google/uuid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FieldID == uuid.Nil {
		return fmt.Errorf("%w: fieldID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
