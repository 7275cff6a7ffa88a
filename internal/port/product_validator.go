package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type ProductValidator interface {
	// Validate resolves product ids to authoritative price/name records.
	// A response missing any requested id must be treated as a validation
	// failure by the caller.
	Validate(ctx context.Context, ids []string) ([]domain.Product, error)
}
