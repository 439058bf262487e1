package cartstore

import (
	"context"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// Store persists the cart as a whole-collection replace under a fixed
// key. Load treats a missing or malformed stored value as an empty
// cart; corruption is a silent-recovery boundary, never an error.
type Store interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, items []domain.LineItem) error
}
