package ownership

import (
	"errors"

	"github.com/jackc/pgx/v5"

	apierrors "codeberg.org/lumina/server/internal/errors"
)

// an entity that belongs to exactly one user. OwnerID must be safe to
// call on a nil pointer and return ""
type Owned interface {
	OwnerID() string
}

// masks absent and foreign entities as the same ErrNotFound so callers
// cannot probe for ids they do not own. Other lookup errors pass through
func Authorize(entity Owned, lookupErr error, userID string) error {
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) || errors.Is(lookupErr, apierrors.ErrNotFound) {
			return apierrors.ErrNotFound
		}

		return lookupErr
	}

	if entity == nil || userID == "" {
		return apierrors.ErrNotFound
	}

	if owner := entity.OwnerID(); owner == "" || owner != userID {
		return apierrors.ErrNotFound
	}

	return nil
}

// wraps a repository lookup: returns the entity only when userID owns it
func Load[T Owned](entity T, lookupErr error, userID string) (T, error) {
	if err := Authorize(entity, lookupErr, userID); err != nil {
		var zero T
		return zero, err
	}

	return entity, nil
}
