package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"spin-raffle-backend/internal/features/raffle/repository"
)

// classify converts driver errors into repository errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		kind := repository.KindFromCode(string(pqErr.Code))
		if kind == nil {
			kind = repository.KindFromMessage(pqErr.Message)
		}
		return &repository.StorageError{
			Kind:       kind,
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Message:    pqErr.Message,
			Err:        err,
		}
	}

	return &repository.StorageError{
		Kind:    repository.KindFromMessage(err.Error()),
		Message: err.Error(),
		Err:     err,
	}
}
