package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"whatsapp_crm/internal/entities"
)

const pgUniqueViolation = "23505"

// persistErr tags a driver error as a persistence failure.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, entities.ErrPersistence, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
