package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, expected: ErrAlreadyExists},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, expected: ErrNotFound},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}},
		{name: "plain error", err: other, expected: other},
		{name: "nil", err: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPgError(tt.err)
			if tt.expected == nil && tt.err != nil {
				assert.Same(t, tt.err, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
