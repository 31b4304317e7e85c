package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spin-raffle-backend/internal/features/raffle/repository"
)

func TestClassify_PqCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *pq.Error
		want error
	}{
		{
			name: "unique violation",
			err:  &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "players_tenant_id_phone_key"`, Constraint: "players_tenant_id_phone_key"},
			want: repository.ErrDuplicate,
		},
		{
			name: "not null",
			err:  &pq.Error{Code: "23502", Message: `null value in column "name" violates not-null constraint`},
			want: repository.ErrNotNull,
		},
		{
			name: "foreign key",
			err:  &pq.Error{Code: "23503", Message: `insert or update on table "spins" violates foreign key constraint "spins_player_id_fkey"`},
			want: repository.ErrForeignKey,
		},
		{
			name: "permission",
			err:  &pq.Error{Code: "42501", Message: "permission denied for table spins"},
			want: repository.ErrPermissionDenied,
		},
		{
			name: "unknown code falls back to message",
			err:  &pq.Error{Code: "P0001", Message: "row violates policy"},
			want: repository.ErrConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(fmt.Errorf("insert: %w", tt.err))
			assert.True(t, errors.Is(err, tt.want))

			se, ok := repository.AsStorageError(err)
			require.True(t, ok)
			assert.Equal(t, string(tt.err.Code), se.Code)
			assert.Equal(t, tt.err.Message, se.Message)
		})
	}
}

func TestClassify_NoRowsAndPlain(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.Equal(t, repository.ErrNotFound, classify(sql.ErrNoRows))

	err := classify(errors.New("permission denied for relation campaigns"))
	assert.True(t, errors.Is(err, repository.ErrPermissionDenied))

	err = classify(errors.New("connection refused"))
	se, ok := repository.AsStorageError(err)
	require.True(t, ok)
	assert.Nil(t, se.Kind)
	assert.Equal(t, "connection refused", se.Error())
}
