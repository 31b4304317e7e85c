package repository

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_Is(t *testing.T) {
	err := &StorageError{
		Kind:       ErrDuplicate,
		Code:       CodeUniqueViolation,
		Constraint: "players_tenant_id_phone_key",
		Message:    `duplicate key value violates unique constraint "players_tenant_id_phone_key"`,
		Err:        io.ErrUnexpectedEOF,
	}

	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(err, ErrNotNull))
	assert.True(t, err.Mentions("phone"))

	se, ok := AsStorageError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeUniqueViolation, se.Code)
}

func TestKindFromCode(t *testing.T) {
	assert.Equal(t, ErrDuplicate, KindFromCode("23505"))
	assert.Equal(t, ErrNotNull, KindFromCode("23502"))
	assert.Equal(t, ErrForeignKey, KindFromCode("23503"))
	assert.Equal(t, ErrPermissionDenied, KindFromCode("42501"))
	assert.Nil(t, KindFromCode("XX000"))
}

func TestKindFromMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"duplicate key value violates unique constraint", ErrDuplicate},
		{"permission denied for table spins", ErrPermissionDenied},
		{"insert or update on table \"spins\" violates foreign key constraint", ErrForeignKey},
		{"null value in column \"name\" violates not-null constraint", ErrNotNull},
		{"new row violates check constraint", ErrConstraint},
		{"connection reset by peer", nil},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromMessage(tt.msg))
		})
	}
}
