package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"11999887766", "11999887766", true},
		{"(11) 99988-7766", "11999887766", true},
		{"(11) 3333-4444", "1133334444", true},
		{"999887766", "999887766", false},
		{"+55 11 99988-7766", "5511999887766", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizePhone(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ValidatePhone(got))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Ana Maria Silva", NormalizeName("  Ana   Maria\tSilva "))
	assert.False(t, ValidateName(NormalizeName("   ")))
	assert.True(t, ValidateName("João"))
	assert.False(t, ValidateName(strings.Repeat("a", MaxNameLength+1)))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("3f1c1a52-5b0e-4c8e-9f47-1f0d8c0b6a11"))
	assert.False(t, IsUUID("dummy"))
	assert.False(t, IsUUID(""))
}

func TestNormalizePage(t *testing.T) {
	l, o := NormalizePage(0, -3)
	assert.Equal(t, DefaultPageSize, l)
	assert.Equal(t, 0, o)

	l, o = NormalizePage(500, 20)
	assert.Equal(t, MaxPageSize, l)
	assert.Equal(t, 20, o)
}
