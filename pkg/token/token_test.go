package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamayuz/platform-api/pkg/token"
)

// TestShortUID_Determinista el mismo id produce siempre el mismo uid corto.
func TestShortUID_Determinista(t *testing.T) {
	const pk = "3c6a4a1e-9b0f-4a56-8c1f-6f2a7b9d1e00"

	first := token.ShortUID(pk)
	second := token.ShortUID(pk)

	assert.Equal(t, first, second)
	assert.Len(t, first, token.ShortUIDLen)
}

func TestShortUID_SoloBase36(t *testing.T) {
	uid := token.ShortUID("cualquier-id")
	for _, r := range uid {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "carácter %q fuera de base36", r)
	}
}

func TestShortUID_IdsDistintos(t *testing.T) {
	a := token.ShortUID("id-a")
	b := token.ShortUID("id-b")
	assert.NotEqual(t, a, b)
}

func TestRandom_LongitudYAlfabeto(t *testing.T) {
	got, err := token.Random(12)
	require.NoError(t, err)
	assert.Len(t, got, 12)
	for _, r := range got {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, ok, "carácter %q fuera del alfabeto", r)
	}
}

func TestOTPDigits_SoloDigitos(t *testing.T) {
	got, err := token.OTPDigits(6)
	require.NoError(t, err)
	assert.Len(t, got, 6)
	for _, r := range got {
		assert.True(t, r >= '0' && r <= '9', "carácter %q no es dígito", r)
	}
}
