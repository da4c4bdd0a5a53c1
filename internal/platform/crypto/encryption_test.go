package crypto

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealOpenAmount(t *testing.T) {
	svc, err := New(hexKey)
	require.NoError(t, err)
	require.True(t, svc.Configured())

	sealed, err := svc.SealAmount(decimal.RequireFromString("1200000.50"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "1200000")

	amount, err := svc.OpenAmount(sealed)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("1200000.5")))

	again, err := svc.SealAmount(decimal.NewFromInt(1))
	require.NoError(t, err)
	other, err := svc.SealAmount(decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.NotEqual(t, again, other, "nonces differ")
}

func TestOpenRejectsTampering(t *testing.T) {
	svc, err := New(hexKey)
	require.NoError(t, err)

	sealed, err := svc.Seal([]byte("600000"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff
	_, err = svc.Open(sealed)
	assert.Error(t, err)

	_, err = svc.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestKeyFormats(t *testing.T) {
	_, err := New(strings.Repeat("k", 32))
	require.NoError(t, err)

	_, err = New("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=")
	require.NoError(t, err)

	_, err = New("too-short")
	assert.Error(t, err)
}

func TestUnconfigured(t *testing.T) {
	svc, err := New("")
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	_, err = svc.SealAmount(decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.OpenAmount([]byte("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
