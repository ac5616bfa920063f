package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortLinkRoundTrip(t *testing.T) {
	for _, id := range []uint{1, 42, 255, 256, 65535, 1 << 20, 1 << 31} {
		code := EncodeID(id)
		assert.NotContains(t, code, "=")

		got, err := DecodeID(code)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestShortLinkEncoding(t *testing.T) {
	assert.Equal(t, "AQ", EncodeID(1))
	assert.Equal(t, "AQA", EncodeID(256))
	assert.Equal(t, "AA", EncodeID(0))
}

func TestDecodeIDAcceptsPadding(t *testing.T) {
	id, err := DecodeID("AQ==")
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
}

func TestDecodeIDInvalid(t *testing.T) {
	for _, code := range []string{"", "AA", "!!", "AAAAAAAAAAAAAA"} {
		_, err := DecodeID(code)
		assert.ErrorIs(t, err, ErrInvalidShortLink, code)
	}
}
