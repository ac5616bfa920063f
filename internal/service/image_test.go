package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURIAcceptsMissingPadding(t *testing.T) {
	padded := base64.StdEncoding.EncodeToString([]byte("ab"))
	require.True(t, strings.HasSuffix(padded, "="))

	data, err := decodeDataURI("data:image/png;base64," + strings.TrimRight(padded, "="))
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), data)
}
