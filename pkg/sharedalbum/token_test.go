package sharedalbum

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"A0NJtdOXm9LvzZ", "https://p00-sharedstreams.icloud.com/A0NJtdOXm9LvzZ/sharedstreams/"},
		{"AzNJtdOXm9LvzZ", "https://p61-sharedstreams.icloud.com/AzNJtdOXm9LvzZ/sharedstreams/"},
		// "0N" = 0*62 + 23
		{"B0NJtdOXm9LvzZ", "https://p23-sharedstreams.icloud.com/B0NJtdOXm9LvzZ/sharedstreams/"},
		{"B01JtdOXm9LvzZ", "https://p01-sharedstreams.icloud.com/B01JtdOXm9LvzZ/sharedstreams/"},
		{"B0NJtdOXm9LvzZ;extra", "https://p23-sharedstreams.icloud.com/B0NJtdOXm9LvzZ/sharedstreams/"},
		{"A5", "https://p05-sharedstreams.icloud.com/A5/sharedstreams/"},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			got, err := BaseURL(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			again, err := BaseURL(tc.token)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestPartitionDigits(t *testing.T) {
	// After 'A' only one character is read, so the trailing 'z' is ignored.
	p, err := Partition("A1z")
	require.NoError(t, err)
	assert.Equal(t, 1, p)

	// Otherwise two characters are read.
	p, err = Partition("B1z")
	require.NoError(t, err)
	assert.Equal(t, 1*62+61, p)
}

func TestBaseURLInvalid(t *testing.T) {
	for _, token := range []string{"", "A", "B", "B1", "B-1abc", "A_bc"} {
		t.Run(token, func(t *testing.T) {
			_, err := BaseURL(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestTokenFromURL(t *testing.T) {
	got, err := TokenFromURL("https://www.icloud.com/sharedalbum/#B0NJtdOXm9LvzZ")
	require.NoError(t, err)
	assert.Equal(t, "B0NJtdOXm9LvzZ", got)

	got, err = TokenFromURL(" B0NJtdOXm9LvzZ ")
	require.NoError(t, err)
	assert.Equal(t, "B0NJtdOXm9LvzZ", got)

	_, err = TokenFromURL("https://www.icloud.com/sharedalbum/")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
