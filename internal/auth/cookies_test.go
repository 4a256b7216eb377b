package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCookieString(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []Cookie
		wantErr  bool
	}{
		{
			name:     "single pair",
			raw:      "sessionid=abc123",
			expected: []Cookie{{Name: "sessionid", Value: "abc123"}},
		},
		{
			name: "multiple pairs",
			raw:  "sessionid=abc123;msToken=xyz;tt_csrf_token=999",
			expected: []Cookie{
				{Name: "sessionid", Value: "abc123"},
				{Name: "msToken", Value: "xyz"},
				{Name: "tt_csrf_token", Value: "999"},
			},
		},
		{
			name: "whitespace around names and values",
			raw:  " sessionid = abc123 ; msToken = xyz ",
			expected: []Cookie{
				{Name: "sessionid", Value: "abc123"},
				{Name: "msToken", Value: "xyz"},
			},
		},
		{
			name: "value containing extra equals keeps remainder",
			raw:  "sessionid=abc=123",
			expected: []Cookie{
				{Name: "sessionid", Value: "abc=123"},
			},
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "segment without equals",
			raw:     "sessionid=abc;msToken",
			wantErr: true,
		},
		{
			name:    "segment with empty value",
			raw:     "sessionid=abc;msToken=",
			wantErr: true,
		},
		{
			name:    "segment with empty name",
			raw:     "=abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCookieString(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedCredential)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSetCookieParams(t *testing.T) {
	params := SetCookieParams([]Cookie{{Name: "sessionid", Value: "abc"}})
	require.Len(t, params, 1)

	p := params[0]
	assert.Equal(t, "sessionid", p.Name)
	assert.Equal(t, "abc", p.Value)
	assert.Equal(t, CookieDomain, p.Domain)
	assert.Equal(t, "/", p.Path)
	assert.True(t, p.HTTPOnly)
	assert.True(t, p.Secure)
}

func TestLoadCookieFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie.txt")
	require.NoError(t, os.WriteFile(path, []byte("sessionid=abc123\n"), 0600))

	raw, err := LoadCookieFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sessionid=abc123", raw)

	_, err = LoadCookieFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
