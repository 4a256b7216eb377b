package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dropshipping", r.URL.Query().Get("keyword"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`[{"text":"dropshipping","volume":45000,"trend":12.5,"competition_index":72,"low_bid":0.4,"high_bid":2.1}]`))
	}))
	defer srv.Close()

	keywords, err := New(srv.URL).Search(context.Background(), "dropshipping")
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, "dropshipping", keywords[0].Text)
	assert.Equal(t, 45000, keywords[0].Volume)
	assert.Equal(t, 72, keywords[0].CompetitionIndex)
}

func TestSearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrBadResponse)
}
