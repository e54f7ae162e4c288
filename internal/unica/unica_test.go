package unica

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, err := NewFetcher(srv.URL, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: ErrUnexpectedStatus,
		},
		{
			name: "binary body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF"))
			},
			want: ErrNotText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewFetcher(srv.URL, nil).Fetch(context.Background())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(srv.URL, nil).Fetch(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(url, nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestIsText(t *testing.T) {
	assert.True(t, isText("text/html; charset=utf-8"))
	assert.True(t, isText("application/xhtml+xml"))
	assert.False(t, isText("application/json"))
	assert.False(t, isText("image/png"))
	assert.False(t, isText(";;"))
}
