package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amital-ui/aichat/internal/config"
)

func TestNewApp(t *testing.T) {
	chatServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer chatServer.Close()

	dbFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	defer func() { require.NoError(t, os.Remove(dbFile.Name())) }()

	cfg := &config.Config{
		AppPort:         8000,
		ChatAPIURL:      chatServer.URL,
		DatabasePath:    dbFile.Name(),
		LogLevel:        "DEBUG",
		EnableStreaming: true,
		ShowCitations:   true,
		ErrorTTLSeconds: 5,
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)

	defer func() { require.NoError(t, app.DB.Close()) }()
	defer app.Sessions.CloseAll()

	assert.NotNil(t, app.DB)
	assert.NotNil(t, app.Server)
	assert.Equal(t, ":8000", app.Server.Addr)
	assert.Equal(t, 0, app.Sessions.Count())
}
