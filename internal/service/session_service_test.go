package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "github.com/amital-ui/aichat/internal/errors"
	"github.com/amital-ui/aichat/internal/service"
	"github.com/amital-ui/aichat/internal/transport/mocks"
)

func setupSessionManager(t *testing.T) (*service.SessionManager, sqlmock.Sqlmock) {
	settingsService, db, mockDB := setupSettingsService(t)
	t.Cleanup(func() { _ = db.Close() })

	ct := mocks.NewMockChatTransport(t)
	fetcher := mocks.NewMockBlobFetcher(t)
	manager := service.NewSessionManager(ct, fetcher, settingsService, 5*time.Second)

	return manager, mockDB
}

func expectSettingsRows(mockDB sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("enable_streaming", "true").
		AddRow("show_citations", "true").
		AddRow("use_rag_by_default", "false").
		AddRow("placeholder", "Ask away")
	mockDB.ExpectQuery("SELECT key, value FROM settings").WillReturnRows(rows)
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	manager, mockDB := setupSessionManager(t)

	expectSettingsRows(mockDB)

	id, engine, err := manager.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotNil(t, engine)
	assert.Equal(t, 1, manager.Count())

	got, err := manager.Get(id)
	require.NoError(t, err)
	assert.Same(t, engine, got)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSessionManager_CreateFailsWhenSettingsUnavailable(t *testing.T) {
	ctx := context.Background()
	manager, mockDB := setupSessionManager(t)

	mockDB.ExpectQuery("SELECT key, value FROM settings").WillReturnError(errors.New("db down"))

	id, engine, err := manager.Create(ctx)
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Nil(t, engine)
	assert.Equal(t, 0, manager.Count())
}

func TestSessionManager_GetUnknownSession(t *testing.T) {
	manager, _ := setupSessionManager(t)

	engine, err := manager.Get("nope")
	require.Error(t, err)
	assert.Nil(t, engine)
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
}

func TestSessionManager_Close(t *testing.T) {
	ctx := context.Background()
	manager, mockDB := setupSessionManager(t)

	expectSettingsRows(mockDB)
	id, _, err := manager.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.Close(id))
	assert.Equal(t, 0, manager.Count())

	err = manager.Close(id)
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
}

func TestSessionManager_CloseAll(t *testing.T) {
	ctx := context.Background()
	manager, mockDB := setupSessionManager(t)

	for i := 0; i < 3; i++ {
		expectSettingsRows(mockDB)
		_, _, err := manager.Create(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 3, manager.Count())

	manager.CloseAll()
	assert.Equal(t, 0, manager.Count())
}
