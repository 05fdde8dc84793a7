package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidgallery/internal/client/client"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) SessionService {
	t.Helper()
	db, err := client.OpenStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSessionService(db)
}

func TestSession_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{}, got)

	require.NoError(t, s.Save(ctx, Session{LastVideoID: "v2", LastUploadDir: "/tmp/videos"}))
	require.NoError(t, s.Save(ctx, Session{LastVideoID: "v3"}))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{LastVideoID: "v3", LastUploadDir: "/tmp/videos"}, got)
}

func TestSession_ResumeIndex(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	items := []models.Video{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	idx, err := s.ResumeIndex(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	require.NoError(t, s.Save(ctx, Session{LastVideoID: "c"}))
	idx, err = s.ResumeIndex(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	idx, err = s.ResumeIndex(ctx, items[:2])
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestSession_SaveRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO settings`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewSessionService(db).Save(context.Background(), Session{LastVideoID: "v1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_LoadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM settings`).WillReturnError(errors.New("locked"))

	_, err = NewSessionService(db).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load session")
}
