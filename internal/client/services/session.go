package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/dmitrijs2005/vidgallery/internal/client/repositories/settings"
	"github.com/dmitrijs2005/vidgallery/internal/dbx"
)

// Session is what the client remembers between runs.
type Session struct {
	LastVideoID   string
	LastUploadDir string
}

type SessionService interface {
	Load(ctx context.Context) (Session, error)
	// Save writes the non-empty fields of s in one transaction.
	Save(ctx context.Context, s Session) error
	// ResumeIndex returns the position of the last viewed video in items,
	// or 0 when it is unknown or gone.
	ResumeIndex(ctx context.Context, items []models.Video) (int, error)
}

type sessionService struct {
	db      *sql.DB
	newRepo func(dbx.DBTX) settings.Repository
}

func NewSessionService(db *sql.DB) SessionService {
	return &sessionService{
		db:      db,
		newRepo: func(q dbx.DBTX) settings.Repository { return settings.NewSQLiteRepository(q) },
	}
}

func (s *sessionService) Load(ctx context.Context) (Session, error) {
	repo := s.newRepo(s.db)

	var out Session
	var err error
	if out.LastVideoID, _, err = repo.Get(ctx, settings.KeyLastVideoID); err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if out.LastUploadDir, _, err = repo.Get(ctx, settings.KeyLastUploadDir); err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return out, nil
}

func (s *sessionService) Save(ctx context.Context, sess Session) error {
	pairs := map[string]string{
		settings.KeyLastVideoID:   sess.LastVideoID,
		settings.KeyLastUploadDir: sess.LastUploadDir,
	}
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		for k, v := range pairs {
			if v == "" {
				continue
			}
			if err := repo.Set(ctx, k, v); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
		}
		return nil
	})
}

func (s *sessionService) ResumeIndex(ctx context.Context, items []models.Video) (int, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if sess.LastVideoID == "" {
		return 0, nil
	}
	for i, v := range items {
		if v.ID == sess.LastVideoID {
			return i, nil
		}
	}
	return 0, nil
}
