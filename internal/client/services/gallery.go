// Package services holds the gallery workflows: catalog refresh and the
// create, rename and delete mutations, plus the local session.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/vidgallery/internal/client/client"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/dmitrijs2005/vidgallery/internal/client/notify"
	"github.com/dmitrijs2005/vidgallery/internal/filex"
	"github.com/dmitrijs2005/vidgallery/internal/logging"
)

var ErrUploadInProgress = errors.New("an upload is already in progress")

// User-facing messages for failures without a server message.
const (
	MsgFetchFailed   = "Failed to fetch videos"
	MsgUploadFailed  = "Upload failed"
	MsgUpdateFailed  = "Update failed"
	MsgDeleteFailed  = "Delete failed"
	MsgUploaded      = "Upload succeeded"
	MsgUpdated       = "Title updated"
	MsgDeleted       = "Video deleted"
	MsgUploadBlocked = "Please wait for the current upload to finish"
)

type GalleryService interface {
	// Refresh re-fetches the catalog. On any failure the list becomes empty
	// and a notice is emitted.
	Refresh(ctx context.Context) ([]models.Video, error)
	// Videos returns the last fetched catalog.
	Videos() []models.Video
	Upload(ctx context.Context, title, path string, progress client.ProgressFunc) (models.Video, error)
	Rename(ctx context.Context, id, title string) error
	Remove(ctx context.Context, id string) error
	Uploading() bool
}

type galleryService struct {
	client   client.Client
	notifier notify.Notifier
	log      logging.Logger

	mu        sync.Mutex
	videos    []models.Video
	uploading atomic.Bool
}

func NewGalleryService(c client.Client, n notify.Notifier, log logging.Logger) GalleryService {
	if log == nil {
		log = logging.Discard()
	}
	return &galleryService{client: c, notifier: n, log: log.With("component", "gallery")}
}

func (s *galleryService) Videos() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Video(nil), s.videos...)
}

func (s *galleryService) setVideos(v []models.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append([]models.Video{}, v...)
}

func (s *galleryService) Uploading() bool {
	return s.uploading.Load()
}

func (s *galleryService) Refresh(ctx context.Context) ([]models.Video, error) {
	env, err := s.client.List(ctx)
	if err == nil {
		err = client.Check("list", env)
	}
	if err != nil {
		s.setVideos(nil)
		s.fail(ctx, MsgFetchFailed, err)
		return []models.Video{}, err
	}

	s.setVideos(env.Data)
	s.log.Debug(ctx, "catalog refreshed", "count", len(env.Data))
	return s.Videos(), nil
}

func (s *galleryService) Upload(ctx context.Context, title, path string, progress client.ProgressFunc) (models.Video, error) {
	if !s.uploading.CompareAndSwap(false, true) {
		s.notifier.Error(MsgUploadBlocked)
		return models.Video{}, ErrUploadInProgress
	}
	defer s.uploading.Store(false)

	v, err := s.upload(ctx, title, path, progress)
	if err != nil {
		s.fail(ctx, MsgUploadFailed, err)
		return models.Video{}, err
	}

	s.notifier.Success(MsgUploaded)
	s.log.Info(ctx, "video uploaded", "id", v.ID)
	_, _ = s.Refresh(ctx)
	return v, nil
}

func (s *galleryService) upload(ctx context.Context, title, path string, progress client.ProgressFunc) (models.Video, error) {
	if err := models.ValidateTitle(title); err != nil {
		return models.Video{}, err
	}
	if path == "" {
		return models.Video{}, models.ErrFileRequired
	}
	if !models.HasVideoExtension(path) {
		return models.Video{}, fmt.Errorf("%s: %w", path, models.ErrUnsupportedFormat)
	}
	info, err := filex.Describe(path)
	if err != nil {
		return models.Video{}, err
	}
	if err := models.ValidateFile(info.Name, info.Size); err != nil {
		return models.Video{}, err
	}

	f, err := os.Open(info.Path)
	if err != nil {
		return models.Video{}, fmt.Errorf("open %s: %w", info.Path, err)
	}
	defer f.Close()

	env, err := s.client.Create(ctx, title, models.UploadFile{Name: info.Name, Size: info.Size, Body: f}, progress)
	if err != nil {
		return models.Video{}, err
	}
	if err := client.Check("upload", env); err != nil {
		return models.Video{}, err
	}
	return env.Data, nil
}

func (s *galleryService) Rename(ctx context.Context, id, title string) error {
	err := models.ValidateTitle(title)
	if err == nil {
		var env models.Envelope[models.Video]
		env, err = s.client.Update(ctx, id, title)
		if err == nil {
			err = client.Check("update", env)
		}
	}
	if err != nil {
		s.fail(ctx, MsgUpdateFailed, err)
		return err
	}

	s.notifier.Success(MsgUpdated)
	_, _ = s.Refresh(ctx)
	return nil
}

func (s *galleryService) Remove(ctx context.Context, id string) error {
	env, err := s.client.Delete(ctx, id)
	if err == nil {
		err = client.Check("delete", env)
	}
	if err != nil {
		s.fail(ctx, MsgDeleteFailed, err)
		return err
	}

	s.notifier.Success(MsgDeleted)
	_, _ = s.Refresh(ctx)
	return nil
}

// fail surfaces err: the server message for API errors, the validation
// text for local checks and a generic message for everything else.
func (s *galleryService) fail(ctx context.Context, generic string, err error) {
	s.log.Warn(ctx, generic, "err", err)
	s.notifier.Error(Describe(generic, err))
}

// Describe is the user-facing text for err.
func Describe(generic string, err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Msg != "" {
			return apiErr.Msg
		}
		return fmt.Sprintf("%s (code %d)", generic, apiErr.Code)
	case isValidation(err):
		return err.Error()
	default:
		return generic
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		models.ErrTitleRequired,
		models.ErrTitleTooLong,
		models.ErrFileRequired,
		models.ErrUnsupportedFormat,
		models.ErrFileTooLarge,
		filex.ErrNotRegularFile,
		os.ErrNotExist,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
