package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/vidgallery/internal/client/client"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/dmitrijs2005/vidgallery/internal/client/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake client
 *************/

type fakeClient struct {
	mu sync.Mutex

	listEnv models.Envelope[[]models.Video]
	listErr error
	lists   int

	createEnv   models.Envelope[models.Video]
	createErr   error
	creates     int
	createdBody []byte
	createTitle string
	createName  string
	createHook  func()

	updateEnv models.Envelope[models.Video]
	updateErr error
	updates   []string

	deleteEnv models.Envelope[json.RawMessage]
	deleteErr error
	deletes   []string
}

func (f *fakeClient) List(ctx context.Context) (models.Envelope[[]models.Video], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return f.listEnv, f.listErr
}

func (f *fakeClient) Create(ctx context.Context, title string, file models.UploadFile, progress client.ProgressFunc) (models.Envelope[models.Video], error) {
	if f.createHook != nil {
		f.createHook()
	}
	body, _ := io.ReadAll(file.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.createdBody = body
	f.createTitle = title
	f.createName = file.Name
	if progress != nil {
		progress(100)
	}
	return f.createEnv, f.createErr
}

func (f *fakeClient) Update(ctx context.Context, id, title string) (models.Envelope[models.Video], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+"="+title)
	return f.updateEnv, f.updateErr
}

func (f *fakeClient) Delete(ctx context.Context, id string) (models.Envelope[json.RawMessage], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteEnv, f.deleteErr
}

func okList(ids ...string) models.Envelope[[]models.Video] {
	env := models.Envelope[[]models.Video]{Code: 0, Data: []models.Video{}}
	for _, id := range ids {
		env.Data = append(env.Data, models.Video{ID: id, Title: id})
	}
	return env
}

func newGallery(fc *fakeClient) (GalleryService, *notify.Service) {
	n := notify.New(nil, 0)
	return NewGalleryService(fc, n, nil), n
}

func lastNotice(t *testing.T, n *notify.Service) notify.Notice {
	t.Helper()
	last, ok := n.Last()
	require.True(t, ok, "expected a notice")
	return last
}

func writeTemp(t *testing.T, name string, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o600))
	return p
}

func TestRefresh_OK(t *testing.T) {
	fc := &fakeClient{listEnv: okList("a", "b")}
	g, n := newGallery(fc)

	got, err := g.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, g.Videos(), 2)
	assert.Empty(t, n.Notices())
}

func TestRefresh_LogicalFailureClearsListAndSurfacesMessage(t *testing.T) {
	fc := &fakeClient{listEnv: okList("a")}
	g, n := newGallery(fc)
	_, err := g.Refresh(context.Background())
	require.NoError(t, err)

	fc.listEnv = models.Envelope[[]models.Video]{Code: 1, Msg: "x"}
	got, err := g.Refresh(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Empty(t, g.Videos())

	last := lastNotice(t, n)
	assert.Equal(t, notify.KindError, last.Kind)
	assert.Contains(t, last.Message, "x")
}

func TestRefresh_TransportFailureIsGeneric(t *testing.T) {
	fc := &fakeClient{listErr: fmt.Errorf("list: %w: dial tcp: refused", client.ErrUnavailable)}
	g, n := newGallery(fc)

	_, err := g.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, MsgFetchFailed, lastNotice(t, n).Message)
}

func TestRefresh_NullDataIsEmpty(t *testing.T) {
	fc := &fakeClient{listEnv: models.Envelope[[]models.Video]{Code: 0}}
	g, _ := newGallery(fc)

	got, err := g.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpload_OK(t *testing.T) {
	fc := &fakeClient{
		createEnv: models.Envelope[models.Video]{Code: 0, Data: models.Video{ID: "new", Title: "clip"}},
		listEnv:   okList("new"),
	}
	g, n := newGallery(fc)
	path := writeTemp(t, "clip.MP4", 2048)

	var progress []int
	v, err := g.Upload(context.Background(), "clip", path, func(p int) { progress = append(progress, p) })
	require.NoError(t, err)
	assert.Equal(t, "new", v.ID)
	assert.Equal(t, "clip", fc.createTitle)
	assert.Equal(t, "clip.MP4", fc.createName)
	assert.Len(t, fc.createdBody, 2048)
	assert.Equal(t, []int{100}, progress)

	assert.Equal(t, 1, fc.lists, "catalog re-fetched after success")
	assert.Len(t, g.Videos(), 1)
	assert.False(t, g.Uploading())

	var kinds []notify.Kind
	for _, no := range n.Notices() {
		kinds = append(kinds, no.Kind)
	}
	assert.Equal(t, []notify.Kind{notify.KindSuccess}, kinds)
	assert.Equal(t, MsgUploaded, lastNotice(t, n).Message)
}

func TestUpload_ValidationNeverCallsServer(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "clip.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))

	tests := []struct {
		name    string
		title   string
		path    string
		wantErr error
	}{
		{name: "wrong extension", title: "t", path: txt, wantErr: models.ErrUnsupportedFormat},
		{name: "missing title", title: "", path: txt, wantErr: models.ErrTitleRequired},
		{name: "missing file", title: "t", path: "", wantErr: models.ErrFileRequired},
		{name: "file does not exist", title: "t", path: filepath.Join(dir, "nope.mp4"), wantErr: os.ErrNotExist},
		{name: "directory", title: "t", path: mkdir(t, dir, "folder.mp4"), wantErr: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			g, n := newGallery(fc)

			_, err := g.Upload(context.Background(), tt.title, tt.path, nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, fc.creates)
			assert.Zero(t, fc.lists)
			assert.Equal(t, notify.KindError, lastNotice(t, n).Kind)
		})
	}
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	p := filepath.Join(parent, name)
	require.NoError(t, os.Mkdir(p, 0o700))
	return p
}

func TestUpload_ServerRejection(t *testing.T) {
	fc := &fakeClient{createEnv: models.Envelope[models.Video]{Code: 2, Msg: "storage full"}}
	g, n := newGallery(fc)

	_, err := g.Upload(context.Background(), "clip", writeTemp(t, "clip.mp4", 10), nil)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "storage full", lastNotice(t, n).Message)
	assert.Zero(t, fc.lists)
}

func TestUpload_TransportFailure(t *testing.T) {
	fc := &fakeClient{createErr: fmt.Errorf("upload: %w: reset", client.ErrUnavailable)}
	g, n := newGallery(fc)

	_, err := g.Upload(context.Background(), "clip", writeTemp(t, "clip.mp4", 10), nil)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, MsgUploadFailed, lastNotice(t, n).Message)
	assert.False(t, g.Uploading())
}

func TestUpload_SecondUploadRejectedWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fc := &fakeClient{
		createEnv: models.Envelope[models.Video]{Code: 0, Data: models.Video{ID: "a"}},
		listEnv:   okList("a"),
	}
	fc.createHook = func() {
		close(entered)
		<-release
	}
	g, _ := newGallery(fc)
	path := writeTemp(t, "clip.mp4", 10)

	done := make(chan error, 1)
	go func() {
		_, err := g.Upload(context.Background(), "first", path, nil)
		done <- err
	}()

	<-entered
	assert.True(t, g.Uploading())
	_, err := g.Upload(context.Background(), "second", path, nil)
	require.ErrorIs(t, err, ErrUploadInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fc.creates)
	assert.False(t, g.Uploading())
}

func TestRename(t *testing.T) {
	fc := &fakeClient{updateEnv: models.Envelope[models.Video]{Code: 0}, listEnv: okList("a")}
	g, n := newGallery(fc)

	require.NoError(t, g.Rename(context.Background(), "a", "New title"))
	assert.Equal(t, []string{"a=New title"}, fc.updates)
	assert.Equal(t, 1, fc.lists)
	assert.Equal(t, MsgUpdated, lastNotice(t, n).Message)

	err := g.Rename(context.Background(), "a", "  ")
	require.ErrorIs(t, err, models.ErrTitleRequired)
	assert.Len(t, fc.updates, 1)

	fc.updateEnv = models.Envelope[models.Video]{Code: 3, Msg: "not found"}
	err = g.Rename(context.Background(), "a", "again")
	require.Error(t, err)
	assert.Equal(t, "not found", lastNotice(t, n).Message)
	assert.Equal(t, 1, fc.lists)
}

func TestRemove(t *testing.T) {
	fc := &fakeClient{deleteEnv: models.Envelope[json.RawMessage]{Code: 0}, listEnv: okList()}
	g, n := newGallery(fc)

	require.NoError(t, g.Remove(context.Background(), "a"))
	assert.Equal(t, []string{"a"}, fc.deletes)
	assert.Equal(t, 1, fc.lists)
	assert.Equal(t, MsgDeleted, lastNotice(t, n).Message)

	fc.deleteErr = errors.New("boom")
	require.Error(t, g.Remove(context.Background(), "b"))
	assert.Equal(t, MsgDeleteFailed, lastNotice(t, n).Message)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "bad", Describe("generic", &client.APIError{Code: 1, Msg: "bad"}))
	assert.Equal(t, "generic (code 7)", Describe("generic", &client.APIError{Code: 7}))
	assert.Equal(t, models.ErrFileTooLarge.Error(), Describe("generic", models.ErrFileTooLarge))
	assert.Equal(t, "generic", Describe("generic", client.ErrBadResponse))
}
