package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/client/metrics"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*HTTPClient, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m := metrics.New()
	return NewHTTPClient(srv.URL+"/", Options{RequestTimeout: 2 * time.Second, Metrics: m}), m
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestList_OK(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/video/all", r.URL.Path)
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)
		writeJSON(w, http.StatusOK, map[string]any{
			"code": 0, "msg": "ok",
			"data": []map[string]any{
				{"id": "a", "title": "A", "path": "a.mp4", "created_at": 1700000000000},
				{"id": "b", "title": "B"},
			},
		})
	})

	env, err := c.List(context.Background())
	require.NoError(t, err)
	require.True(t, env.OK())
	require.Len(t, env.Data, 2)
	assert.Equal(t, "a", env.Data[0].ID)
	assert.Equal(t, "a.mp4", env.Data[0].Path)
	require.NotNil(t, env.Data[0].CreatedAt)
	assert.Equal(t, int64(1700000000000), *env.Data[0].CreatedAt)
	assert.Empty(t, env.Data[1].Path)
}

func TestList_LogicalFailureIsNotTransportError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"code": 1, "msg": "db down"})
	})

	env, err := c.List(context.Background())
	require.NoError(t, err)
	assert.False(t, env.OK())

	var apiErr *APIError
	require.ErrorAs(t, Check("list", env), &apiErr)
	assert.Equal(t, 1, apiErr.Code)
	assert.Equal(t, "db down", apiErr.Msg)
	assert.Contains(t, apiErr.Error(), "db down")
}

func TestList_BadResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "html", body: "<html>bad gateway</html>"},
		{name: "empty", body: ""},
		{name: "no code", body: `{"data":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.List(context.Background())
			require.ErrorIs(t, err, ErrBadResponse)

			s, _ := m.Snapshot()
			require.NotEmpty(t, s)
			assert.Equal(t, "op=list,outcome=bad_response", s[0].Labels)
		})
	}
}

func TestList_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, Options{RequestTimeout: time.Second})
	_, err := c.List(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestList_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	c := NewHTTPClient(srv.URL, Options{RequestTimeout: 50 * time.Millisecond})
	_, err := c.List(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpdate_SendsTitleAndEscapedID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/video/update", r.URL.Path)
		assert.Equal(t, "a b&c", r.URL.Query().Get("id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New", body.Title)

		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "data": map[string]any{"id": "a b&c", "title": "New"}})
	})

	env, err := c.Update(context.Background(), "a b&c", "New")
	require.NoError(t, err)
	assert.Equal(t, "New", env.Data.Title)
}

func TestDelete_NullPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/video/del", r.URL.Path)
		assert.Equal(t, "v1", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `{"code":0,"msg":"deleted","data":null}`)
	})

	env, err := c.Delete(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, env.OK())
	assert.Equal(t, "deleted", env.Msg)
}

func TestCreate_MultipartAndProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("v"), 256*1024)

	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/video/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "clip", r.FormValue("title"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "clip.mp4", hdr.Filename)
		got, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, len(payload), len(got))

		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "data": map[string]any{"id": "new", "title": "clip"}})
	})

	var mu sync.Mutex
	var seen []int
	env, err := c.Create(context.Background(), "clip", models.UploadFile{
		Name: "clip.mp4",
		Size: int64(len(payload)),
		Body: bytes.NewReader(payload),
	}, func(p int) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, "new", env.Data.ID)

	require.NotEmpty(t, seen)
	assert.Equal(t, 100, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1])
	}
	for _, p := range seen {
		assert.True(t, p >= 0 && p <= 100)
	}

	s, err := m.Snapshot()
	require.NoError(t, err)
	var uploaded float64
	for _, sample := range s {
		if sample.Name == "vidgallery_uploaded_bytes_total" {
			uploaded = sample.Value
		}
	}
	assert.Equal(t, float64(len(payload)), uploaded)
}

func TestCreate_ServerRejectsEarly(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"code": 413, "msg": "too large"})
	})

	body := strings.NewReader(strings.Repeat("x", 1<<20))
	env, err := c.Create(context.Background(), "clip", models.UploadFile{Name: "clip.mp4", Size: 1 << 20, Body: body}, nil)
	if err != nil {
		// The server may close the connection before the client finishes writing.
		require.True(t, errors.Is(err, ErrUnavailable) || errors.Is(err, ErrBadResponse), err)
		return
	}
	assert.Equal(t, 413, env.Code)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(0, 10))
	assert.Equal(t, 50, Percent(5, 10))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(11, 10))
}

func TestProgressTracker_Monotonic(t *testing.T) {
	var got []int
	tr := newProgressTracker(10, func(p int) { got = append(got, p) })
	tr.add(1)
	tr.add(0)
	tr.add(4)
	tr.finish()
	tr.finish()
	assert.Equal(t, []int{10, 50, 100}, got)
}

func TestProgressTracker_ZeroSize(t *testing.T) {
	var got []int
	tr := newProgressTracker(0, func(p int) { got = append(got, p) })
	tr.add(3)
	tr.finish()
	assert.Equal(t, []int{100}, got)
}
