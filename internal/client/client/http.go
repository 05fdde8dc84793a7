package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/client/metrics"
	"github.com/dmitrijs2005/vidgallery/internal/client/models"
	"github.com/dmitrijs2005/vidgallery/internal/logging"
	"github.com/google/uuid"
)

const (
	pathList   = "/api/video/all"
	pathUpload = "/api/video/upload"
	pathUpdate = "/api/video/update"
	pathDelete = "/api/video/del"

	// RequestIDHeader carries a fresh uuid on every request.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// Options tune an HTTPClient. Zero values fall back to defaults.
type Options struct {
	// RequestTimeout bounds list, update and delete calls.
	RequestTimeout time.Duration
	// UploadTimeout bounds a whole upload; zero means no bound.
	UploadTimeout time.Duration
	HTTPClient    *http.Client
	Logger        logging.Logger
	Metrics       *metrics.Metrics
}

type HTTPClient struct {
	baseURL        string
	http           *http.Client
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	log            logging.Logger
	metrics        *metrics.Metrics
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, opts Options) *HTTPClient {
	c := &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           opts.HTTPClient,
		requestTimeout: opts.RequestTimeout,
		uploadTimeout:  opts.UploadTimeout,
		log:            opts.Logger,
		metrics:        opts.Metrics,
	}
	if c.http == nil {
		c.http = &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 4}}
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 10 * time.Second
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	c.log = c.log.With("component", "api_client")
	return c
}

func (c *HTTPClient) List(ctx context.Context) (models.Envelope[[]models.Video], error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var env models.Envelope[[]models.Video]
	err := c.do(ctx, "list", http.MethodGet, pathList, "", nil, &env)
	return env, err
}

func (c *HTTPClient) Update(ctx context.Context, id, title string) (models.Envelope[models.Video], error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	body, err := json.Marshal(struct {
		Title string `json:"title"`
	}{Title: title})
	if err != nil {
		return models.Envelope[models.Video]{}, fmt.Errorf("encode update: %w", err)
	}

	var env models.Envelope[models.Video]
	err = c.do(ctx, "update", http.MethodPost, withID(pathUpdate, id), "application/json", strings.NewReader(string(body)), &env)
	return env, err
}

func (c *HTTPClient) Delete(ctx context.Context, id string) (models.Envelope[json.RawMessage], error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var env models.Envelope[json.RawMessage]
	err := c.do(ctx, "delete", http.MethodPost, withID(pathDelete, id), "", nil, &env)
	return env, err
}

// Create streams a multipart form with the fields "title" and "file".
func (c *HTTPClient) Create(ctx context.Context, title string, file models.UploadFile, progress ProgressFunc) (models.Envelope[models.Video], error) {
	if c.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}

	tracker := newProgressTracker(file.Size, progress)
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	written := make(chan struct{})
	go func() {
		defer close(written)
		pw.CloseWithError(writeUploadForm(mw, title, file, tracker))
	}()

	var env models.Envelope[models.Video]
	err := c.do(ctx, "upload", http.MethodPost, pathUpload, mw.FormDataContentType(), pr, &env)
	// Unblocks the writer if the request ended before the body was consumed.
	_ = pr.CloseWithError(io.ErrClosedPipe)
	<-written
	if err != nil {
		return env, err
	}

	tracker.finish()
	if env.OK() {
		c.metrics.Uploaded(file.Size)
	}
	return env, nil
}

func writeUploadForm(mw *multipart.Writer, title string, file models.UploadFile, tracker *progressTracker) error {
	if err := mw.WriteField("title", title); err != nil {
		return fmt.Errorf("write title field: %w", err)
	}
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, &countingReader{r: file.Body, onRead: tracker.add}); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return mw.Close()
}

func (c *HTTPClient) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = c.mapError(op, err)
		c.record(ctx, op, reqID, start, 0, err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		err = c.mapError(op, err)
		c.record(ctx, op, reqID, start, resp.StatusCode, err)
		return err
	}

	if err := decodeEnvelope(raw, out); err != nil {
		err = fmt.Errorf("%s: %w: status %d: %v", op, ErrBadResponse, resp.StatusCode, err)
		c.record(ctx, op, reqID, start, resp.StatusCode, err)
		return err
	}

	c.record(ctx, op, reqID, start, resp.StatusCode, nil)
	return nil
}

// decodeEnvelope insists on a JSON object carrying a "code" member; a body
// such as an HTML error page or an empty reply is not an envelope.
func decodeEnvelope(raw []byte, out any) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err
	}
	if _, ok := probe["code"]; !ok {
		return errors.New("missing code")
	}
	return json.Unmarshal(raw, out)
}

func (c *HTTPClient) record(ctx context.Context, op, reqID string, start time.Time, status int, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrUnavailable):
		outcome = metrics.OutcomeUnavailable
	case errors.Is(err, ErrBadResponse):
		outcome = metrics.OutcomeBadResponse
	case err != nil:
		outcome = metrics.OutcomeFailed
	}
	c.metrics.Request(op, outcome)

	args := []any{"op", op, "request_id", reqID, "status", status, "elapsed", time.Since(start)}
	if err != nil {
		c.log.Warn(ctx, "api request failed", append(args, "err", err)...)
		return
	}
	c.log.Debug(ctx, "api request", args...)
}

func (c *HTTPClient) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func withID(path, id string) string {
	return path + "?id=" + url.QueryEscape(id)
}

type countingReader struct {
	r      io.Reader
	onRead func(n int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.onRead(n)
	}
	return n, err
}

// progressTracker turns byte counts into non-decreasing percentages and only
// reports when the percentage changes.
type progressTracker struct {
	total int64
	sent  int64
	last  int
	fn    ProgressFunc
}

func newProgressTracker(total int64, fn ProgressFunc) *progressTracker {
	return &progressTracker{total: total, last: -1, fn: fn}
}

func (t *progressTracker) add(n int) {
	t.sent += int64(n)
	if t.total <= 0 {
		return
	}
	t.emit(Percent(t.sent, t.total))
}

func (t *progressTracker) finish() {
	t.emit(100)
}

func (t *progressTracker) emit(p int) {
	if t.fn == nil || p <= t.last {
		return
	}
	t.last = p
	t.fn(p)
}

// Percent is round(sent/total*100) clamped to [0, 100].
func Percent(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(sent) / float64(total) * 100))
	return max(0, min(p, 100))
}
