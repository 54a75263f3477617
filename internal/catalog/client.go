// Package catalog talks to the remote song API and keeps the local copy of
// the song list.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// ErrEmptyID is returned by Delete when the song has no identifier.
var ErrEmptyID = errors.New("song has no id")

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL    string
	SongsPath  string
	UploadPath string
	Timeout    time.Duration
	Limits     upload.Limits
	Version    string

	// HTTPClient replaces the default client. Tests inject a transport here.
	HTTPClient *http.Client
}

// Client is a song API client.
type Client struct {
	base       *url.URL
	songsPath  string
	uploadPath string
	limits     upload.Limits
	userAgent  string
	httpClient *http.Client
}

// New creates a new song API client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &Client{
		base:       base,
		songsPath:  pathOrDefault(opts.SongsPath, "/songs"),
		uploadPath: pathOrDefault(opts.UploadPath, "/songs"),
		limits:     upload.NewLimits(opts.Limits.MaxSize, opts.Limits.AllowedTypes),
		userAgent:  "tunecrate/" + version,
		httpClient: httpClient,
	}, nil
}

// Limits returns the upload checks the client enforces.
func (c *Client) Limits() upload.Limits {
	return c.limits
}

// List fetches every song.
func (c *Client) List(ctx context.Context) ([]Song, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(c.songsPath), http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var songs []Song
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	if songs == nil {
		songs = []Song{}
	}

	return songs, nil
}

// Upload validates p and sends it as one multipart request. A validation
// failure returns an *upload.ValidationError and sends nothing. The checks
// run again against the file as opened, and the body streams from disk with
// a fixed Content-Length.
func (c *Client) Upload(ctx context.Context, p *upload.Pending) (Song, error) {
	if err := p.Validate(c.limits); err != nil {
		return Song{}, err
	}

	f, err := os.Open(p.File.Path)
	if err != nil {
		return Song{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := c.recheckSize(p, f)
	if err != nil {
		return Song{}, err
	}

	body, length, contentType, err := multipartBody(p, f, size)
	if err != nil {
		return Song{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(c.uploadPath), body)
	if err != nil {
		return Song{}, err
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return Song{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Song{}, err
	}

	var song Song
	if err := json.NewDecoder(resp.Body).Decode(&song); err != nil {
		return Song{}, &TransportError{Op: "decode response", Err: err}
	}

	return song, nil
}

// Delete removes the song with the given id. Any 2xx is success.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	endpoint := c.endpoint(strings.TrimSuffix(c.songsPath, "/") + "/" + url.PathEscape(id))
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// ResolveURL returns the absolute URL of a song's audio. Relative URLs are
// resolved against the API base.
func (c *Client) ResolveURL(songURL string) (string, error) {
	if songURL == "" {
		return "", errors.New("song has no url")
	}
	ref, err := url.Parse(songURL)
	if err != nil {
		return "", fmt.Errorf("parse song url: %w", err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String(), nil
}

// Fetch issues a GET for audio at rawURL and returns the open response body.
// The caller closes it.
func (c *Client) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	abs, err := c.ResolveURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, abs, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/*")

	// audio can outlast the API timeout; the context bounds it instead
	streamClient := *c.httpClient
	streamClient.Timeout = 0

	resp, err := c.doWith(&streamClient, req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

// endpoint joins an already-escaped path onto the base URL.
func (c *Client) endpoint(escapedPath string) string {
	u := *c.base
	raw := strings.TrimSuffix(u.EscapedPath(), "/") + escapedPath
	p, err := url.PathUnescape(raw)
	if err != nil {
		p = raw
	}
	u.Path, u.RawPath = p, raw
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	return c.doWith(c.httpClient, req)
}

func (c *Client) doWith(hc *http.Client, req *http.Request) (*http.Response, error) {
	log := logger.L().With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, &TransportError{Op: "http request", Err: err}
	}

	log.Debug("request done", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &TransportError{Op: "read error response", Err: err}
	}
	return parseAPIError(resp.StatusCode, body)
}

// recheckSize stats the open file and validates p against its current size.
func (c *Client) recheckSize(p *upload.Pending, f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() == p.File.Size {
		return info.Size(), nil
	}
	current := *p
	file := *p.File
	file.Size = info.Size()
	current.File = &file
	if err := current.Validate(c.limits); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// multipartBody lays out the metadata fields and the file part. Only the
// part headers and the closing boundary are held in memory; exactly size
// bytes of f follow them.
func multipartBody(p *upload.Pending, f io.Reader, size int64) (io.Reader, int64, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range p.Fields() {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, 0, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		upload.FieldFile, quoteEscaper.Replace(p.File.Name)))
	h.Set("Content-Type", p.File.Type)
	if _, err := w.CreatePart(h); err != nil {
		return nil, 0, "", fmt.Errorf("create file part: %w", err)
	}
	headLen := buf.Len()

	if err := w.Close(); err != nil {
		return nil, 0, "", fmt.Errorf("close multipart: %w", err)
	}
	head, tail := buf.Bytes()[:headLen], buf.Bytes()[headLen:]

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(f, size), bytes.NewReader(tail))
	return body, int64(len(head)) + size + int64(len(tail)), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func pathOrDefault(p, def string) string {
	if p == "" {
		p = def
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
