// Package transport is the HTTP client of the notes API. It attaches the
// session token, blocks unauthenticated write operations, unwraps response
// envelopes and classifies every failure.
package transport

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/puzzlenotes/internal/client/router"
	"github.com/atinyakov/puzzlenotes/internal/client/storage"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"go.uber.org/zap"
)

const (
	jsonContentType = "application/json;charset=UTF-8"

	// DefaultTimeout bounds a request when no http.Client is supplied.
	DefaultTimeout = 10 * time.Second

	msgRequestFailed = "request failed"
	msgLoginRequired = "please log in first"
	msgUnauthorized  = "session expired, please log in again"
)

// Level is the severity of a notification.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// File is a multipart upload body.
type File struct {
	// Field is the form field name, "file" when empty.
	Field   string
	Name    string
	Content io.Reader
}

// Client sends API requests. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	store          storage.Store
	notifier       Notifier
	location       func() string
	onUnauthorized func(redirect string)
	log            *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNotifier sets the user notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLocation sets the source of the current location captured as the
// return target of login redirects.
func WithLocation(fn func() string) Option {
	return func(c *Client) { c.location = fn }
}

// WithUnauthorizedHandler registers fn to run after a session teardown.
// It receives the login location to navigate to.
func WithUnauthorizedHandler(fn func(redirect string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for baseURL that reads the session token from store.
func New(baseURL string, store storage.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		store:    store,
		notifier: NotifierFunc(func(Level, string) {}),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	query    url.Values
	teardown bool
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

// WithQuery adds query parameters. Empty values are dropped.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) { o.query = q }
}

// WithoutTeardown keeps the stored session when the call is rejected as
// unauthorized.
func WithoutTeardown() RequestOption {
	return func(o *requestOptions) { o.teardown = false }
}

// Send performs the call and returns the envelope data, or the raw body when
// the response carries no data or is not an envelope. Failures are *Error.
func (c *Client) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	ro := requestOptions{teardown: true}
	for _, opt := range opts {
		opt(&ro)
	}

	token, _ := c.store.Get(storage.KeyToken)
	if token == "" && RequiresAuth(method, path) {
		return nil, c.fail(&Error{Kind: KindAuth, Message: msgLoginRequired}, LevelWarning, true)
	}

	req, err := c.newRequest(ctx, method, path, body, ro.query)
	if err != nil {
		return nil, c.fail(&Error{Kind: KindApplication, Message: err.Error(), Err: err}, LevelError, false)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(&Error{Kind: KindNetwork, Message: err.Error(), Err: err}, LevelError, false)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&Error{Kind: KindNetwork, Message: err.Error(), Err: err}, LevelError, false)
	}
	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		e := &Error{Kind: KindAuth, Status: resp.StatusCode, Message: serverMessage(raw, msgUnauthorized)}
		return nil, c.fail(e, LevelError, ro.teardown)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := &Error{Kind: KindApplication, Status: resp.StatusCode, Message: serverMessage(raw, msgRequestFailed)}
		return nil, c.fail(e, LevelError, false)
	}

	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Code == nil {
		return raw, nil
	}
	if *env.Code != models.CodeOK {
		e := &Error{Kind: KindApplication, Status: resp.StatusCode, Code: *env.Code, Message: cmp.Or(env.Message, msgRequestFailed)}
		if *env.Code == http.StatusUnauthorized {
			e.Kind = KindAuth
			return nil, c.fail(e, LevelError, ro.teardown)
		}
		return nil, c.fail(e, LevelError, false)
	}
	if env.HasData() {
		return env.Data, nil
	}
	return raw, nil
}

// Do calls Send and decodes the result into T.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	raw, err := c.Send(ctx, method, path, body, opts...)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		e := &Error{Kind: KindApplication, Message: fmt.Sprintf("decode %s %s: %v", method, path, err), Err: err}
		return out, c.fail(e, LevelError, false)
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, query url.Values) (*http.Request, error) {
	target := c.baseURL + path
	if q := encodeQuery(query); q != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + q
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *File:
		buf, ct, err := encodeMultipart(b)
		if err != nil {
			return nil, err
		}
		reader, contentType = buf, ct
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader, contentType = bytes.NewReader(data), jsonContentType
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// fail notifies once, tears the session down when asked, and returns e.
func (c *Client) fail(e *Error, level Level, teardown bool) error {
	if teardown {
		e.Redirect = c.teardown()
	}
	c.notifier.Notify(level, e.Message)
	c.log.Debug("api call failed",
		zap.Stringer("kind", e.Kind),
		zap.Int("status", e.Status),
		zap.Int("code", e.Code),
		zap.String("message", e.Message),
	)
	return e
}

// teardown drops the durable session and hands the login location to the
// unauthorized handler.
func (c *Client) teardown() string {
	for _, key := range []string{storage.KeyToken, storage.KeyUserInfo} {
		if err := c.store.Remove(key); err != nil {
			c.log.Warn("failed to clear session key", zap.String("key", key), zap.Error(err))
		}
	}
	current := "/"
	if c.location != nil {
		current = c.location()
	}
	redirect := router.LoginLocation(current)
	if c.onUnauthorized != nil {
		c.onUnauthorized(redirect)
	}
	return redirect
}

func encodeMultipart(f *File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	field := cmp.Or(f.Field, "file")
	part, err := w.CreateFormFile(field, f.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return nil, "", fmt.Errorf("copy form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	clean := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	return clean.Encode()
}

// serverMessage extracts detail or message from an error body.
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	return cmp.Or(body.Detail, body.Message, fallback)
}
