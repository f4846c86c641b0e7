// Package apiclient is the single chokepoint for calls to the remote
// user-account API. It attaches the bearer token from the session and turns
// a 401/403 into a cleared session plus ErrUnauthorized.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/nfrund/authportal/internal/session"
)

// FilePart is one file attached to a multipart request.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Options describe a single gateway call.
type Options struct {
	// Method defaults to GET.
	Method string
	// JSON is encoded as the request body when set.
	JSON any
	// Form and Files switch the body to multipart/form-data.
	Form  map[string]string
	Files []FilePart
}

func (o Options) multipart() bool {
	return len(o.Form) > 0 || len(o.Files) > 0
}

// Client talks to the remote API rooted at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a gateway for the API at baseURL. The underlying http.Client
// has no timeout; calls are single attempts.
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{})
}

// NewWithHTTPClient creates a gateway using a caller-supplied transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves an endpoint against the API root.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Call performs one request and returns the raw response body.
//
// On 401 or 403 the store is cleared before the error is returned, so any
// redirect written afterwards lands on a page that sees an empty session.
// The request is detached from ctx cancellation: a client navigating away
// does not abort a call that is already in flight.
func (c *Client) Call(ctx context.Context, store session.Store, endpoint string, opts Options) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), method, c.URL(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	authed := false
	if store != nil {
		if token := session.Token(store); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			authed = true
		}
	}

	slog.Debug("API request", "method", method, "endpoint", endpoint, "authenticated", authed)

	res, err := c.http.Do(req)
	if err != nil {
		slog.Warn("API request failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, NewTransportError(endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewTransportError(endpoint, err)
	}

	slog.Debug("API response", "method", method, "endpoint", endpoint, "status", res.StatusCode, "bytes", len(raw))

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		if store != nil {
			if err := store.Clear(); err != nil {
				slog.Error("Failed to clear session after API rejection", "endpoint", endpoint, "error", err)
			}
		}
		slog.Info("API rejected session; cleared", "endpoint", endpoint, "status", res.StatusCode)
		return nil, &UnauthorizedError{Status: res.StatusCode, Endpoint: endpoint}
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, &HTTPError{
			Status:   res.StatusCode,
			Message:  errorMessage(raw, res.StatusCode),
			Endpoint: endpoint,
		}
	}

	return raw, nil
}

// CallJSON performs Call and decodes a non-empty response into out.
func (c *Client) CallJSON(ctx context.Context, store session.Store, endpoint string, opts Options, out any) error {
	raw, err := c.Call(ctx, store, endpoint, opts)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

func encodeBody(opts Options) (io.Reader, string, error) {
	if opts.multipart() {
		return encodeMultipart(opts.Form, opts.Files)
	}
	if opts.JSON == nil {
		return nil, "", nil
	}
	raw, err := json.Marshal(opts.JSON)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(raw), "application/json", nil
}

func encodeMultipart(form map[string]string, files []FilePart) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range form {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// errorMessage extracts {"error": "..."} (or "message") from a failure body.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(status)
}
