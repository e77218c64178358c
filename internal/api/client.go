// Package api holds the typed HTTP clients for the external SICEA backend.
// Every authenticated call attaches the DRF token header; error payloads of
// any shape collapse into a single *Error value.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given API base URL (e.g. http://host:8000/api).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithHTTPClient allows injecting a custom http.Client (tests).
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	c.http = hc
	return c
}

func (c *Client) url(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// AuthHeader returns the header map for a token, empty when the token is
// empty. The backend uses DRF token auth.
func AuthHeader(token string) map[string]string {
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Token " + token}
}

func (c *Client) do(ctx context.Context, method, token, path string, params url.Values, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, params), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range AuthHeader(token) {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, connectionError(err)
	}
	return resp, nil
}

// getJSON performs a GET and decodes the 2xx body into out (out may be nil).
func (c *Client) getJSON(ctx context.Context, token, path string, params url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, token, path, params, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: "Respuesta inesperada del servidor"}
	}
	return nil
}

// sendJSON performs a request with a JSON body and decodes the 2xx response
// into out when non-nil.
func (c *Client) sendJSON(ctx context.Context, method, token, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	resp, err := c.do(ctx, method, token, path, nil, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: "Respuesta inesperada del servidor"}
	}
	return nil
}

// UploadFile is one named part of a multipart batch request.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// postFiles sends files as the repeated "files" multipart field and decodes
// the 2xx response into out.
func (c *Client) postFiles(ctx context.Context, token, path string, files []UploadFile, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("multipart: %w", err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("multipart copy %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("multipart close: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, token, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: "Respuesta inesperada del servidor"}
	}
	return nil
}

// getBinary performs a GET expecting a binary payload. The caller must close
// the returned body.
func (c *Client) getBinary(ctx context.Context, token, path string, params url.Values) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, token, path, params, nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, parseError(resp)
	}
	return resp.Body, nil
}
