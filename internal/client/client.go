// Package client talks to the tutor service, either over HTTP or in-process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/codecoach/internal/tutor"
)

// Client calls a codecoach server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL. A zero timeout leaves
// requests bounded only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ask submits a tutor question.
func (c *Client) Ask(ctx context.Context, q tutor.Question) (tutor.Result, error) {
	var resp tutor.TutorResponse
	if err := c.postJSON(ctx, "/api/tutor", q, &resp); err != nil {
		return tutor.Result{}, err
	}
	if resp.Result.Hints == nil {
		resp.Result.Hints = []string{}
	}
	return resp.Result, nil
}

// Suggestions fetches starter prompts.
func (c *Client) Suggestions(ctx context.Context, req tutor.StarterRequest) ([]string, error) {
	var resp tutor.StarterResponse
	if err := c.postJSON(ctx, "/api/suggestions", req, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Followups fetches follow-up prompts for a session.
func (c *Client) Followups(ctx context.Context, req tutor.FollowupRequest) ([]string, error) {
	var resp tutor.FollowupResponse
	if err := c.postJSON(ctx, "/api/followups", req, &resp); err != nil {
		return nil, err
	}
	return resp.Tips, nil
}

// ParsePDF uploads a PDF and returns its extracted text.
func (c *Client) ParsePDF(ctx context.Context, name string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/parse-pdf", &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp tutor.ParsePDFResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		// A non-JSON error body still yields an APIError with the default message.
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &APIError{Status: resp.StatusCode, Message: body.Error, Details: body.Details}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: req.URL.Path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
