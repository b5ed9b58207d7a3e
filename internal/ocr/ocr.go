// Package ocr acquires plain text from uploaded sea service letters through a
// hosted document-to-text API.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ErrNoText indicates the OCR service returned empty or whitespace-only text.
var ErrNoText = errors.New("ocr produced no text")

// TextExtractor produces plain text from a letter document.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// Client is an HTTP TextExtractor for a hosted OCR API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient creates a reusable OCR client from the given configuration.
func NewClient(cfg *Config) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

// ExtractText posts the document to the OCR service and returns the
// recognized text. Empty results are rejected with ErrNoText; the downstream
// parser never sees an empty letter.
func (c *Client) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/extract", body)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Bounded read keeps a misbehaving service from flooding the error.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr service status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if strings.TrimSpace(payload.Text) == "" {
		return "", ErrNoText
	}

	return payload.Text, nil
}
