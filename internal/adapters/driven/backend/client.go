// Package backend provides the HTTP gateway to the knowledge base server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Endpoint paths relative to the configured origin.
const (
	uploadPath     = "/api/documents/upload"
	byCategoryPath = "/api/documents/by-category"
	documentsPath  = "/api/documents/"
	chatPath       = "/api/chat/"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 4 << 10

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the server origin (default: http://localhost:8000).
	BaseURL string

	// RateLimit caps requests per second. Zero disables throttling.
	RateLimit float64

	// HTTPClient overrides the transport. Useful for testing.
	HTTPClient *http.Client
}

// Client talks to the knowledge base server over HTTP.
// It keeps no state between calls beyond the shared connection pool.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultAPIURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &domain.ValidationError{Field: "api.url", Reason: "must be an absolute http(s) URL"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No client timeout; requests are bounded by ctx only.
		httpClient = &http.Client{}
	}

	c := &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadDocuments posts every file as a repeated "files" part.
func (c *Client) UploadDocuments(ctx context.Context, files []domain.FileHandle) ([]domain.Document, error) {
	const op = "upload documents"
	if len(files) == 0 {
		return nil, &domain.ValidationError{Field: "files", Reason: "at least one file is required"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		header.Set("Content-Type", mimetype.Detect(f.Data).String())

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("%s: create part: %w", op, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("%s: write part: %w", op, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart: %w", op, err)
	}

	var docs []domain.Document
	if err := c.do(ctx, op, http.MethodPost, uploadPath, writer.FormDataContentType(), &body, &docs); err != nil {
		return nil, err
	}
	logger.Debug("backend: uploaded %d files", len(docs))
	return docs, nil
}

// ListDocumentsByCategory fetches every document grouped by file type.
func (c *Client) ListDocumentsByCategory(ctx context.Context) (domain.CategoryIndex, error) {
	var raw map[domain.FileType][]domain.Document
	if err := c.do(ctx, "list documents", http.MethodGet, byCategoryPath, "", nil, &raw); err != nil {
		return domain.CategoryIndex{}, err
	}
	return domain.NewCategoryIndex(raw), nil
}

// GetDocumentPreview fetches the renderable payload of one document.
func (c *Client) GetDocumentPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	var preview domain.DocumentPreview
	path := documentsPath + url.PathEscape(id) + "/preview"
	if err := c.do(ctx, "get preview", http.MethodGet, path, "", nil, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// DeleteDocument removes one document. The response body is ignored.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, "delete document", http.MethodDelete, documentsPath+url.PathEscape(id), "", nil, nil)
}

// askRequest is the /api/chat/ request format.
type askRequest struct {
	Question string `json:"question"`
}

// AskQuestion posts a question and waits for the answer.
func (c *Client) AskQuestion(ctx context.Context, question string) (*domain.Answer, error) {
	const op = "ask question"
	if strings.TrimSpace(question) == "" {
		return nil, &domain.ValidationError{Field: "question", Reason: "must not be blank"}
	}

	jsonBody, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	var answer domain.Answer
	if err := c.do(ctx, op, http.MethodPost, chatPath, "application/json", bytes.NewReader(jsonBody), &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// do sends one request and decodes a 2xx JSON body into out (if not nil).
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.TransportError{Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logger.Debug("backend: %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.ServerError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ServerError{Op: op, StatusCode: resp.StatusCode, Message: malformedResponse, Err: err}
	}
	return nil
}

const malformedResponse = "malformed response"

// errorMessage extracts {"detail": "..."} when present, else the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(body))
}
