package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAPIURL, c.BaseURL())
	assert.Zero(t, c.client.Timeout, "no client-side timeout")
	assert.Nil(t, c.limiter)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://kb.local:8000/"})

	require.NoError(t, err)
	assert.Equal(t, "http://kb.local:8000", c.BaseURL())
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewClient_RateLimit(t *testing.T) {
	c, err := NewClient(Config{RateLimit: 0.5})

	require.NoError(t, err)
	require.NotNil(t, c.limiter)
	assert.Equal(t, 1, c.limiter.Burst())
}

func TestClient_ListDocumentsByCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/documents/by-category", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"txt": [{"id": "t1", "filename": "a.txt", "file_type": "txt", "file_size": 10, "upload_date": "2024-05-01T10:00:00Z"}],
			"img": [],
			"pdf": [{"id": "p1", "filename": "b.pdf", "file_type": "pdf", "file_size": 20, "upload_date": "2024-05-01T11:00:00Z"}]
		}`)
	})

	idx, err := c.ListDocumentsByCategory(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, idx.Total())
	assert.Empty(t, idx.Get(domain.FileTypeImage))
	require.Len(t, idx.Get(domain.FileTypePDF), 1)
	assert.Equal(t, "b.pdf", idx.Get(domain.FileTypePDF)[0].Filename)
}

func TestClient_ListDocumentsByCategory_MissingCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"pdf": []}`)
	})

	idx, err := c.ListDocumentsByCategory(context.Background())

	require.NoError(t, err)
	assert.Zero(t, idx.Total())
	assert.Empty(t, idx.Get(domain.FileTypeText))
}

func TestClient_GetDocumentPreview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/d1/preview", r.URL.Path)
		_, _ = io.WriteString(w, `{"id": "d1", "filename": "a.txt", "file_type": "txt", "content": "hello"}`)
	})

	preview, err := c.GetDocumentPreview(context.Background(), "d1")

	require.NoError(t, err)
	require.NotNil(t, preview.Content)
	assert.Equal(t, "hello", *preview.Content)
	assert.Nil(t, preview.FileURL)
}

func TestClient_GetDocumentPreview_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail": "Document not found"}`)
	})

	_, err := c.GetDocumentPreview(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Document not found", se.Message)
	assert.Equal(t, "get preview", se.Op)
}

func TestClient_DeleteDocument(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_, _ = io.WriteString(w, `{"message": "deleted"}`)
	})

	err := c.DeleteDocument(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/documents/d1", gotPath)
}

func TestClient_DeleteDocument_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "database locked", http.StatusInternalServerError)
	})

	err := c.DeleteDocument(context.Background(), "d1")

	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "database locked", se.Message)
	assert.False(t, domain.IsTransport(err))
}

func TestClient_MalformedResponseIsServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"answer": `)
	})

	_, err := c.AskQuestion(context.Background(), "anything?")

	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusOK, se.StatusCode)
	assert.Equal(t, "malformed response", se.Message)
	assert.Error(t, se.Err)
	assert.True(t, domain.IsServer(err))
	assert.False(t, domain.IsTransport(err))
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_UploadDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		files := r.MultipartForm.File["files"]
		if !assert.Len(t, files, 2) {
			return
		}
		assert.Equal(t, "notes.txt", files[0].Filename)
		assert.Equal(t, "text/plain; charset=utf-8", files[0].Header.Get("Content-Type"))
		assert.Equal(t, "scan.pdf", files[1].Filename)
		assert.Equal(t, "application/pdf", files[1].Header.Get("Content-Type"))

		_, _ = io.WriteString(w, `[
			{"id": "n1", "filename": "notes.txt", "file_type": "txt", "file_size": 5, "upload_date": "2024-05-01T10:00:00Z"},
			{"id": "n2", "filename": "scan.pdf", "file_type": "pdf", "file_size": 9, "upload_date": "2024-05-01T10:00:00Z"}
		]`)
	})

	docs, err := c.UploadDocuments(context.Background(), []domain.FileHandle{
		domain.NewFileHandle("notes.txt", []byte("hello")),
		domain.NewFileHandle("scan.pdf", []byte("%PDF-1.4\n")),
	})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "n1", docs[0].ID)
	assert.Equal(t, domain.FileTypePDF, docs[1].FileType)
}

func TestClient_UploadDocuments_EmptyIssuesNoRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	})

	_, err := c.UploadDocuments(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, called)
}

func TestClient_AskQuestion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is the refund policy?", req["question"])

		_, _ = io.WriteString(w, `{
			"answer": "30 days.",
			"cited_documents": ["d1"],
			"document_details": [{"id": "d1", "filename": "policy.pdf", "file_type": "pdf"}]
		}`)
	})

	answer, err := c.AskQuestion(context.Background(), "What is the refund policy?")

	require.NoError(t, err)
	assert.Equal(t, "30 days.", answer.Text)
	assert.Equal(t, []string{"d1"}, answer.CitedDocumentIDs)
	require.Len(t, answer.Details, 1)
	assert.Equal(t, domain.Citation{ID: "d1", Filename: "policy.pdf", FileType: domain.FileTypePDF}, answer.Details[0])
}

func TestClient_AskQuestion_Blank(t *testing.T) {
	called := false
	c := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	})

	_, err := c.AskQuestion(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, called)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.ListDocumentsByCategory(context.Background())

	assert.True(t, domain.IsTransport(err))
	assert.False(t, domain.IsServer(err))
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.AskQuestion(ctx, "slow?")

	assert.True(t, domain.IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad file", errorMessage([]byte(`{"detail": "bad file"}`)))
	assert.Equal(t, `[{"msg":"field required"}]`, errorMessage([]byte(`{"detail": [{"msg": "field required"}]}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text\n")))
	assert.Empty(t, errorMessage(nil))
}
