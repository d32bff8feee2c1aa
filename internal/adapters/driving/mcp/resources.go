package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// Resource URIs look like kbqa://documents, kbqa://documents/{id} and
// kbqa://categories/{fileType}.
const (
	scheme       = "kbqa"
	documentsURI = scheme + "://documents"
	mimeJSON     = "application/json"
	mimeText     = "text/plain"
	mimeURIList  = "text/uri-list"
)

type resourceDocument struct {
	DocumentOutput
	FileType string `json:"file_type"`
	URI      string `json:"uri"`
}

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "Every uploaded document with its type and resource URI",
		MIMEType:    mimeJSON,
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsURI + "/{documentId}",
		Name:        "document-preview",
		Description: "Text of a document, or the URL of an image",
		MIMEType:    mimeText,
	}, s.handleDocumentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: scheme + "://categories/{fileType}",
		Name:        "category",
		Description: "Documents of one type: txt, img or pdf",
		MIMEType:    mimeJSON,
	}, s.handleCategoryResource)
}

func (s *Server) handleDocumentsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	index, err := s.reloadIndex(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, resourceDocuments(index.All()))
}

func (s *Server) handleCategoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ft := domain.FileType(resourceID(req.Params.URI, "categories"))
	if !ft.IsKnown() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	index, err := s.reloadIndex(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, resourceDocuments(index.Get(ft)))
}

// handleDocumentResource serves text previews as text/plain and images as
// a one-line text/uri-list.
func (s *Server) handleDocumentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	preview, err := s.openPreview(ctx, resourceID(uri, "documents"))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	contents := &mcp.ResourceContents{URI: uri, MIMEType: mimeText}
	switch render := preview.Render(); render.Kind {
	case domain.RenderImage:
		contents.MIMEType = mimeURIList
		contents.Text = render.URL
	default:
		contents.Text = render.Text
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{contents}}, nil
}

func resourceDocuments(docs []domain.Document) []resourceDocument {
	out := make([]resourceDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, resourceDocument{
			DocumentOutput: toDocumentOutput(d),
			FileType:       d.FileType.String(),
			URI:            documentURI(d.ID),
		})
	}
	return out
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
		URI:      uri,
		MIMEType: mimeJSON,
		Text:     string(data),
	}}}, nil
}

func documentURI(id string) string {
	return documentsURI + "/" + url.PathEscape(id)
}

// resourceID returns {id} from kbqa://{collection}/{id}, or "" when uri
// has another shape.
func resourceID(uri, collection string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != scheme || u.Host != collection {
		return ""
	}
	id := strings.TrimPrefix(u.Path, "/")
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
