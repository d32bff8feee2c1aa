package domain

// Placeholder texts shown when a preview has nothing to render.
const (
	NoContentText        = "No content available"
	ImageUnavailableText = "Image preview not available"
	TypeUnavailableText  = "Preview not available for this file type"
	PreviewFailedText    = "Failed to load document preview"
)

// DocumentPreview is the renderable payload of a single document.
// Text and PDF documents carry Content; images carry FileURL.
// A payload with neither is a valid "preview unavailable" state.
type DocumentPreview struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	FileType FileType `json:"file_type"`
	Content  *string  `json:"content,omitempty"`
	FileURL  *string  `json:"file_url,omitempty"`
}

// RenderKind selects how a preview is presented.
type RenderKind int

const (
	// RenderText presents Text as preformatted text.
	RenderText RenderKind = iota
	// RenderImage presents the image at URL.
	RenderImage
	// RenderUnavailable presents Text as a placeholder.
	RenderUnavailable
)

// String returns the string representation of the render kind.
func (k RenderKind) String() string {
	switch k {
	case RenderText:
		return "text"
	case RenderImage:
		return "image"
	case RenderUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// PreviewRender is the outcome of dispatching a preview by file type.
type PreviewRender struct {
	Kind RenderKind
	Text string
	URL  string
}

// Render dispatches the preview by file type.
//
//   - txt, pdf: Content verbatim, or NoContentText when absent
//   - img: FileURL, or ImageUnavailableText when absent
//   - anything else: TypeUnavailableText
func (p DocumentPreview) Render() PreviewRender {
	switch p.FileType {
	case FileTypeText, FileTypePDF:
		if p.Content == nil || *p.Content == "" {
			return PreviewRender{Kind: RenderText, Text: NoContentText}
		}
		return PreviewRender{Kind: RenderText, Text: *p.Content}
	case FileTypeImage:
		if p.FileURL == nil || *p.FileURL == "" {
			return PreviewRender{Kind: RenderUnavailable, Text: ImageUnavailableText}
		}
		return PreviewRender{Kind: RenderImage, URL: *p.FileURL}
	default:
		return PreviewRender{Kind: RenderUnavailable, Text: TypeUnavailableText}
	}
}
