package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FileType is the category a document is filed under by the backend.
// The string value is the wire representation.
type FileType string

// Known file types.
const (
	// FileTypeText is a plain text document.
	FileTypeText FileType = "txt"

	// FileTypeImage is a raster image (jpg, jpeg, png).
	FileTypeImage FileType = "img"

	// FileTypePDF is a PDF document.
	FileTypePDF FileType = "pdf"
)

// KnownFileTypes lists the categories in display order.
var KnownFileTypes = []FileType{FileTypeText, FileTypeImage, FileTypePDF}

// IsKnown returns true if the file type is one the client can render.
func (t FileType) IsKnown() bool {
	switch t {
	case FileTypeText, FileTypeImage, FileTypePDF:
		return true
	default:
		return false
	}
}

// String returns the wire representation.
func (t FileType) String() string {
	return string(t)
}

// Title returns the human-readable category title.
func (t FileType) Title() string {
	switch t {
	case FileTypeText:
		return "Text Files"
	case FileTypeImage:
		return "Images"
	case FileTypePDF:
		return "PDF Files"
	default:
		return strings.ToUpper(string(t))
	}
}

// DeleteFailedText is shown when the backend refuses a delete.
const DeleteFailedText = "Failed to delete document. Please try again."

// DeletePrompt formats the confirmation shown before a delete.
func DeletePrompt(filename string) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", filename)
}

// EmptyCategoryText is shown for a category with no documents.
func EmptyCategoryText(t FileType) string {
	return fmt.Sprintf("No %s files uploaded yet", t)
}

// Document represents a file stored by the backend.
// It is immutable once returned by the backend.
type Document struct {
	// ID is the opaque identifier assigned by the backend.
	ID string `json:"id"`

	// Filename is the original name of the uploaded file.
	Filename string `json:"filename"`

	// FileType is the category the document belongs to.
	FileType FileType `json:"file_type"`

	// FileSize is the size of the stored file in bytes.
	FileSize int64 `json:"file_size"`

	// UploadDate is when the backend accepted the file.
	UploadDate time.Time `json:"upload_date"`

	// Metadata contains backend-supplied key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// uploadDateLayouts are tried in order. Timestamps without a zone are UTC.
var uploadDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON accepts upload dates with or without a zone offset.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var raw struct {
		plain
		UploadDate string `json:"upload_date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Document(raw.plain)
	if raw.UploadDate == "" {
		return nil
	}
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, raw.UploadDate); err == nil {
			d.UploadDate = t
			return nil
		}
	}
	return fmt.Errorf("parse upload_date %q: unrecognised format", raw.UploadDate)
}

// CategoryIndex is the document inventory partitioned by file type.
//
// Every document appears in exactly one category, keyed by its own
// FileType, and no id appears twice. The zero value is an empty index.
type CategoryIndex struct {
	categories map[FileType][]Document
}

// NewCategoryIndex builds an index from a category payload.
// Documents filed under a key that differs from their FileType are
// re-filed under their own type, documents without a type take their
// key, and a repeated id keeps its first occurrence.
// Categories are visited in display order so the result is deterministic.
func NewCategoryIndex(raw map[FileType][]Document) CategoryIndex {
	idx := CategoryIndex{categories: make(map[FileType][]Document)}
	seen := make(map[string]bool)

	for _, key := range orderedKeys(raw) {
		for _, doc := range raw[key] {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			if doc.FileType == "" {
				doc.FileType = key
			}
			idx.categories[doc.FileType] = append(idx.categories[doc.FileType], doc)
		}
	}

	return idx
}

// Get returns the documents in a category. Absent categories are empty.
func (c CategoryIndex) Get(t FileType) []Document {
	return c.categories[t]
}

// Categories returns the known categories in display order followed by
// any other non-empty category, sorted by name.
func (c CategoryIndex) Categories() []FileType {
	out := make([]FileType, 0, len(KnownFileTypes)+len(c.categories))
	out = append(out, KnownFileTypes...)

	var extra []FileType
	for t := range c.categories {
		if !t.IsKnown() {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(out, extra...)
}

// Total returns the number of documents across all categories.
func (c CategoryIndex) Total() int {
	n := 0
	for _, docs := range c.categories {
		n += len(docs)
	}
	return n
}

// Find returns the document with the given id.
func (c CategoryIndex) Find(id string) (Document, bool) {
	for _, docs := range c.categories {
		for _, doc := range docs {
			if doc.ID == id {
				return doc, true
			}
		}
	}
	return Document{}, false
}

// All returns every document in display order.
func (c CategoryIndex) All() []Document {
	out := make([]Document, 0, c.Total())
	for _, t := range c.Categories() {
		out = append(out, c.categories[t]...)
	}
	return out
}

// Clone returns a copy that shares no slices with the receiver.
func (c CategoryIndex) Clone() CategoryIndex {
	out := CategoryIndex{categories: make(map[FileType][]Document, len(c.categories))}
	for t, docs := range c.categories {
		out.categories[t] = append([]Document(nil), docs...)
	}
	return out
}

func orderedKeys(raw map[FileType][]Document) []FileType {
	keys := make([]FileType, 0, len(raw))
	for _, t := range KnownFileTypes {
		if _, ok := raw[t]; ok {
			keys = append(keys, t)
		}
	}

	var extra []FileType
	for t := range raw {
		if !t.IsKnown() {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(keys, extra...)
}
