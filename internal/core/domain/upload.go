package domain

import (
	"path/filepath"
	"strings"
)

// UploadExtensions is the allow-list offered by file pickers.
// The backend remains the authority on what it accepts.
var UploadExtensions = []string{".txt", ".pdf", ".jpg", ".jpeg", ".png"}

// UploadFailedText is shown when a batch is rejected.
const UploadFailedText = "Upload failed. Please try again."

// FileHandle is a local file staged for upload.
type FileHandle struct {
	// Name is the file name sent to the backend.
	Name string

	// Size is the length of Data in bytes.
	Size int64

	// Data is the raw file content.
	Data []byte
}

// NewFileHandle creates a handle from a name and its content.
func NewFileHandle(name string, data []byte) FileHandle {
	return FileHandle{
		Name: filepath.Base(name),
		Size: int64(len(data)),
		Data: data,
	}
}

// IsAllowedUpload reports whether a file name matches the allow-list.
func IsAllowedUpload(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range UploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FileTypeForName guesses the category the backend will file a name under.
func FileTypeForName(name string) FileType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FileTypeText
	case ".pdf":
		return FileTypePDF
	case ".jpg", ".jpeg", ".png":
		return FileTypeImage
	default:
		return FileType(strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."))
	}
}
