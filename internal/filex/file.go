// Package filex contains small filesystem helpers used by the client:
// data-directory setup and attachment loading for message submissions.
package filex

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// MaxAttachmentSize caps the size of a file attached to a message. Larger
// files are rejected before any network traffic happens.
const MaxAttachmentSize = 10 << 20 // 10 MiB

// Attachment is a file read from disk, ready to be carried in a multipart
// message submission.
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

// EnsureSubDir creates (if needed) and returns a subdirectory of the current
// working directory.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadAttachment loads path and determines its mime type, first from the
// file extension and then by sniffing content. Files above
// MaxAttachmentSize are rejected.
func ReadAttachment(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment %s exceeds %d bytes", path, MaxAttachmentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &Attachment{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Data:     data,
	}, nil
}
