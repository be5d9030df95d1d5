package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// FormPayload is a multipart/form-data request body: plain fields plus
// optional file parts. Message submissions with attachments use this shape.
type FormPayload struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is one file part of a multipart submission.
type FormFile struct {
	FieldName string
	FileName  string
	MimeType  string
	Data      []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode writes the payload through a multipart writer and returns the
// content type (with boundary) and the encoded body. Fields are written in
// sorted order so the encoding is deterministic.
func (p *FormPayload) encode() (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, p.Fields[name]); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
		if f.MimeType != "" {
			h.Set("Content-Type", f.MimeType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, fmt.Errorf("create part %s: %w", f.FieldName, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return "", nil, fmt.Errorf("write part %s: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}

	return w.FormDataContentType(), buf.Bytes(), nil
}
