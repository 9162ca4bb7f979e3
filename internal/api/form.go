package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Form is a multipart/form-data payload, used for file uploads.
// The body is rebuilt on every send so a request can be retried.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	path     string
	data     []byte
}

// NewForm creates an empty multipart payload
func NewForm() *Form {
	return &Form{}
}

// AddField adds a text field
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile adds a file read from path when the request is sent
func (f *Form) AddFile(field, path string) *Form {
	f.files = append(f.files, formFile{field: field, filename: filepath.Base(path), path: path})
	return f
}

// AddBytes adds an in-memory file
func (f *Form) AddBytes(field, filename string, data []byte) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, data: data})
	return f
}

// encode writes the form and returns the body with its content type,
// which carries the multipart boundary
func (f *Form) encode() (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write %s field: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if err := file.copyTo(part); err != nil {
			return nil, "", err
		}
	}

	// Close the writer to finalize the multipart form
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func (f formFile) copyTo(w io.Writer) error {
	if f.path == "" {
		_, err := w.Write(f.data)
		return err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return nil
}
