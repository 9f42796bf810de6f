package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"
)

// FormData is a multipart body. When it is used as a request body the default
// JSON content type is dropped and the multipart boundary header is set
// instead.
type FormData struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	content         io.Reader
}

// NewFormData creates an empty multipart body.
func NewFormData() *FormData {
	return &FormData{}
}

// Set adds a plain field.
func (f *FormData) Set(name, value string) *FormData {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// File adds a file part read from r.
func (f *FormData) File(field, filename string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, content: r})
	return f
}

func (f *FormData) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", fld.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", fmt.Errorf("copy form file %s: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// encodedBody is a serialized request body.
type encodedBody struct {
	reader io.Reader
	// multipartType replaces the default content type when set.
	multipartType string
}

// encodeBody serializes body. Strings, byte slices, readers and url.Values
// pass through untouched; FormData becomes multipart; anything else is JSON.
func encodeBody(body any) (*encodedBody, error) {
	switch b := body.(type) {
	case nil:
		return &encodedBody{}, nil
	case string:
		return &encodedBody{reader: strings.NewReader(b)}, nil
	case []byte:
		return &encodedBody{reader: bytes.NewReader(b)}, nil
	case url.Values:
		return &encodedBody{reader: strings.NewReader(b.Encode())}, nil
	case *FormData:
		if b == nil {
			return &encodedBody{}, nil
		}
		r, ct, err := b.encode()
		if err != nil {
			return nil, err
		}
		return &encodedBody{reader: r, multipartType: ct}, nil
	case io.Reader:
		return &encodedBody{reader: b}, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		return &encodedBody{reader: bytes.NewReader(data)}, nil
	}
}
