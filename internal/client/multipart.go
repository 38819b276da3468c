package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// File is a binary attachment of a multipart body.
type File struct {
	Name        string // file name sent to the server, e.g. "trillium.jpg"
	ContentType string // defaults to application/octet-stream
	Data        []byte
}

// OpenFile reads path into a File.
func OpenFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("client: reading attachment: %w", err)
	}
	return &File{
		Name:        filepath.Base(path),
		ContentType: contentTypeFor(path),
		Data:        data,
	}, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// encodeMultipart writes fields in key order so bodies are reproducible.
//
// Accepted value types:
//
//	nil              → skipped (a FormData never carries null)
//	string           → one text part
//	bool, int, float → one text part with the formatted value
//	[]string         → one text part per element, same name
//	*File, File      → one file part (nil *File is skipped)
//	fmt.Stringer     → one text part
func encodeMultipart(fields map[string]any) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := writePart(w, key, fields[key]); err != nil {
			return nil, "", fmt.Errorf("field %q: %w", key, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, key string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case *File:
		if v == nil {
			return nil
		}
		return writeFile(w, key, v)
	case File:
		return writeFile(w, key, &v)
	case string:
		return w.WriteField(key, v)
	case bool:
		return w.WriteField(key, strconv.FormatBool(v))
	case int:
		return w.WriteField(key, strconv.Itoa(v))
	case float64:
		return w.WriteField(key, strconv.FormatFloat(v, 'f', -1, 64))
	case []string:
		for _, s := range v {
			if err := w.WriteField(key, s); err != nil {
				return err
			}
		}
		return nil
	case fmt.Stringer:
		return w.WriteField(key, v.String())
	}
	return fmt.Errorf("unsupported multipart value type %T", value)
}

func writeFile(w *multipart.Writer, key string, f *File) error {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, key, f.Name))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Data)
	return err
}
