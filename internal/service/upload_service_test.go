package service

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk/internal/config"
)

func multipartFile(t *testing.T, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload.bin"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("form has %d files, want 1", len(files))
	}
	return files[0]
}

func newUploadFixture(t *testing.T, maxBytes int64) *UploadService {
	t.Helper()
	svc, err := NewUploadService(config.UploadConfig{Dir: t.TempDir(), MaxSizeBytes: maxBytes}, nil)
	if err != nil {
		t.Fatalf("NewUploadService: %v", err)
	}
	return svc
}

func TestStoreAcceptsAllowedTypes(t *testing.T) {
	svc := newUploadFixture(t, 1<<20)

	cases := []struct {
		contentType string
		wantExt     string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"application/pdf", ".pdf"},
	}
	for _, tt := range cases {
		file := multipartFile(t, tt.contentType, []byte("payload"))
		url, err := svc.Store(file)
		if err != nil {
			t.Fatalf("Store(%s): %v", tt.contentType, err)
		}
		if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, tt.wantExt) {
			t.Fatalf("Store(%s) returned %q, want /uploads/*%s", tt.contentType, url, tt.wantExt)
		}
		onDisk := filepath.Join(svc.Dir(), strings.TrimPrefix(url, "/uploads/"))
		data, err := os.ReadFile(onDisk)
		if err != nil {
			t.Fatalf("stored file missing: %v", err)
		}
		if string(data) != "payload" {
			t.Fatalf("stored content %q", data)
		}
	}
}

func TestStoreRejectsDisallowedType(t *testing.T) {
	svc := newUploadFixture(t, 1<<20)

	for _, contentType := range []string{"text/html", "application/zip", "image/gif", ""} {
		file := multipartFile(t, contentType, []byte("x"))
		if _, err := svc.Store(file); !isCode(err, "VALIDATION_FAILED") {
			t.Fatalf("Store(%q) got %v, want VALIDATION_FAILED", contentType, err)
		}
	}

	entries, err := os.ReadDir(svc.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected uploads left %d files behind", len(entries))
	}
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	svc := newUploadFixture(t, 8)

	file := multipartFile(t, "image/png", bytes.Repeat([]byte("a"), 9))
	if _, err := svc.Store(file); !isCode(err, "VALIDATION_FAILED") {
		t.Fatalf("oversized Store got %v, want VALIDATION_FAILED", err)
	}
}

func TestStoreNilFile(t *testing.T) {
	svc := newUploadFixture(t, 1<<20)
	if _, err := svc.Store(nil); !isCode(err, "VALIDATION_FAILED") {
		t.Fatalf("nil file got %v, want VALIDATION_FAILED", err)
	}
}
