package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
)

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.Copy(fw, strings.NewReader(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	_, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	return header
}

func testStore(t *testing.T, maxSize int64) *Store {
	t.Helper()
	store, err := New(t.TempDir(), "http://localhost:8080", maxSize, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return store
}

func TestSave_RejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	store := testStore(t, 1024)
	header := fileHeader(t, "report.pdf", "not an image")

	if _, err := store.Save(context.Background(), "user-1", header); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestSave_RejectsEmptyFile(t *testing.T) {
	t.Parallel()

	store := testStore(t, 1024)
	header := fileHeader(t, "empty.png", "")

	if _, err := store.Save(context.Background(), "user-1", header); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	t.Parallel()

	store := testStore(t, 8)
	header := fileHeader(t, "big.png", strings.Repeat("x", 64))

	if _, err := store.Save(context.Background(), "user-1", header); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestSave_DeclaredOversizeRejected(t *testing.T) {
	t.Parallel()

	store := testStore(t, 4)
	header := fileHeader(t, "big.jpg", "more than four")

	if _, err := store.Save(context.Background(), "user-1", header); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}
