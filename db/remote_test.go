package db

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectScheme(t *testing.T) {
	tests := []struct {
		path     string
		expected urlScheme
	}{
		{"s3://bucket/key", schemeS3},
		{"S3://bucket/key", schemeS3},
		{"https://example.com/a.sql", schemeHTTPS},
		{"http://example.com/a.sql", schemeHTTP},
		{"file:///tmp/a.sql", schemeFile},
		{"/tmp/a.sql", schemeLocal},
		{"a.sql", schemeLocal},
	}

	for _, test := range tests {
		if actual := detectScheme(test.path); actual != test.expected {
			t.Errorf("detectScheme(%q) = %s, expected %s", test.path, actual, test.expected)
		}
	}
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://my-bucket/path/to/file.sql")
	if err != nil {
		t.Fatalf("Failed to parse S3 URL: %v", err)
	}
	if bucket != "my-bucket" || key != "path/to/file.sql" {
		t.Errorf("Expected my-bucket and path/to/file.sql, got %s and %s", bucket, key)
	}

	for _, invalid := range []string{"s3://bucket", "s3://bucket/", "s3:///key"} {
		if _, _, err := parseS3URL(invalid); err == nil {
			t.Errorf("Expected error for %q", invalid)
		}
	}
}

func TestOpenSourceLocalAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.sql")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	for _, source := range []string{path, "file://" + path} {
		reader, err := OpenSource(context.Background(), source, nil)
		if err != nil {
			t.Fatalf("Failed to open %s: %v", source, err)
		}
		data, _ := io.ReadAll(reader)
		reader.Close()
		if string(data) != "content" {
			t.Errorf("Expected content from %s, got %q", source, data)
		}
	}
}

func TestOpenSourceHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer server.Close()

	reader, err := OpenSource(context.Background(), server.URL+"/script.sql", nil)
	if err != nil {
		t.Fatalf("Failed to open HTTP source: %v", err)
	}
	data, _ := io.ReadAll(reader)
	reader.Close()
	if string(data) != "remote" {
		t.Errorf("Expected remote, got %q", data)
	}

	if _, err := OpenSource(context.Background(), server.URL+"/missing", nil); err == nil {
		t.Error("Expected error for 404 response")
	}
}

func TestOpenSinkRejectsHTTP(t *testing.T) {
	if _, err := OpenSink(context.Background(), "https://example.com/out.jsonl", nil); err == nil {
		t.Error("Expected error writing to HTTPS")
	}
}

func TestOpenSinkUsesCreateHook(t *testing.T) {
	original := osCreate
	defer func() { osCreate = original }()

	var created string
	osCreate = func(path string) (io.WriteCloser, error) {
		created = path
		return nopWriteCloser{io.Discard}, nil
	}

	writer, err := OpenSink(context.Background(), "file:///tmp/out.jsonl", nil)
	if err != nil {
		t.Fatalf("Failed to open sink: %v", err)
	}
	writer.Close()

	if created != "/tmp/out.jsonl" {
		t.Errorf("Expected /tmp/out.jsonl, got %s", created)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
