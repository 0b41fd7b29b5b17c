package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestServeHandlerIndex(t *testing.T) {
	handler := newServeHandler(t.TempDir())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("index page should not be empty")
	}
}

func TestServeHandlerHealthz(t *testing.T) {
	handler := newServeHandler(t.TempDir())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("GET /healthz body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestServeHandlerMedia(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "rain.gif", []byte("GIF89a"))

	handler := newServeHandler(dir)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/rain.gif", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /media/rain.gif status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "GIF89a" {
		t.Errorf("media body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/missing.gif", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /media/missing.gif status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeHandlerArtifactListing(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "rain.gif", []byte("GIF89a"))
	writeTestFile(t, dir, "rain.mp4", []byte("0000ftyp"))
	writeTestFile(t, dir, "notes.txt", []byte("ignored"))

	handler := newServeHandler(dir)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artifacts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/artifacts status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []artifact
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listing has %d entries, want 2", len(got))
	}
	names := map[string]bool{}
	for _, a := range got {
		names[a.Name] = true
		if a.Size == 0 || a.SizeHuman == "" || a.Modified == "" {
			t.Errorf("artifact %q missing metadata: %+v", a.Name, a)
		}
	}
	if !names["rain.gif"] || !names["rain.mp4"] {
		t.Errorf("listing names = %v", names)
	}
	if names["notes.txt"] {
		t.Error("non-media file should not be listed")
	}
}

func TestListArtifactsEmptyDir(t *testing.T) {
	got, err := listArtifacts(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("empty dir listing = %v", got)
	}
}
