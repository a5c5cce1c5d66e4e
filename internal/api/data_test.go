package api

import (
	"comment-archiver-go/internal/config"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesListAndDownload(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	outDir := filepath.Join(dataDir, "archives")
	config.AppConfig = config.Config{DataDir: dataDir, OutputDir: outDir, CacheBackend: "none"}

	videoDir := filepath.Join(dataDir, "youtube", "videos", "dQw4w9WgXcQ")
	for _, d := range []string{videoDir, outDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	files := map[string]string{
		filepath.Join(videoDir, "comments.jsonl"): "{\"comment_id\":\"c1\"}\n{\"comment_id\":\"c2\"}\n",
		filepath.Join(videoDir, "comments.csv"):   "\uFEFFa,b\n1,2\n3,4\n",
		filepath.Join(videoDir, "comments.idx"):   "c1\nc2\n",
		filepath.Join(outDir, "dQw4w9WgXcQ.html"): "<html>doc</html>",
	}
	for p, c := range files {
		if err := os.WriteFile(p, []byte(c), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	srv := NewServerWithArchiver(NewTaskManagerWithRunner(noopRun), &fakeArchiver{})

	w := serve(srv, http.MethodGet, "/api/files", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Files []fileInfo `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	byPath := map[string]fileInfo{}
	for _, f := range resp.Files {
		byPath[f.Path] = f
	}
	if len(resp.Files) != 3 {
		t.Fatalf("files = %#v", resp.Files)
	}
	if f, ok := byPath["archives/dQw4w9WgXcQ.html"]; !ok || f.Type != "html" {
		t.Fatalf("archive missing: %#v", byPath)
	}
	if f := byPath["data/youtube/videos/dQw4w9WgXcQ/comments.jsonl"]; f.RecordCount == nil || *f.RecordCount != 2 {
		t.Fatalf("jsonl = %#v", f)
	}
	if f := byPath["data/youtube/videos/dQw4w9WgXcQ/comments.csv"]; f.RecordCount == nil || *f.RecordCount != 2 {
		t.Fatalf("csv = %#v", f)
	}

	w = serve(srv, http.MethodGet, "/api/files?file_type=html", nil)
	if strings.Count(w.Body.String(), `"name"`) != 1 {
		t.Fatalf("filtered list = %s", w.Body.String())
	}

	w = serve(srv, http.MethodGet, "/api/files/archives/dQw4w9WgXcQ.html", nil)
	if w.Code != http.StatusOK || w.Body.String() != "<html>doc</html>" {
		t.Fatalf("download code=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("content-type"), "text/html") {
		t.Fatalf("content-type = %q", w.Header().Get("content-type"))
	}

	w = serve(srv, http.MethodGet, "/api/files/data/youtube/videos/dQw4w9WgXcQ/comments.csv", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("content-disposition"), "attachment") {
		t.Fatalf("csv download code=%d headers=%v", w.Code, w.Header())
	}

	if w := serve(srv, http.MethodGet, "/api/files/nope/x.html", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown root code=%d", w.Code)
	}
	if w := serve(srv, http.MethodGet, "/api/files/archives/missing.html", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing file code=%d", w.Code)
	}
}

func TestSafePath(t *testing.T) {
	base := t.TempDir()
	for _, rel := range []string{"../etc/passwd", "a/../../x", "", ".", "/", "a\x00b"} {
		if _, err := safePath(base, rel); err == nil {
			t.Fatalf("safePath(%q) should fail", rel)
		}
	}
	got, err := safePath(base, "a/b.html")
	if err != nil || got != filepath.Join(base, "a", "b.html") {
		t.Fatalf("safePath = %q, %v", got, err)
	}
}
