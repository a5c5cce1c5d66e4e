package api

import (
	"bytes"
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/logger"
	"comment-archiver-go/internal/platform/youtube"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeArchiver struct {
	calls atomic.Int32
	html  string
	err   error
}

func (f *fakeArchiver) Archive(ctx context.Context, pageURL string) (youtube.Archive, error) {
	f.calls.Add(1)
	if f.err != nil {
		return youtube.Archive{}, f.err
	}
	return youtube.Archive{ID: "id-1", URL: pageURL, HTML: f.html}, nil
}

func noopRun(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	return crawler.Result{}, nil
}

func serve(srv *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestServerRunStopStatus(t *testing.T) {
	config.AppConfig = config.Config{CacheBackend: "none"}
	started := make(chan crawler.Request, 1)
	runFn := func(ctx context.Context, req crawler.Request) (crawler.Result, error) {
		started <- req
		<-ctx.Done()
		return crawler.Result{Processed: 1, Failed: 1}, ctx.Err()
	}

	srv := NewServerWithArchiver(NewTaskManagerWithRunner(runFn), &fakeArchiver{})

	if w := serve(srv, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz code=%d body=%s", w.Code, w.Body.String())
	}

	body, _ := json.Marshal(RunRequest{URL: "dQw4w9WgXcQ", Mode: "inline"})
	if w := serve(srv, http.MethodPost, "/api/tasks", body); w.Code != http.StatusAccepted {
		t.Fatalf("run code=%d body=%s", w.Code, w.Body.String())
	}

	var req crawler.Request
	select {
	case req = <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not start")
	}
	if req.Platform != "youtube" || req.Mode != crawler.ModeInline || len(req.Inputs) != 1 {
		t.Fatalf("request = %#v", req)
	}

	if w := serve(srv, http.MethodPost, "/api/tasks", body); w.Code != http.StatusConflict {
		t.Fatalf("second run code=%d body=%s", w.Code, w.Body.String())
	}

	w := serve(srv, http.MethodGet, "/api/tasks/status", nil)
	var st Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil || st.State != "running" {
		t.Fatalf("status = %s", w.Body.String())
	}

	if w := serve(srv, http.MethodPost, "/api/tasks/stop", nil); w.Code != http.StatusAccepted {
		t.Fatalf("stop code=%d body=%s", w.Code, w.Body.String())
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st = srv.manager.Status()
		if st.State == "idle" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if st.State != "idle" || st.Result == nil || st.Result.Failed != 1 || st.LastError == "" {
		t.Fatalf("final status = %#v", st)
	}
}

func TestServerRunValidation(t *testing.T) {
	config.AppConfig = config.Config{CacheBackend: "none"}
	srv := NewServerWithArchiver(NewTaskManagerWithRunner(noopRun), &fakeArchiver{})

	tests := []struct {
		name string
		body string
	}{
		{"no urls", `{}`},
		{"blank url", `{"url":"  "}`},
		{"bad mode", `{"url":"dQw4w9WgXcQ","mode":"search"}`},
		{"unknown field", `{"keywords":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(srv, http.MethodPost, "/api/tasks", []byte(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got=%d body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestServerRunUsesConfiguredList(t *testing.T) {
	config.AppConfig = config.Config{CacheBackend: "none", VideoURLs: []string{"a1,a2", "a3"}, OutputDir: "out"}
	var mu sync.Mutex
	var got crawler.Request
	done := make(chan struct{})
	runFn := func(ctx context.Context, req crawler.Request) (crawler.Result, error) {
		mu.Lock()
		got = req
		mu.Unlock()
		close(done)
		return crawler.Result{}, nil
	}
	srv := NewServerWithArchiver(NewTaskManagerWithRunner(runFn), &fakeArchiver{})
	if w := serve(srv, http.MethodPost, "/api/tasks", nil); w.Code != http.StatusAccepted {
		t.Fatalf("run code=%d body=%s", w.Code, w.Body.String())
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not start")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got.Inputs) != 3 || got.OutputDir != "out" || got.Mode != crawler.ModeComments {
		t.Fatalf("request = %#v", got)
	}
}

func TestServerArchive(t *testing.T) {
	config.AppConfig = config.Config{CacheBackend: "memory"}
	fa := &fakeArchiver{html: "<html>archived</html>"}
	srv := NewServerWithArchiver(NewTaskManagerWithRunner(noopRun), fa)

	if w := serve(srv, http.MethodGet, "/api/archive", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing url code=%d", w.Code)
	}

	for i := 0; i < 2; i++ {
		w := serve(srv, http.MethodGet, "/api/archive?url=dQw4w9WgXcQ", nil)
		if w.Code != http.StatusOK || w.Body.String() != "<html>archived</html>" {
			t.Fatalf("archive code=%d body=%s", w.Code, w.Body.String())
		}
		if !strings.HasPrefix(w.Header().Get("content-type"), "text/html") {
			t.Fatalf("content-type = %q", w.Header().Get("content-type"))
		}
	}
	if n := fa.calls.Load(); n != 1 {
		t.Fatalf("archiver calls = %d, want 1 (second served from cache)", n)
	}
	serve(srv, http.MethodGet, "/api/archive?url=dQw4w9WgXcQ&fresh=1", nil)
	if n := fa.calls.Load(); n != 2 {
		t.Fatalf("fresh should bypass the cache, calls = %d", n)
	}
}

func TestServerArchiveErrors(t *testing.T) {
	config.AppConfig = config.Config{CacheBackend: "none"}
	tests := []struct {
		err  error
		code int
	}{
		{crawler.Error{Kind: crawler.ErrorKindInvalidInput, Msg: "bad"}, http.StatusBadRequest},
		{crawler.NewHTTPStatusError("youtube", "u", 404, ""), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		srv := NewServerWithArchiver(NewTaskManagerWithRunner(noopRun), &fakeArchiver{err: tt.err})
		w := serve(srv, http.MethodGet, "/api/archive?url=x", nil)
		if w.Code != tt.code {
			t.Fatalf("err %v: code=%d want %d", tt.err, w.Code, tt.code)
		}
	}
}

func TestServerLogs(t *testing.T) {
	config.AppConfig = config.Config{CacheBackend: "none", LogLevel: "debug", LogFormat: "json"}
	logger.InitWithWriter(&bytes.Buffer{})
	logger.Info("server_logs_marker")

	srv := NewServerWithArchiver(NewTaskManagerWithRunner(noopRun), &fakeArchiver{})
	w := serve(srv, http.MethodGet, "/api/logs?limit=5", nil)
	var resp struct {
		Logs []logger.Event `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v body=%s", err, w.Body.String())
	}
	if len(resp.Logs) == 0 || len(resp.Logs) > 5 || resp.Logs[len(resp.Logs)-1].Msg != "server_logs_marker" {
		t.Fatalf("logs = %#v", resp.Logs)
	}
}
