// Package api serves archives over HTTP: a synchronous archive endpoint, a
// background batch task, stored files, and log/status streams.
package api

import (
	"comment-archiver-go/internal/cache"
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/platform/youtube"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Archiver builds one archive document; youtube.Crawler implements it.
type Archiver interface {
	Archive(ctx context.Context, pageURL string) (youtube.Archive, error)
}

type Server struct {
	manager  *TaskManager
	mux      *http.ServeMux
	cache    cache.Cache
	archiver Archiver
}

func NewServer(manager *TaskManager) *Server {
	return NewServerWithArchiver(manager, nil)
}

func NewServerWithArchiver(manager *TaskManager, a Archiver) *Server {
	if manager == nil {
		manager = NewTaskManager()
	}
	if a == nil {
		a = youtube.NewCrawler()
	}
	s := &Server{
		manager:  manager,
		mux:      http.NewServeMux(),
		cache:    cache.NewFromConfig(config.AppConfig),
		archiver: a,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /api/archive", s.handleArchive)
	s.mux.HandleFunc("POST /api/tasks", s.handleRun)
	s.mux.HandleFunc("POST /api/tasks/stop", s.handleStop)
	s.mux.HandleFunc("GET /api/tasks/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/logs", s.handleLogs)
	s.mux.HandleFunc("GET /api/files", s.handleFilesList)
	s.mux.HandleFunc("GET /api/files/{path...}", s.handleFileDownload)
	s.mux.HandleFunc("GET /ws/logs", s.handleWSLogs)
	s.mux.HandleFunc("GET /ws/status", s.handleWSStatus)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleArchive runs the archive pipeline inline and returns the document.
// Documents are cached per input for the cache's default TTL.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	in := strings.TrimSpace(r.URL.Query().Get("url"))
	if in == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing url"})
		return
	}
	key := "archive:" + in
	fresh := r.URL.Query().Get("fresh") == "1"
	if s.cache != nil && !fresh {
		if b, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
			writeHTML(w, http.StatusOK, b)
			return
		}
	}

	a, err := s.archiver.Archive(r.Context(), in)
	if err != nil {
		writeJSON(w, archiveErrorStatus(err), map[string]any{"error": err.Error(), "kind": crawler.KindOf(err)})
		return
	}
	if s.cache != nil {
		_ = s.cache.Set(r.Context(), key, []byte(a.HTML), cache.DefaultTTL(config.AppConfig))
	}
	w.Header().Set("x-archive-id", a.ID)
	writeHTML(w, http.StatusOK, []byte(a.HTML))
}

func archiveErrorStatus(err error) int {
	switch crawler.KindOf(err) {
	case crawler.ErrorKindInvalidInput:
		return http.StatusBadRequest
	case crawler.ErrorKindCanceled, crawler.ErrorKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.Status())
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	if err := s.manager.Run(req); err != nil {
		if errors.Is(err, ErrTaskRunning) {
			writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
			return
		}
		var ve ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, s.manager.Status())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	stopped := s.manager.Stop()
	writeJSON(w, http.StatusAccepted, map[string]any{"stopped": stopped})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func nowUnix() int64 {
	return time.Now().Unix()
}
