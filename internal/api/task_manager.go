package api

import (
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/platform"
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrTaskRunning = errors.New("task is running")

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

type Status struct {
	State      string          `json:"state"`
	Platform   string          `json:"platform,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	Inputs     int             `json:"inputs,omitempty"`
	StartedAt  int64           `json:"started_at,omitempty"`
	FinishedAt int64           `json:"finished_at,omitempty"`
	LastError  string          `json:"last_error,omitempty"`
	Result     *crawler.Result `json:"result,omitempty"`
}

// RunRequest starts a batch run. URL and URLs are merged; when both are
// empty the configured video list is used.
type RunRequest struct {
	URL       string   `json:"url,omitempty"`
	URLs      []string `json:"urls,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
}

type RunFunc func(ctx context.Context, req crawler.Request) (crawler.Result, error)

// TaskManager runs at most one batch at a time in the background.
type TaskManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	status Status
	runFn  RunFunc
}

func NewTaskManager() *TaskManager {
	return NewTaskManagerWithRunner(runCrawler)
}

func NewTaskManagerWithRunner(runFn RunFunc) *TaskManager {
	if runFn == nil {
		runFn = runCrawler
	}
	return &TaskManager{status: Status{State: "idle"}, runFn: runFn}
}

func (m *TaskManager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *TaskManager) Run(req RunRequest) error {
	creq, err := buildRequest(req)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return ErrTaskRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.status = Status{
		State:     "running",
		Platform:  creq.Platform,
		Mode:      string(creq.Mode),
		Inputs:    len(creq.Inputs),
		StartedAt: nowUnix(),
	}
	m.mu.Unlock()

	go func() {
		res, err := m.runFn(ctx, creq)
		m.mu.Lock()
		defer m.mu.Unlock()
		m.cancel = nil
		m.status.State = "idle"
		m.status.FinishedAt = nowUnix()
		m.status.Result = &res
		if err != nil {
			m.status.LastError = err.Error()
		} else {
			m.status.LastError = ""
		}
	}()
	return nil
}

func (m *TaskManager) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel == nil {
		return false
	}
	m.cancel()
	m.status.State = "stopping"
	return true
}

func buildRequest(req RunRequest) (crawler.Request, error) {
	out := crawler.RequestFromConfig(config.AppConfig)
	if out.Platform == "" {
		out.Platform = "youtube"
	}
	if name, ok := platform.Canonical(out.Platform); ok {
		out.Platform = name
	} else {
		return crawler.Request{}, ValidationError{Msg: "unknown platform: " + out.Platform}
	}

	var inputs []string
	for _, v := range append([]string{req.URL}, req.URLs...) {
		if v = strings.TrimSpace(v); v != "" {
			inputs = append(inputs, v)
		}
	}
	if len(inputs) > 0 {
		out.Inputs = inputs
	}
	if len(out.Inputs) == 0 {
		return crawler.Request{}, ValidationError{Msg: "url is required"}
	}

	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "":
	case string(crawler.ModeComments), string(crawler.ModeInline):
		out.Mode = crawler.NormalizeMode(req.Mode)
	default:
		return crawler.Request{}, ValidationError{Msg: "unknown mode: " + req.Mode}
	}
	if v := strings.TrimSpace(req.OutputDir); v != "" {
		out.OutputDir = v
	}
	return out, nil
}

func runCrawler(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	r, err := platform.New(req.Platform)
	if err != nil {
		return crawler.Result{}, err
	}
	return r.Run(ctx, req)
}
