package crawler

import (
	"context"
	"strings"
	"time"
)

type Mode string

const (
	// ModeComments archives the comment section of each input into a static page.
	ModeComments Mode = "comments"
	// ModeInline fetches each input page and inlines its stylesheets and scripts.
	ModeInline Mode = "inline"
)

func NormalizeMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inline", "inliner", "resources":
		return ModeInline
	default:
		return ModeComments
	}
}

type Request struct {
	Platform string
	Mode     Mode

	Inputs    []string
	OutputDir string

	Concurrency int
}

type Result struct {
	Platform     string         `json:"platform,omitempty"`
	Mode         string         `json:"mode,omitempty"`
	StartedAt    int64          `json:"started_at,omitempty"`
	FinishedAt   int64          `json:"finished_at,omitempty"`
	Processed    int            `json:"processed,omitempty"`
	Succeeded    int            `json:"succeeded,omitempty"`
	Failed       int            `json:"failed,omitempty"`
	FailureKinds map[string]int `json:"failure_kinds,omitempty"`
}

func NewResult(req Request) Result {
	return Result{
		Platform:  req.Platform,
		Mode:      string(req.Mode),
		StartedAt: time.Now().Unix(),
	}
}

func (r *Result) Merge(item ItemResult) {
	r.Processed += item.Processed
	r.Succeeded += item.Succeeded
	r.Failed += item.Failed
	r.FailureKinds = MergeFailureKinds(r.FailureKinds, item.FailureKinds)
}

type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}
