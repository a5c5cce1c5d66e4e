package main

import (
	"comment-archiver-go/internal/api"
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/crawler"
	"comment-archiver-go/internal/logger"
	"comment-archiver-go/internal/platform"
	"comment-archiver-go/internal/platform/youtube"
	"comment-archiver-go/internal/store"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath   string
	out          string
	inline       bool
	embedAvatars bool
	apiMode      bool
	apiAddr      string
	inputs       []string
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("comment-archiver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", ".", "directory holding config.yaml and .env")
	fs.StringVar(&o.out, "o", "", "output file (one url) or directory (several urls); stdout when empty")
	fs.BoolVar(&o.inline, "inline", false, "save the page itself with stylesheets and scripts inlined")
	fs.BoolVar(&o.embedAvatars, "embed-avatars", false, "embed avatar images as data URIs")
	fs.BoolVar(&o.apiMode, "api", false, "start the api server")
	fs.StringVar(&o.apiAddr, "addr", ":8080", "api server address")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: comment-archiver [flags] <url>...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, fs, err
	}
	o.inputs = fs.Args()
	return o, fs, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := config.LoadConfig(o.configPath); err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if o.embedAvatars {
		config.AppConfig.EmbedAvatars = true
	}
	if o.inline {
		config.AppConfig.CrawlerType = string(crawler.ModeInline)
	}
	if stderr == os.Stderr {
		logger.InitFromConfig()
	} else {
		logger.InitWithWriter(stderr)
	}

	if err := store.Init(ctx); err != nil {
		logger.Error("store init failed", "backend", config.AppConfig.StoreBackend, "err", err)
		return 1
	}

	if o.apiMode {
		return serveAPI(ctx, o.apiAddr)
	}

	req := crawler.RequestFromConfig(config.AppConfig)
	if len(o.inputs) > 0 {
		req.Inputs = o.inputs
	}
	if len(req.Inputs) == 0 {
		fs.Usage()
		return 1
	}

	if len(o.inputs) == 1 {
		return archiveOne(ctx, req.Mode, o.inputs[0], o.out, stdout)
	}

	if o.out != "" {
		req.OutputDir = o.out
	}
	r, err := platform.New(req.Platform)
	if err != nil {
		logger.Error("crawler init failed", "err", err)
		return 1
	}
	res, err := r.Run(ctx, req)
	if err != nil {
		logger.Error("run failed", "err", err, "error_kind", crawler.KindOf(err), "processed", res.Processed, "failed", res.Failed)
		return 1
	}
	logger.Info("run finished", "platform", res.Platform, "mode", res.Mode, "processed", res.Processed, "succeeded", res.Succeeded, "failed", res.Failed, "failure_kinds", res.FailureKinds)
	if res.Failed > 0 && res.Succeeded == 0 {
		return 1
	}
	return 0
}

func archiveOne(ctx context.Context, mode crawler.Mode, input, out string, stdout io.Writer) int {
	c := youtube.NewCrawler()
	var doc string
	var err error
	if mode == crawler.ModeInline {
		doc, err = c.Inline(ctx, input)
	} else {
		var a youtube.Archive
		a, err = c.Archive(ctx, input)
		doc = a.HTML
	}
	if err != nil {
		logger.Error("archive failed", "input", input, "err", err, "error_kind", crawler.KindOf(err))
		return 1
	}

	if strings.TrimSpace(out) == "" {
		if _, err := io.WriteString(stdout, doc); err != nil {
			logger.Error("write stdout failed", "err", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(out, []byte(doc), 0644); err != nil {
		logger.Error("write output failed", "path", out, "err", err)
		return 1
	}
	logger.Info("wrote archive", "path", out, "bytes", len(doc))
	return 0
}

func serveAPI(ctx context.Context, addr string) int {
	srv := &http.Server{Addr: addr, Handler: api.NewServer(nil).Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting api server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		logger.Error("api server failed", "err", err)
		return 1
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", "err", err)
		return 1
	}
	logger.Info("api server stopped")
	return 0
}
