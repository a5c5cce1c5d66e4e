package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "usage: comment-archiver") {
		t.Fatalf("usage missing: %s", stderr.String())
	}
}

func TestRunWithoutInputs(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", t.TempDir()}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "usage: comment-archiver") {
		t.Fatalf("usage missing: %s", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should stay empty: %q", stdout.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-nope"}, &stdout, &stderr); code == 0 {
		t.Fatalf("expected failure")
	}
}

func TestRunBadConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("PLATFORM: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-config", dir, "dQw4w9WgXcQ"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "failed to load config") {
		t.Fatalf("stderr = %s", stderr.String())
	}
}

func TestParseFlags(t *testing.T) {
	o, _, err := parseFlags([]string{"-o", "out.html", "-inline", "-embed-avatars", "a", "b"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if o.out != "out.html" || !o.inline || !o.embedAvatars || len(o.inputs) != 2 || o.apiAddr != ":8080" {
		t.Fatalf("options = %#v", o)
	}
}
