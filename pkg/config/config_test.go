package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{SearchPaths: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Defaults()
	if cfg.Search != want.Search {
		t.Errorf("Search = %+v, want %+v", cfg.Search, want.Search)
	}
	if cfg.Cache != want.Cache {
		t.Errorf("Cache = %+v, want %+v", cfg.Cache, want.Cache)
	}
	if cfg.Server != want.Server {
		t.Errorf("Server = %+v, want %+v", cfg.Server, want.Server)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
	if cfg.Strategy() != search.AStar {
		t.Errorf("Strategy() = %v, want astar", cfg.Strategy())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, `
[search]
strategy = "bfs"
max-expansions = 500
timeout = "5s"

[cache]
backend = "none"
ttl = "1h"

[server]
listen = "127.0.0.1:9000"
`)
	cfg, err := Load(LoadOptions{SearchPaths: []string{dir}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy() != search.BFS {
		t.Errorf("Strategy = %v, want bfs", cfg.Strategy())
	}
	if cfg.Search.MaxExpansions != 500 {
		t.Errorf("MaxExpansions = %d, want 500", cfg.Search.MaxExpansions)
	}
	if cfg.Search.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Search.Timeout)
	}
	if cfg.Cache.Backend != BackendNone || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.MaxBodyBytes != Defaults().Server.MaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want default", cfg.Server.MaxBodyBytes)
	}
	if cfg.File != filepath.Join(dir, FileName) {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "[search]\nstrategy = \"bfs\"\n")
	t.Setenv("SEARCHLAB_SEARCH_STRATEGY", "dfs")
	t.Setenv("SEARCHLAB_SEARCH_MAX_EXPANSIONS", "42")

	cfg, err := Load(LoadOptions{SearchPaths: []string{dir}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy() != search.DFS {
		t.Errorf("Strategy = %v, want dfs from env", cfg.Strategy())
	}
	if cfg.Search.MaxExpansions != 42 {
		t.Errorf("MaxExpansions = %d, want 42 from env", cfg.Search.MaxExpansions)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SEARCHLAB_SEARCH_STRATEGY", "dfs")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("strategy", "", "")
	fs.Int("max-expansions", 0, "")
	if err := fs.Parse([]string{"--strategy", "greedy"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{
		SearchPaths: []string{t.TempDir()},
		Flags:       fs,
		Bindings: map[string]string{
			"search.strategy":       "strategy",
			"search.max-expansions": "max-expansions",
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy() != search.Greedy {
		t.Errorf("Strategy = %v, want greedy from flag", cfg.Strategy())
	}
	// Unchanged flags do not clobber defaults.
	if cfg.Search.MaxExpansions != Defaults().Search.MaxExpansions {
		t.Errorf("MaxExpansions = %d, want default", cfg.Search.MaxExpansions)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		file    string
		code    errors.Code
	}{
		{"missing explicit file", "", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"bad toml", "[search\nstrategy=", "", errors.ErrCodeInvalidFormat},
		{"bad strategy", "[search]\nstrategy = \"random\"\n", "", errors.ErrCodeInvalidStrategy},
		{"bad backend", "[cache]\nbackend = \"s3\"\n", "", errors.ErrCodeInvalidInput},
		{"negative limit", "[search]\nmax-expansions = -1\n", "", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := LoadOptions{File: tt.file}
			if tt.file == "" {
				sub := t.TempDir()
				opts.File = writeFile(t, sub, tt.content)
			}
			_, err := Load(opts)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadUnboundFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, err := Load(LoadOptions{
		SearchPaths: []string{t.TempDir()},
		Flags:       fs,
		Bindings:    map[string]string{"search.strategy": "strategy"},
	})
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("err = %v, want INTERNAL_ERROR", err)
	}
}

func TestStringMasksPassword(t *testing.T) {
	cfg := Defaults()
	cfg.Redis.Password = "hunter2"
	s := cfg.String()
	if strings.Contains(s, "hunter2") {
		t.Error("password leaked")
	}
	if !strings.Contains(s, `search.strategy = "astar"`) {
		t.Errorf("missing strategy line:\n%s", s)
	}
	if !strings.Contains(s, `search.timeout = "30s"`) {
		t.Errorf("missing timeout line:\n%s", s)
	}
}
