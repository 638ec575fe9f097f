// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// linkaudit
//
// Crawls one website in a headless browser and reports its external links,
// social links and blog posts.
//
// Usage:
//
//	linkaudit [command] [args]
//
// Commands:
//
//	crawl       Crawl the configured site (default)
//	paragraphs  Save the paragraph text of one page to paragraphs.txt
//	navcheck    Verify the main navigation menu of the base URL
//	history     List stored runs
//	export      Rewrite the report files of a stored run
//	version     Show version information
//
// Configuration comes from the YAML file named by LINKAUDIT_CONFIG and from
// LINKAUDIT_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/agentberlin/linkaudit"
	"github.com/agentberlin/linkaudit/internal/version"
)

func main() {
	command := "crawl"
	var args []string
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("linkaudit %s\n", version.CurrentVersion)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	switch command {
	case "crawl":
		err = runCrawl(ctx, cfg, logger)
	case "paragraphs":
		err = runParagraphs(ctx, cfg, logger, args)
	case "navcheck":
		err = runNavCheck(ctx, cfg, logger)
	case "history":
		err = runHistory(ctx, cfg)
	case "export":
		err = runExport(ctx, cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		stop()
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger it asks for.
func setup() (*linkaudit.Config, *zap.Logger, error) {
	cfg := linkaudit.DefaultConfig()
	if path := os.Getenv(linkaudit.ConfigPathEnv); path != "" {
		loaded, err := linkaudit.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	// Env overrides are applied before the level is known; warnings about
	// unknown variables are replayed once the logger exists.
	bootstrap := zap.NewNop()
	if err := cfg.ApplyEnv(os.Environ(), bootstrap); err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(os.Environ(), logger); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	if level == "debug" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = atomic
	return zc.Build()
}

func printUsage() {
	fmt.Println(`linkaudit - crawl a website and report its links

Usage:
  linkaudit [command] [args]

Commands:
  crawl             Crawl the configured site (default)
  paragraphs <url>  Save the paragraph text of a page to paragraphs.txt
  navcheck          Verify the main navigation menu of the base URL
  history           List stored runs (needs LINKAUDIT_HISTORY_DB)
  export <run-id>   Rewrite the report files of a stored run
  version           Show version information
  help              Show this help message

Configuration:
  LINKAUDIT_CONFIG      Path to a YAML config file
  LINKAUDIT_BASE_URL    Site to crawl
  LINKAUDIT_BROWSER     chrome, chrome-headful or static
  LINKAUDIT_MAX_PAGES   Stop after this many pages (0 = unlimited)
  LINKAUDIT_OUTPUT_DIR  Where report files are written
  LINKAUDIT_HISTORY_DB  SQLite file keeping every run`)
}
