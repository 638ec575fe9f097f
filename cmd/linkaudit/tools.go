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

package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/agentberlin/linkaudit"
	"github.com/agentberlin/linkaudit/storage"
)

const paragraphsFile = "paragraphs.txt"

func openSession(ctx context.Context, cfg *linkaudit.Config, logger *zap.Logger) (linkaudit.Session, error) {
	fetcher := linkaudit.NewFetcher(cfg.FetcherOptions(logger))
	session, err := fetcher.Open(ctx, cfg.Browser)
	if err != nil {
		return nil, fmt.Errorf("open %s session: %w", cfg.Browser, err)
	}
	return session, nil
}

func runParagraphs(ctx context.Context, cfg *linkaudit.Config, logger *zap.Logger, args []string) (err error) {
	if len(args) != 1 {
		return errors.New("usage: linkaudit paragraphs <url>")
	}
	session, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, session.Close()) }()

	paragraphs, err := linkaudit.ScrapeParagraphs(ctx, session, args[0], cfg.ContentWait())
	if err != nil {
		return err
	}
	path, err := storage.NewFileWriter(cfg.OutputDir).WriteParagraphs(paragraphsFile, paragraphs)
	if err != nil {
		return err
	}
	logger.Info("saved paragraphs", zap.String("path", path), zap.Int("count", len(paragraphs)))
	return nil
}

func runNavCheck(ctx context.Context, cfg *linkaudit.Config, logger *zap.Logger) (err error) {
	session, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, session.Close()) }()

	checks := slices.Concat(linkaudit.DefaultNavChecks, linkaudit.DefaultSubmenuChecks)
	results, err := linkaudit.VerifyNavigation(ctx, session, cfg.BaseURL, checks)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		label := r.Text
		if r.Parent != "" {
			label = r.Parent + " > " + r.Text
		}
		switch {
		case r.Err != nil:
			failed++
			logger.Warn("navigation check failed",
				zap.String("url", r.Err.URL),
				zap.String("selector", r.Err.Selector),
				zap.String("stage", r.Err.Stage),
				zap.Error(r.Err.Err),
			)
			fmt.Printf("FAIL  %-44s %v\n", label, r.Err.Err)
		case !r.Found:
			failed++
			fmt.Printf("FAIL  %-44s not found\n", label)
		case !r.OK:
			failed++
			fmt.Printf("FAIL  %-44s %s does not contain %s\n", label, r.Href, r.ExpectedPath)
		default:
			fmt.Printf("ok    %-44s %s\n", label, r.Href)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d navigation items failed", failed, len(results))
	}
	return nil
}
