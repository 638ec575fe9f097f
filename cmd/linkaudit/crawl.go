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
	"fmt"

	"go.uber.org/zap"

	"github.com/agentberlin/linkaudit"
	"github.com/agentberlin/linkaudit/internal/store"
	"github.com/agentberlin/linkaudit/storage"
)

func runCrawl(ctx context.Context, cfg *linkaudit.Config, logger *zap.Logger) error {
	writers := []linkaudit.ReportWriter{storage.NewFileWriter(cfg.OutputDir)}
	if cfg.HistoryDB != "" {
		st, err := store.NewStore(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer st.Close()
		writers = append(writers, st)
	}

	crawler, err := linkaudit.NewCrawler(cfg,
		linkaudit.WithLogger(logger),
		linkaudit.WithReportWriters(writers...),
	)
	if err != nil {
		return err
	}

	logger.Info("starting crawl",
		zap.String("base_url", cfg.BaseURL),
		zap.String("browser", string(cfg.Browser)),
		zap.Int("max_pages", cfg.MaxPages),
	)
	report, err := crawler.Run(ctx)
	if report != nil {
		fmt.Println(report.Text())
	}
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	return nil
}
