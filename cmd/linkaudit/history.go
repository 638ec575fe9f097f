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
	"strconv"
	"time"

	"github.com/agentberlin/linkaudit"
	"github.com/agentberlin/linkaudit/internal/store"
	"github.com/agentberlin/linkaudit/storage"
)

func openHistory(cfg *linkaudit.Config) (*store.Store, error) {
	if cfg.HistoryDB == "" {
		return nil, errors.New("no history database configured (set LINKAUDIT_HISTORY_DB)")
	}
	return store.NewStore(cfg.HistoryDB)
}

func runHistory(ctx context.Context, cfg *linkaudit.Config) error {
	st, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, "")
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	fmt.Printf("%-6s %-20s %-7s %-9s %-6s %-7s %s\n", "ID", "DATE", "PAGES", "EXTERNAL", "POSTS", "SOCIAL", "BASE URL")
	for _, r := range runs {
		date := time.UnixMilli(r.GeneratedAt).Local().Format("2006-01-02 15:04:05")
		pages := strconv.Itoa(r.TotalPagesVisited)
		if r.Truncated {
			pages += "+"
		}
		fmt.Printf("%-6d %-20s %-7s %-9d %-6d %-7d %s\n",
			r.ID, date, pages, r.TotalExternalLinks, r.TotalBlogPosts, r.TotalSocialLinks, r.BaseURL)
	}
	return nil
}

func runExport(ctx context.Context, cfg *linkaudit.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: linkaudit export <run-id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	st, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(ctx, uint(id))
	if err != nil {
		return err
	}
	report := run.Report()
	writer := storage.NewFileWriter(cfg.OutputDir)
	if err := writer.WriteReport(ctx, report); err != nil {
		return err
	}
	jsonPath, textPath := writer.Paths(report)
	fmt.Printf("Exported run %d:\n  %s\n  %s\n", run.ID, jsonPath, textPath)
	return nil
}
