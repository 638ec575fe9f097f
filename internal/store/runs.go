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

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/agentberlin/linkaudit"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// WriteReport stores report as a new run. It implements linkaudit.ReportWriter.
func (s *Store) WriteReport(ctx context.Context, report *linkaudit.Report) error {
	run := Run{
		BaseURL:            report.BaseURL,
		Timestamp:          report.Timestamp,
		GeneratedAt:        report.GeneratedAt.UnixMilli(),
		TotalPagesVisited:  report.Summary.TotalPagesVisited,
		TotalExternalLinks: report.Summary.TotalExternalLinks,
		TotalBlogPosts:     report.Summary.TotalBlogPosts,
		TotalSocialLinks:   report.Summary.TotalSocialLinks,
		Truncated:          report.Truncated,
	}
	for _, p := range report.BlogPosts {
		run.BlogPosts = append(run.BlogPosts, BlogPost{URL: p.URL, Title: p.Title})
	}
	for _, l := range report.ExternalLinks {
		link := ExternalLink{
			URL:       l.URL,
			Text:      l.Text,
			SourceURL: l.SourceURL,
			PageTitle: l.PageTitle,
			Position:  l.Position,
		}
		if l.Location != nil {
			x, y := l.Location.X, l.Location.Y
			link.X, link.Y = &x, &y
		}
		run.ExternalLinks = append(run.ExternalLinks, link)
	}
	for _, u := range report.SocialLinks {
		run.SocialLinks = append(run.SocialLinks, SocialLink{URL: u})
	}

	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the runs for baseURL, newest first, without their links.
// An empty baseURL lists every run.
func (s *Store) ListRuns(ctx context.Context, baseURL string) ([]Run, error) {
	var runs []Run
	db := s.db.WithContext(ctx)
	if baseURL != "" {
		db = db.Where("base_url = ?", baseURL)
	}
	if err := db.Order("generated_at DESC").Order("id DESC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a run with all of its links.
func (s *Store) GetRun(ctx context.Context, id uint) (*Run, error) {
	var run Run
	result := s.db.WithContext(ctx).
		Preload("BlogPosts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("ExternalLinks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("SocialLinks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&run, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", result.Error)
	}
	return &run, nil
}

// DeleteRun removes a run and its links.
func (s *Store) DeleteRun(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&BlogPost{}, &ExternalLink{}, &SocialLink{}} {
			if err := tx.Where("run_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&Run{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrRunNotFound, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// Report rebuilds the JSON report shape from a stored run.
func (r *Run) Report() *linkaudit.Report {
	report := &linkaudit.Report{
		Timestamp: r.Timestamp,
		Summary: linkaudit.Summary{
			TotalPagesVisited:  r.TotalPagesVisited,
			TotalExternalLinks: r.TotalExternalLinks,
			TotalBlogPosts:     r.TotalBlogPosts,
			TotalSocialLinks:   r.TotalSocialLinks,
		},
		BlogPosts:     []linkaudit.BlogPost{},
		ExternalLinks: []linkaudit.ExternalLink{},
		SocialLinks:   []string{},
		Truncated:     r.Truncated,
		BaseURL:       r.BaseURL,
		GeneratedAt:   time.UnixMilli(r.GeneratedAt).UTC(),
	}
	for _, p := range r.BlogPosts {
		report.BlogPosts = append(report.BlogPosts, linkaudit.BlogPost{URL: p.URL, Title: p.Title})
	}
	for _, l := range r.ExternalLinks {
		link := linkaudit.ExternalLink{
			URL:       l.URL,
			Text:      l.Text,
			SourceURL: l.SourceURL,
			PageTitle: l.PageTitle,
			Position:  l.Position,
		}
		if l.X != nil && l.Y != nil {
			link.Location = &linkaudit.Point{X: *l.X, Y: *l.Y}
		}
		report.ExternalLinks = append(report.ExternalLinks, link)
	}
	for _, s := range r.SocialLinks {
		report.SocialLinks = append(report.SocialLinks, s.URL)
	}
	return report
}
