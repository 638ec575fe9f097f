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

// Package storage writes link verification reports to the local filesystem.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentberlin/linkaudit"
)

// FileWriter writes the JSON report and the text summary side by side in Dir.
type FileWriter struct {
	Dir string
}

// NewFileWriter returns a FileWriter rooted at dir. An empty dir means the
// working directory.
func NewFileWriter(dir string) *FileWriter {
	if dir == "" {
		dir = "."
	}
	return &FileWriter{Dir: dir}
}

// WriteReport implements linkaudit.ReportWriter.
func (w *FileWriter) WriteReport(ctx context.Context, report *linkaudit.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	jsonName, textName := report.FileNames()
	if err := os.WriteFile(filepath.Join(w.Dir, jsonName), data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.Dir, textName), []byte(report.Text()), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Paths returns where WriteReport puts the two files for report.
func (w *FileWriter) Paths(report *linkaudit.Report) (jsonPath, textPath string) {
	jsonName, textName := report.FileNames()
	return filepath.Join(w.Dir, jsonName), filepath.Join(w.Dir, textName)
}

// WriteParagraphs writes scraped paragraph text to name inside Dir.
func (w *FileWriter) WriteParagraphs(name string, paragraphs []string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte(linkaudit.JoinParagraphs(paragraphs)), 0644); err != nil {
		return "", fmt.Errorf("failed to write paragraphs: %w", err)
	}
	return path, nil
}
