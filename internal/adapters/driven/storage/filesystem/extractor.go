// Package filesystem provides a PageExtractor backed by extracted text
// files on disk.
//
// Upstream parsing (PDF, DOCX) is out of scope; this adapter consumes its
// plain-text output. Two layouts are recognised under the extractor root:
//
//	<resumeID>.pages/001.txt, 002.txt, ...   one file per page
//	<resumeID>.txt                           single-page resume
//
// Page files are ordered by filename, so zero-padded numbering keeps
// pages in document order.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads extracted resume text from a directory tree.
type Extractor struct {
	root string
}

// NewExtractor creates an extractor rooted at dir, creating it if needed.
func NewExtractor(dir string) (*Extractor, error) {
	if dir == "" {
		return nil, fmt.Errorf("extractor root: %w", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating extractor root: %w", err)
	}
	return &Extractor{root: dir}, nil
}

// Root returns the extractor's root directory.
func (e *Extractor) Root() string {
	return e.root
}

// Pages returns the ordered extracted pages for a resume.
func (e *Extractor) Pages(_ context.Context, resumeID string) ([]domain.ExtractedPage, error) {
	pagesDir := filepath.Join(e.root, resumeID+".pages")
	if info, err := os.Stat(pagesDir); err == nil && info.IsDir() {
		return e.readPagesDir(pagesDir)
	}

	single := filepath.Join(e.root, resumeID+".txt")
	content, err := os.ReadFile(single)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no extracted text for %s: %w", resumeID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading extracted text: %w", err)
	}

	return []domain.ExtractedPage{{Number: 1, Text: string(content)}}, nil
}

// SaveText writes single-page extracted text for a resume, for callers
// that ingest plain-text files directly.
func (e *Extractor) SaveText(resumeID string, content []byte) error {
	path := filepath.Join(e.root, resumeID+".txt")
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("writing extracted text: %w", err)
	}
	return nil
}

// Remove deletes whatever extracted text exists for a resume.
func (e *Extractor) Remove(resumeID string) error {
	if err := os.RemoveAll(filepath.Join(e.root, resumeID+".pages")); err != nil {
		return fmt.Errorf("removing page directory: %w", err)
	}
	if err := os.Remove(filepath.Join(e.root, resumeID+".txt")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing extracted text: %w", err)
	}
	return nil
}

func (e *Extractor) readPagesDir(dir string) ([]domain.ExtractedPage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading page directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("empty page directory %s: %w", dir, domain.ErrNotFound)
	}
	sort.Strings(names)

	pages := make([]domain.ExtractedPage, 0, len(names))
	for i, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading page %s: %w", name, err)
		}
		pages = append(pages, domain.ExtractedPage{Number: i + 1, Text: string(content)})
	}
	return pages, nil
}
