package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ebarkova/lede/internal/model"
)

// Analyzer runs one article against a notebook snapshot.
type Analyzer interface {
	Analyze(ctx context.Context, text string, nb model.NotebookSnapshot) *model.Report
}

// ArticleResult is the outcome of analyzing one article file.
type ArticleResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// BatchProcessor analyzes multiple article files concurrently against one
// shared notebook snapshot.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessArticles analyzes the given article files concurrently. Results
// carry per-file errors; one unreadable file never aborts the batch.
func (b *BatchProcessor) ProcessArticles(ctx context.Context, paths []string, nb model.NotebookSnapshot) []*ArticleResult {
	if len(paths) == 0 {
		return []*ArticleResult{}
	}

	pool := NewPool[*ArticleResult](ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		path := path
		pool.Submit(func(ctx context.Context) *ArticleResult {
			data, err := os.ReadFile(path)
			if err != nil {
				return &ArticleResult{Path: path, Error: fmt.Errorf("read article: %w", err)}
			}
			report := b.analyzer.Analyze(ctx, string(data), nb)
			report.ArticlePath = path
			return &ArticleResult{Path: path, Report: report}
		})
	}

	return pool.Wait()
}

// ProcessFile reads article paths from a list file and analyzes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string, nb model.NotebookSnapshot) ([]*ArticleResult, error) {
	paths, err := ReadArticleList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read article list: %w", err)
	}

	return b.ProcessArticles(ctx, paths, nb), nil
}

// ReadArticleList reads article paths from a file, one per line. Blank
// lines and #-comments are skipped; duplicates are dropped.
func ReadArticleList(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
