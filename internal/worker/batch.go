package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/pipeline"
)

// Transformer defines the pipeline surface batch jobs need
type Transformer interface {
	Transform(ctx context.Context, req *model.TransformRequest) *model.TransformResult
	TransformURL(ctx context.Context, url string) (*model.TransformResult, error)
}

var _ Transformer = (*pipeline.Pipeline)(nil)

// TransformJob transforms one source: a URL or a local text file
type TransformJob struct {
	Source      string
	Transformer Transformer
	Limiter     *Limiter // Applied to URL sources only, may be nil
}

// Execute runs the transformation for this job's source
func (j *TransformJob) Execute(ctx context.Context) *TransformJobResult {
	if isURL(j.Source) {
		if j.Limiter != nil {
			if err := j.Limiter.Wait(ctx, j.Source); err != nil {
				return &TransformJobResult{Source: j.Source, Error: err}
			}
		}
		res, err := j.Transformer.TransformURL(ctx, j.Source)
		return &TransformJobResult{Source: j.Source, Result: res, Error: err}
	}

	data, err := os.ReadFile(j.Source)
	if err != nil {
		return &TransformJobResult{Source: j.Source, Error: fmt.Errorf("read file: %w", err)}
	}
	res := j.Transformer.Transform(ctx, &model.TransformRequest{Text: string(data)})
	return &TransformJobResult{Source: j.Source, Result: res}
}

// TransformJobResult is the result of one batch job
type TransformJobResult struct {
	Source string
	Result *model.TransformResult
	Error  error
}

// BatchProcessor transforms multiple sources concurrently
type BatchProcessor struct {
	transformer Transformer
	limiter     *Limiter
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(transformer Transformer, limiter *Limiter, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		transformer: transformer,
		limiter:     limiter,
		concurrency: concurrency,
	}
}

// Process transforms the given sources concurrently
func (b *BatchProcessor) Process(ctx context.Context, sources []string) []*TransformJobResult {
	if len(sources) == 0 {
		return []*TransformJobResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, src := range sources {
		pool.Submit(&TransformJob{
			Source:      src,
			Transformer: b.transformer,
			Limiter:     b.limiter,
		})
	}

	return pool.Wait()
}

// ProcessFile reads sources from a list file and transforms them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*TransformJobResult, error) {
	sources, err := ReadSourcesFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return b.Process(ctx, sources), nil
}

// ReadSourcesFromFile reads one source per line, skipping blanks, comments,
// and duplicates
func ReadSourcesFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return sources, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
