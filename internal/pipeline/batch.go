package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/phishscan/internal/model"
)

// DefaultConcurrency is the number of submissions a batch runs at once.
const DefaultConcurrency = 4

// BatchProcessor submits several URLs concurrently.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single submission
// 2. Each submission gets a fresh pipeline from the factory
// 3. A failing submission never cancels the others
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent submissions.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch submits every input and returns the submissions in input
// order. Failed submissions carry their error; only cancellation of ctx
// makes ProcessBatch itself return an error, in which case submissions
// that never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string, action string) ([]*model.Submission, error) {
	results := make([]*model.Submission, len(inputs))
	err := bp.ProcessBatchWithCallback(ctx, inputs, action, func(sub *model.Submission, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = sub
	})
	return results, err
}

// ProcessBatchWithCallback submits every input and calls callback from the
// goroutine that finished each submission. The callback must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []string,
	action string,
	callback func(sub *model.Submission, index int),
) error {
	bp.logger.Info("starting batch",
		"total", len(inputs),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			sub, err := bp.pipelineFactory().Run(ctx, input, action)
			if err != nil {
				bp.logger.Warn("submission failed",
					"url", input,
					"index", i+1,
					"error", err,
				)
			}
			callback(sub, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete",
		"total", len(inputs),
		"elapsed", time.Since(start),
	)
	return err
}
