package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentGenerations bounds the batch fan-out so a large batch cannot
// overwhelm the TTS providers or the host.
const maxConcurrentGenerations = 3

type BatchResult struct {
	ArticleID int64  `json:"articleId"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// GenerateBatch runs the single-episode pipeline for each article with at
// most maxConcurrentGenerations in flight. Results keep the input order, and
// one article's failure never cancels the others.
func (g *Generator) GenerateBatch(ctx context.Context, articleIDs []int64) []BatchResult {
	results := make([]BatchResult, len(articleIDs))

	var eg errgroup.Group
	eg.SetLimit(maxConcurrentGenerations)

	for i, articleID := range articleIDs {
		i, articleID := i, articleID
		eg.Go(func() error {
			if _, err := g.Generate(ctx, articleID, ""); err != nil {
				results[i] = BatchResult{ArticleID: articleID, Error: err.Error()}
			} else {
				results[i] = BatchResult{ArticleID: articleID, Success: true}
			}
			return nil
		})
	}

	// Workers never return an error; failures live in the results.
	_ = eg.Wait()
	return results
}
