package fetcher

import (
	"context"

	"videobatch/pkg/youtube"
)

// Searcher defines the search operation the fetcher pages through
type Searcher interface {
	Search(ctx context.Context, params youtube.SearchParams) (*youtube.SearchPage, error)
}
