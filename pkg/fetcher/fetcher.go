package fetcher

import (
	"context"
	"fmt"
	"time"

	errs "videobatch/pkg/errors"
	"videobatch/pkg/logger"
	"videobatch/pkg/models"
	"videobatch/pkg/ratelimit"
	"videobatch/pkg/youtube"
)

// Options holds the fixed search filters and paging limits
type Options struct {
	CategoryID        string
	RelevanceLanguage string
	PageSize          int
	// MaxPages bounds the number of pages per fetch (0 means no limit)
	MaxPages int
	Location *time.Location
}

// Fetcher retrieves every search result for a channel and window
type Fetcher struct {
	client  Searcher
	limiter ratelimit.Limiter
	opts    Options
	logger  logger.Logger
}

// New creates a Fetcher. A nil limiter disables pacing.
func New(client Searcher, limiter ratelimit.Limiter, opts Options, log logger.Logger) *Fetcher {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Fetcher{
		client:  client,
		limiter: limiter,
		opts:    opts,
		logger:  log,
	}
}

// FetchAll pages through search results for channelID published within
// window and returns them in arrival order. Any page failure discards the
// pages already retrieved and is reported as an upstream call error.
func (f *Fetcher) FetchAll(ctx context.Context, channelID string, window models.Window) ([]youtube.SearchItem, error) {
	items := make([]youtube.SearchItem, 0)
	seen := make(map[string]struct{})
	pageToken := ""
	pageNum := 0

	for {
		if f.opts.MaxPages > 0 && pageNum >= f.opts.MaxPages {
			return nil, errs.Upstream(channelID, fmt.Errorf("page limit of %d reached with more results pending", f.opts.MaxPages))
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errs.Upstream(channelID, err)
		}

		page, err := f.client.Search(ctx, youtube.SearchParams{
			ChannelID:         channelID,
			CategoryID:        f.opts.CategoryID,
			RelevanceLanguage: f.opts.RelevanceLanguage,
			PublishedAfter:    window.Start.In(f.opts.Location),
			PublishedBefore:   window.End.In(f.opts.Location),
			PageSize:          f.opts.PageSize,
			PageToken:         pageToken,
		})
		if err != nil {
			return nil, errs.Upstream(channelID, err)
		}

		pageNum++
		items = append(items, page.Items...)

		f.logger.DebugWithFields("Search page fetched", map[string]interface{}{
			"channel_id": channelID,
			"page":       pageNum,
			"page_items": len(page.Items),
			"total":      len(items),
			"has_next":   page.NextPageToken != "",
		})

		if page.NextPageToken == "" {
			break
		}
		if _, dup := seen[page.NextPageToken]; dup {
			return nil, errs.Upstream(channelID, fmt.Errorf("page token %q repeated after page %d", page.NextPageToken, pageNum))
		}
		seen[page.NextPageToken] = struct{}{}
		pageToken = page.NextPageToken
	}

	f.logger.InfoWithFields("Search results fetched", map[string]interface{}{
		"channel_id": channelID,
		"pages":      pageNum,
		"items":      len(items),
	})

	return items, nil
}
