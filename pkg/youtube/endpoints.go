package youtube

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the Google APIs host
	DefaultBaseURL = "https://www.googleapis.com"

	// SearchEndpoint is the path of search.list
	SearchEndpoint = "/youtube/v3/search"

	// MaxPageSize is the largest maxResults search.list accepts
	MaxPageSize = 50
)

// SearchURL builds the search.list URL for params against baseURL.
// Timestamps are rendered as RFC 3339 in the location they carry.
func SearchURL(baseURL, apiKey string, params SearchParams) string {
	pageSize := params.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	values := url.Values{}
	values.Set("part", "snippet")
	values.Set("type", "video")
	values.Set("order", "date")
	values.Set("maxResults", strconv.Itoa(pageSize))
	values.Set("channelId", params.ChannelID)
	if params.CategoryID != "" {
		values.Set("videoCategoryId", params.CategoryID)
	}
	if params.RelevanceLanguage != "" {
		values.Set("relevanceLanguage", params.RelevanceLanguage)
	}
	if !params.PublishedAfter.IsZero() {
		values.Set("publishedAfter", params.PublishedAfter.Format(time.RFC3339))
	}
	if !params.PublishedBefore.IsZero() {
		values.Set("publishedBefore", params.PublishedBefore.Format(time.RFC3339))
	}
	if params.PageToken != "" {
		values.Set("pageToken", params.PageToken)
	}
	values.Set("key", apiKey)

	return fmt.Sprintf("%s%s?%s", baseURL, SearchEndpoint, values.Encode())
}
