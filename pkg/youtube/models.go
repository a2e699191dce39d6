package youtube

import "time"

// SearchParams selects one page of search.list results
type SearchParams struct {
	ChannelID         string
	CategoryID        string
	RelevanceLanguage string
	PublishedAfter    time.Time
	PublishedBefore   time.Time
	PageSize          int
	PageToken         string
}

// SearchPage is one page of results plus the token for the next page.
// An empty NextPageToken means this was the last page.
type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
}

// SearchItem is a single video result
type SearchItem struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	ChannelID   string    `json:"channel_id"`
}

// API response types

type searchResponse struct {
	Kind          string       `json:"kind"`
	NextPageToken string       `json:"nextPageToken"`
	PageInfo      pageInfo     `json:"pageInfo"`
	Items         []searchItem `json:"items"`
}

type pageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		PublishedAt  string `json:"publishedAt"`
		ChannelID    string `json:"channelId"`
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}
