// Package youtube provides a client for the YouTube Data API v3 search.list endpoint.
//
// This package includes:
//   - A configurable HTTP client with request logging and a per-request timeout
//   - Typed search parameters and results
//   - An APIError type that carries the HTTP status and the reason from
//     Google's error envelope (quotaExceeded, keyInvalid, ...)
//
// Example usage:
//
//	client := youtube.NewClient(apiKey, youtube.WithTimeout(30*time.Second))
//
//	page, err := client.Search(ctx, youtube.SearchParams{
//	    ChannelID:       "UCxxxx",
//	    PublishedAfter:  window.Start,
//	    PublishedBefore: window.End,
//	})
//	if err != nil {
//	    var apiErr *youtube.APIError
//	    if errors.As(err, &apiErr) && apiErr.Type == youtube.ErrorTypeQuota {
//	        // Handle quota exhaustion
//	    }
//	}
package youtube
