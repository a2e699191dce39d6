package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "videobatch/pkg/errors"
	"videobatch/pkg/logger"
	"videobatch/pkg/models"
	"videobatch/pkg/youtube"
)

// fakeSearcher serves pages keyed by the page token that requests them
type fakeSearcher struct {
	pages    map[string]*youtube.SearchPage
	failOn   string
	failErr  error
	requests []youtube.SearchParams
}

func (f *fakeSearcher) Search(ctx context.Context, params youtube.SearchParams) (*youtube.SearchPage, error) {
	f.requests = append(f.requests, params)
	if f.failErr != nil && params.PageToken == f.failOn {
		return nil, f.failErr
	}
	page, ok := f.pages[params.PageToken]
	if !ok {
		return nil, fmt.Errorf("unexpected page token %q", params.PageToken)
	}
	return page, nil
}

type countingLimiter struct {
	waits int
	err   error
}

func (c *countingLimiter) Allow() bool { return true }
func (c *countingLimiter) Reset()      {}
func (c *countingLimiter) Wait(ctx context.Context) error {
	c.waits++
	return c.err
}

func items(ids ...string) []youtube.SearchItem {
	out := make([]youtube.SearchItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, youtube.SearchItem{VideoID: id, Title: "title " + id, ChannelID: "UC1"})
	}
	return out
}

func testWindow() models.Window {
	return models.Window{
		Start: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2017, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchAllFollowsTokens(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*youtube.SearchPage{
		"":   {Items: items("a", "b"), NextPageToken: "p2"},
		"p2": {Items: items("c", "d"), NextPageToken: "p3"},
		"p3": {Items: items("e")},
	}}
	limiter := &countingLimiter{}

	f := New(searcher, limiter, Options{PageSize: 2}, logger.NewTestLogger())
	got, err := f.FetchAll(context.Background(), "UC1", testWindow())
	require.NoError(t, err)

	var ids []string
	for _, item := range got {
		ids = append(ids, item.VideoID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, 3, limiter.waits)

	require.Len(t, searcher.requests, 3)
	assert.Equal(t, "", searcher.requests[0].PageToken)
	assert.Equal(t, "p2", searcher.requests[1].PageToken)
	assert.Equal(t, "p3", searcher.requests[2].PageToken)
}

func TestFetchAllPassesWindowAndFilters(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	searcher := &fakeSearcher{pages: map[string]*youtube.SearchPage{"": {}}}
	f := New(searcher, nil, Options{
		CategoryID:        "20",
		RelevanceLanguage: "ja",
		PageSize:          50,
		Location:          tokyo,
	}, nil)

	_, err = f.FetchAll(context.Background(), "UC1", testWindow())
	require.NoError(t, err)

	require.Len(t, searcher.requests, 1)
	req := searcher.requests[0]
	assert.Equal(t, "UC1", req.ChannelID)
	assert.Equal(t, "20", req.CategoryID)
	assert.Equal(t, "ja", req.RelevanceLanguage)
	assert.Equal(t, 50, req.PageSize)
	assert.Equal(t, "2017-01-01T09:00:00+09:00", req.PublishedAfter.Format(time.RFC3339))
	assert.Equal(t, "2017-07-01T09:00:00+09:00", req.PublishedBefore.Format(time.RFC3339))
}

func TestFetchAllEmptyResult(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*youtube.SearchPage{
		"": {Items: []youtube.SearchItem{}},
	}}

	got, err := New(searcher, nil, Options{}, nil).FetchAll(context.Background(), "UC1", testWindow())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchAllDiscardsPagesOnError(t *testing.T) {
	cause := errors.New("quota exceeded")
	searcher := &fakeSearcher{
		pages: map[string]*youtube.SearchPage{
			"": {Items: items("a", "b"), NextPageToken: "p2"},
		},
		failOn:  "p2",
		failErr: cause,
	}

	got, err := New(searcher, nil, Options{}, nil).FetchAll(context.Background(), "UC1", testWindow())
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindUpstreamCall))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UC1")
}

func TestFetchAllDetectsRepeatedToken(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*youtube.SearchPage{
		"":   {Items: items("a"), NextPageToken: "p2"},
		"p2": {Items: items("b"), NextPageToken: "p2"},
	}}

	_, err := New(searcher, nil, Options{}, nil).FetchAll(context.Background(), "UC1", testWindow())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindUpstreamCall))
	assert.Contains(t, err.Error(), "repeated")
	assert.Len(t, searcher.requests, 2)
}

func TestFetchAllPageLimit(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*youtube.SearchPage{
		"":   {Items: items("a"), NextPageToken: "p2"},
		"p2": {Items: items("b"), NextPageToken: "p3"},
		"p3": {Items: items("c")},
	}}

	_, err := New(searcher, nil, Options{MaxPages: 2}, nil).FetchAll(context.Background(), "UC1", testWindow())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindUpstreamCall))
	assert.Len(t, searcher.requests, 2)
}

func TestFetchAllStopsWhenLimiterCancelled(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*youtube.SearchPage{"": {}}}
	limiter := &countingLimiter{err: context.Canceled}

	_, err := New(searcher, limiter, Options{}, nil).FetchAll(context.Background(), "UC1", testWindow())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, searcher.requests)
}
