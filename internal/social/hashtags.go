package social

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Autocomplete returns hashtag candidates matching term.
func (a *API) Autocomplete(ctx context.Context, term string, limit int) ([]AutocompleteItem, error) {
	q := url.Values{}
	q.Set("search", term)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	body, err := settleEnvelope(a.c.Get(ctx, "/hashtags/auto", q))
	if err != nil {
		return nil, err
	}
	var out struct {
		Hashtags []AutocompleteItem `json:"hashtags"`
	}
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Hashtags, nil
}

// SearchByHashtag lists posts carrying the exact hashtag.
func (a *API) SearchByHashtag(ctx context.Context, name string) ([]Post, error) {
	body, err := settleEnvelope(a.c.Get(ctx, "/hashtags/search/"+url.PathEscape(name), nil))
	if err != nil {
		return nil, err
	}
	var out postsResponse
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// PostHashtags lists the hashtags attached to one post, for backfilling
// search results that arrive without them.
func (a *API) PostHashtags(ctx context.Context, postID int64) ([]PostHashtag, error) {
	body, err := settleEnvelope(a.c.Get(ctx, fmt.Sprintf("/hashtags/post/%d", postID), nil))
	if err != nil {
		return nil, err
	}
	var out struct {
		Hashtags []PostHashtag `json:"hashtags"`
	}
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Hashtags, nil
}
