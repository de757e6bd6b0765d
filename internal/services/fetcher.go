package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RawTextProvider supplies the raw shop post text. The rest of the
// pipeline does not care how it was obtained.
type RawTextProvider interface {
	FetchRawText(ctx context.Context) (string, error)
}

// DefaultPostURL is the long-lived shop post's .json endpoint.
const DefaultPostURL = "https://www.reddit.com/r/kickopenthedoor/comments/167tvm4/weapon_shop_trading_tavern/.json"

// RedditFetcher pulls the post listing JSON and extracts the post
// markdown, ignoring comments.
type RedditFetcher struct {
	postURL string
	client  *resty.Client
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Selftext string `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewRedditFetcher(postURL string) *RedditFetcher {
	if postURL == "" {
		postURL = DefaultPostURL
	}
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "kotd-shop-history/1.0")

	return &RedditFetcher{postURL: postURL, client: client}
}

func (f *RedditFetcher) FetchRawText(ctx context.Context) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.postURL)
	if err != nil {
		return "", fmt.Errorf("reddit fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("reddit fetch failed: %d %s", resp.StatusCode(), resp.Status())
	}

	// the endpoint returns [postListing, commentListing]
	var listings []redditListing
	if err := json.Unmarshal(resp.Body(), &listings); err != nil {
		return "", fmt.Errorf("reddit listing decode: %w", err)
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return "", fmt.Errorf("reddit listing has no post")
	}
	return listings[0].Data.Children[0].Data.Selftext, nil
}
