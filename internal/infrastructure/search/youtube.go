// Package search implements the remote search service against YouTube's
// Innertube API, the same JSON endpoint the web client uses.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hszk-dev/tunestream/internal/config"
	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/domain/repository"
)

const (
	searchPath = "/youtubei/v1/search"

	// clientVersion identifies the web client to Innertube. The endpoint
	// accepts stale versions; this only needs occasional bumps.
	clientName    = "WEB"
	clientVersion = "2.20250101.00.00"
)

// Client is an HTTP client for the Innertube search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxResults int
}

var _ repository.SearchService = (*Client)(nil)

// NewClient creates a search client from configuration.
func NewClient(cfg config.SearchConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
	}
}

// NewClientWithHTTP creates a search client with an injected HTTP client.
// Used by tests.
func NewClientWithHTTP(httpClient *http.Client, baseURL string, maxResults int) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxResults: maxResults,
	}
}

// searchRequest is the Innertube request envelope.
type searchRequest struct {
	Context innertubeContext `json:"context"`
	Query   string           `json:"query"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

// searchResponse covers the slice of the Innertube response we consume:
// the videoRenderer entries nested inside the primary section list.
type searchResponse struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type videoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
}

// Search queries Innertube and returns up to maxResults candidates in
// relevance order. maxResults <= 0 falls back to the configured default.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (model.ResultSet, error) {
	if maxResults <= 0 {
		maxResults = c.maxResults
	}

	body, err := json.Marshal(searchRequest{
		Context: innertubeContext{
			Client: innertubeClient{
				ClientName:    clientName,
				ClientVersion: clientVersion,
			},
		},
		Query: query,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode search request: %v", repository.ErrSearchUnavailable, err)
	}

	url := c.baseURL + searchPath + "?prettyPrint=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build search request: %v", repository.ErrSearchUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", repository.ErrSearchUnavailable, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", repository.ErrSearchUnavailable, err)
	}

	return collectResults(&parsed, maxResults), nil
}

// collectResults walks the section list and keeps the first maxResults
// video entries, preserving relevance order. Non-video entries (ads,
// shelves, channels) are skipped.
func collectResults(parsed *searchResponse, maxResults int) model.ResultSet {
	results := make(model.ResultSet, 0, maxResults)
	sections := parsed.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			vr := item.VideoRenderer
			if vr == nil || vr.VideoID == "" {
				continue
			}
			results = append(results, model.SearchResult{
				VideoID: vr.VideoID,
				Title:   renderTitle(vr),
			})
			if len(results) >= maxResults {
				return results
			}
		}
	}
	return results
}

func renderTitle(vr *videoRenderer) string {
	if len(vr.Title.Runs) == 0 {
		return ""
	}
	return vr.Title.Runs[0].Text
}
