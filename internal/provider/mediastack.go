package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsbrief/internal/news"
)

// Mediastack fetches category news from the mediastack REST API.
type Mediastack struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewMediastack(apiKey, baseURL string, timeout time.Duration) *Mediastack {
	return &Mediastack{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (m *Mediastack) Name() string { return "mediastack" }

func (m *Mediastack) Schema() news.Schema {
	return news.Schema{
		Source:     m.Name(),
		TitleField: "title",
		DescField:  "description",
		ImageField: "image",
		TimeField:  "published_at",
	}
}

type mediastackResponse struct {
	Data  []map[string]any `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (m *Mediastack) Fetch(ctx context.Context, category string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("access_key", m.apiKey)
	params.Set("categories", category)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "published_desc")

	endpoint := m.baseURL + "/news?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("mediastack request: %w", err)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mediastack fetch %s: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mediastack fetch %s: status %d", category, resp.StatusCode)
	}

	var raw mediastackResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("mediastack decode: %w", err)
	}

	if raw.Error != nil {
		return nil, fmt.Errorf("mediastack fetch %s: %s (%s)", category, raw.Error.Message, raw.Error.Code)
	}

	return raw.Data, nil
}
