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

// TianAPI fetches category news from the TianAPI service. The API takes a
// form-encoded POST per category and reports success as code 200 inside the
// JSON body, independent of the HTTP status.
type TianAPI struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewTianAPI(apiKey, baseURL string, timeout time.Duration) *TianAPI {
	return &TianAPI{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (t *TianAPI) Name() string { return "tianapi" }

func (t *TianAPI) Schema() news.Schema {
	return news.Schema{
		Source:     t.Name(),
		TitleField: "title",
		DescField:  "description",
		ImageField: "picUrl",
		TimeField:  "ctime",
	}
}

type tianResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		Newslist []map[string]any `json:"newslist"`
	} `json:"result"`
}

func (t *TianAPI) Fetch(ctx context.Context, category string, limit int) ([]map[string]any, error) {
	form := url.Values{}
	form.Set("key", t.apiKey)
	form.Set("num", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/%s/index", t.baseURL, category)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("tianapi request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tianapi fetch %s: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tianapi fetch %s: status %d", category, resp.StatusCode)
	}

	var raw tianResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tianapi decode: %w", err)
	}

	if raw.Code != 200 {
		return nil, fmt.Errorf("tianapi fetch %s: code %d (%s)", category, raw.Code, raw.Msg)
	}

	return raw.Result.Newslist, nil
}
