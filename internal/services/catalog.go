package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/metrics"
)

const (
	DefaultCatalogTimeout = 10 * time.Second
	maxCatalogBody        = 5 << 20
)

type CatalogConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SearchParams mirrors the query string of GET /recipes/search.
type SearchParams struct {
	Query   string
	Page    int
	PerPage int

	Cuisine            string
	Diet               string
	Intolerances       string
	MaxReadyTime       *int
	IncludeIngredients string
	ExcludeIngredients string
	Sort               string
	SortDirection      string

	// Applied locally after the upstream call.
	MinCalories *float64
	MaxCalories *float64
}

type SearchHit struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	SourceURL      string   `json:"sourceUrl"`
	ReadyInMinutes *int     `json:"readyInMinutes"`
	Calories       *float64 `json:"calories"`
}

type SearchResult struct {
	Query        string      `json:"query"`
	Page         int         `json:"page"`
	PerPage      int         `json:"per_page"`
	TotalResults int64       `json:"total_results"`
	Results      []SearchHit `json:"results"`
}

type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type DetailIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type RecipeDetail struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Image          string             `json:"image"`
	ReadyInMinutes *int               `json:"readyInMinutes"`
	Servings       *int               `json:"servings"`
	SourceURL      string             `json:"sourceUrl"`
	Summary        string             `json:"summary"`
	Instructions   string             `json:"instructions"`
	Ingredients    []DetailIngredient `json:"ingredients"`
	Nutrition      []Nutrient         `json:"nutrition"`
}

// Catalog proxies the Spoonacular recipe API. Calls are never retried.
type Catalog struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   Cache
	log     logrus.FieldLogger
}

func NewCatalog(cfg CatalogConfig, cache Cache, log logrus.FieldLogger) *Catalog {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCatalogTimeout
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &Catalog{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
		log:     log,
	}
}

func (c *Catalog) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, apperr.Misconfigured("Spoonacular API key not configured on server")
	}
	p.Query = strings.TrimSpace(p.Query)
	if p.Query == "" {
		return nil, apperr.Invalid("q is required")
	}
	p.Page, p.PerPage = clampPage(p.Page, p.PerPage, DefaultPerPage)

	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("number", strconv.Itoa(p.PerPage))
	q.Set("offset", strconv.Itoa((p.Page-1)*p.PerPage))
	q.Set("addRecipeInformation", "true")
	q.Set("nutrition", "true")
	setIf(q, "cuisine", p.Cuisine)
	setIf(q, "diet", p.Diet)
	setIf(q, "intolerances", p.Intolerances)
	if p.MaxReadyTime != nil && *p.MaxReadyTime > 0 {
		q.Set("maxReadyTime", strconv.Itoa(*p.MaxReadyTime))
	}
	setIf(q, "includeIngredients", p.IncludeIngredients)
	setIf(q, "excludeIngredients", p.ExcludeIngredients)
	setIf(q, "sort", p.Sort)
	setIf(q, "sortDirection", p.SortDirection)

	body, err := c.get(ctx, "search", "/recipes/complexSearch", q)
	if err != nil {
		return nil, err
	}

	hits := []SearchHit{}
	gjson.GetBytes(body, "results").ForEach(func(_, item gjson.Result) bool {
		hits = append(hits, SearchHit{
			ID:             item.Get("id").Int(),
			Title:          item.Get("title").String(),
			Image:          item.Get("image").String(),
			SourceURL:      item.Get("sourceUrl").String(),
			ReadyInMinutes: optInt(item.Get("readyInMinutes")),
			Calories:       findCalories(item.Get("nutrition.nutrients")),
		})
		return true
	})

	return &SearchResult{
		Query:        p.Query,
		Page:         p.Page,
		PerPage:      p.PerPage,
		TotalResults: gjson.GetBytes(body, "totalResults").Int(),
		Results:      filterCalories(hits, p.MinCalories, p.MaxCalories),
	}, nil
}

// Recipe returns one recipe's detail, served from cache when present.
func (c *Catalog) Recipe(ctx context.Context, id string) (*RecipeDetail, error) {
	if c.apiKey == "" {
		return nil, apperr.Misconfigured("Spoonacular API key not configured on server")
	}
	if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
		return nil, apperr.Invalid("Invalid recipe ID format")
	}

	key := CacheKey("recipe", id)
	var cached RecipeDetail
	hit, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
	}
	metrics.ObserveCacheLookup(hit)
	if hit {
		return &cached, nil
	}

	q := url.Values{}
	q.Set("includeNutrition", "true")
	body, err := c.get(ctx, "information", "/recipes/"+id+"/information", q)
	if err != nil {
		return nil, err
	}

	detail := parseDetail(gjson.ParseBytes(body))
	if err := c.cache.Set(ctx, key, detail); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
	return detail, nil
}

func (c *Catalog) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	q.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Internal("Failed to build catalog request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveCatalogCall(endpoint, "transport_error", time.Since(start))
		c.log.WithError(redactKey(err)).WithField("endpoint", endpoint).Warn("catalog request failed")
		msg := "Recipe catalog unavailable"
		if isTimeout(err) {
			msg = "Recipe catalog timed out"
		}
		return nil, apperr.Upstream(msg, map[string]string{"error": msg}, redactKey(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBody))
	if err != nil {
		metrics.ObserveCatalogCall(endpoint, "transport_error", time.Since(start))
		return nil, apperr.Upstream("Failed to read catalog response", nil, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveCatalogCall(endpoint, "http_error", time.Since(start))
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Warn("catalog returned non-success status")
		return nil, apperr.Upstream(
			fmt.Sprintf("Spoonacular returned %d", resp.StatusCode),
			upstreamDetail(resp.StatusCode, body),
			nil,
		)
	}
	metrics.ObserveCatalogCall(endpoint, "ok", time.Since(start))
	return body, nil
}

func parseDetail(r gjson.Result) *RecipeDetail {
	d := &RecipeDetail{
		ID:             r.Get("id").Int(),
		Title:          r.Get("title").String(),
		Image:          r.Get("image").String(),
		ReadyInMinutes: optInt(r.Get("readyInMinutes")),
		Servings:       optInt(r.Get("servings")),
		SourceURL:      r.Get("sourceUrl").String(),
		Summary:        r.Get("summary").String(),
		Instructions:   r.Get("instructions").String(),
		Ingredients:    []DetailIngredient{},
		Nutrition:      []Nutrient{},
	}
	r.Get("extendedIngredients").ForEach(func(_, ing gjson.Result) bool {
		d.Ingredients = append(d.Ingredients, DetailIngredient{
			Name:   ing.Get("name").String(),
			Amount: ing.Get("amount").Float(),
			Unit:   ing.Get("unit").String(),
		})
		return true
	})
	r.Get("nutrition.nutrients").ForEach(func(_, n gjson.Result) bool {
		d.Nutrition = append(d.Nutrition, Nutrient{
			Name:   n.Get("name").String(),
			Amount: n.Get("amount").Float(),
			Unit:   n.Get("unit").String(),
		})
		return true
	})
	return d
}

// findCalories returns the amount of the first nutrient named "calories",
// case-insensitively, or nil.
func findCalories(nutrients gjson.Result) *float64 {
	var out *float64
	nutrients.ForEach(func(_, n gjson.Result) bool {
		if strings.EqualFold(n.Get("name").String(), "calories") {
			if amt := n.Get("amount"); amt.Type == gjson.Number {
				v := amt.Float()
				out = &v
			}
			return false
		}
		return true
	})
	return out
}

// filterCalories keeps hits inside [lo, hi]. With either bound set, hits
// without a calorie value are dropped.
func filterCalories(hits []SearchHit, lo, hi *float64) []SearchHit {
	if lo == nil && hi == nil {
		return hits
	}
	out := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		if h.Calories == nil {
			continue
		}
		if lo != nil && *h.Calories < *lo {
			continue
		}
		if hi != nil && *h.Calories > *hi {
			continue
		}
		out = append(out, h)
	}
	return out
}

func upstreamDetail(status int, body []byte) any {
	if gjson.ValidBytes(body) {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return map[string]string{"error": fmt.Sprintf("Spoonacular returned %d", status)}
}

func optInt(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	v := int(r.Int())
	return &v
}

func setIf(q url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		q.Set(key, val)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// redactKey strips the request URL, which carries the API key, from a
// transport error.
func redactKey(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s catalog: %w", ue.Op, ue.Err)
	}
	return err
}
