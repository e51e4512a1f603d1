package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"guard-matching/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultCatalogIndex = "guards"
	catalogPageSize     = 500
	// geoSlack widens distance push-downs so the exact haversine filter
	// applied afterwards never loses a guard to rounding differences.
	geoSlack = 1.01
)

// Catalog is the Elasticsearch view of the guard roster. It only pushes down
// filters that can never be stricter than the in-process search filters.
type Catalog struct {
	es    *elasticsearch.Client
	index string
}

func NewCatalog(es *elasticsearch.Client, index string) *Catalog {
	if index == "" {
		index = DefaultCatalogIndex
	}
	return &Catalog{es: es, index: index}
}

type catalogDoc struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Bio            string       `json:"bio,omitempty"`
	Location       *geoLocation `json:"location,omitempty"`
	HourlyRate     float64      `json:"hourlyRate"`
	Rating         float64      `json:"rating"`
	CompletedJobs  int          `json:"completedJobs"`
	Languages      []string     `json:"languages"`
	Certifications []string     `json:"certifications"`
	IsAvailable    bool         `json:"isAvailable"`
	KYCStatus      string       `json:"kycStatus"`
}

type geoLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toDoc(g models.GuardProfile) catalogDoc {
	d := catalogDoc{
		ID: g.ID, Name: g.Name, Bio: g.Bio, HourlyRate: g.HourlyRate, Rating: g.Rating,
		CompletedJobs: g.CompletedJobs, Languages: g.Languages, Certifications: g.Certifications,
		IsAvailable: g.IsAvailable, KYCStatus: g.KYCStatus,
	}
	if g.Location != nil {
		d.Location = &geoLocation{Lat: g.Location.Latitude, Lon: g.Location.Longitude}
	}
	return d
}

func (d catalogDoc) profile() models.GuardProfile {
	g := models.GuardProfile{
		ID: d.ID, Name: d.Name, Bio: d.Bio, HourlyRate: d.HourlyRate, Rating: d.Rating,
		CompletedJobs: d.CompletedJobs, Languages: d.Languages, Certifications: d.Certifications,
		IsAvailable: d.IsAvailable, KYCStatus: d.KYCStatus,
	}
	if d.Location != nil {
		g.Location = &models.GeoPoint{Latitude: d.Location.Lat, Longitude: d.Location.Lon}
	}
	return g
}

func (c *Catalog) Index(ctx context.Context, g models.GuardProfile) error {
	body, err := json.Marshal(toDoc(g))
	if err != nil {
		return fmt.Errorf("encode catalog doc: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: g.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index guard %s: %w", g.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index guard %s: %s", g.ID, res.Status())
	}
	return nil
}

const catalogMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "name":           {"type": "text"},
      "bio":            {"type": "text"},
      "location":       {"type": "geo_point"},
      "hourlyRate":     {"type": "double"},
      "rating":         {"type": "double"},
      "completedJobs":  {"type": "integer"},
      "languages":      {"type": "keyword"},
      "certifications": {"type": "text"},
      "isAvailable":    {"type": "boolean"},
      "kycStatus":      {"type": "keyword"}
    }
  }
}`

// EnsureIndex creates the catalog index with its mapping when it is missing.
// The mapping makes id sortable for paging and location a geo_point.
func (c *Catalog) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{c.index}}.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("check catalog index %s: %w", c.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: c.index,
		Body:  strings.NewReader(catalogMapping),
	}.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("create catalog index %s: %w", c.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create catalog index %s: %s", c.index, res.Status())
	}
	return nil
}

// Search returns every candidate guard for filters, paging through the index
// with search_after on id. Callers still apply the in-process filters and
// ordering to the result.
func (c *Catalog) Search(ctx context.Context, filters models.SearchFilters, userLocation *models.GeoPoint) ([]models.GuardProfile, error) {
	query := buildCatalogQuery(filters, userLocation)

	var (
		guards []models.GuardProfile
		after  []interface{}
	)
	for {
		page, last, err := c.searchPage(ctx, query, after)
		if err != nil {
			return nil, err
		}
		guards = append(guards, page...)
		if len(page) < catalogPageSize {
			break
		}
		if len(last) == 0 {
			return nil, fmt.Errorf("search catalog: full page without sort values")
		}
		after = last
	}
	if guards == nil {
		guards = []models.GuardProfile{}
	}
	return guards, nil
}

func (c *Catalog) searchPage(ctx context.Context, query map[string]interface{}, after []interface{}) ([]models.GuardProfile, []interface{}, error) {
	request := map[string]interface{}{
		"query": query["query"],
		"sort":  []interface{}{map[string]interface{}{"id": "asc"}},
	}
	if after != nil {
		request["search_after"] = after
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, nil, fmt.Errorf("encode catalog query: %w", err)
	}

	size := catalogPageSize
	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return nil, nil, fmt.Errorf("search catalog: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("catalog index %s: %w", c.index, ErrNotFound)
	}
	if res.IsError() {
		return nil, nil, fmt.Errorf("search catalog: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source catalogDoc    `json:"_source"`
				Sort   []interface{} `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, nil, fmt.Errorf("decode catalog response: %w", err)
	}

	guards := make([]models.GuardProfile, 0, len(parsed.Hits.Hits))
	var last []interface{}
	for _, h := range parsed.Hits.Hits {
		guards = append(guards, h.Source.profile())
		last = h.Sort
	}
	return guards, last, nil
}

func buildCatalogQuery(f models.SearchFilters, userLocation *models.GeoPoint) map[string]interface{} {
	filter := []interface{}{}

	if f.Availability != nil && *f.Availability {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"isAvailable": true}})
	}
	if f.MinRating > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"rating": map[string]interface{}{"gte": f.MinRating}},
		})
	}
	if f.MinHourlyRate > 0 || f.MaxHourlyRate > 0 {
		bounds := map[string]interface{}{}
		if f.MinHourlyRate > 0 {
			bounds["gte"] = f.MinHourlyRate
		}
		if f.MaxHourlyRate > 0 {
			bounds["lte"] = f.MaxHourlyRate
		}
		filter = append(filter, map[string]interface{}{"range": map[string]interface{}{"hourlyRate": bounds}})
	}
	if f.MaxDistanceKm > 0 && userLocation != nil {
		filter = append(filter, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%.3fkm", f.MaxDistanceKm*geoSlack),
				"location": map[string]interface{}{"lat": userLocation.Latitude, "lon": userLocation.Longitude},
			},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if f.Query != "" {
		boolQuery["should"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  f.Query,
					"fields": []string{"name^3", "bio", "certifications^2"},
				},
			},
		}
		boolQuery["minimum_should_match"] = 0
	}
	return map[string]interface{}{"query": map[string]interface{}{"bool": boolQuery}}
}
