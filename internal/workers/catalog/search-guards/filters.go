package searchguards

import (
	"fmt"
	"strconv"
	"strings"

	"guard-matching/internal/common/errors"
	"guard-matching/internal/models"
)

var validSortOptions = map[string]bool{
	"":                      true,
	models.SortByRating:     true,
	models.SortByPriceLow:   true,
	models.SortByPriceHigh:  true,
	models.SortByDistance:   true,
	models.SortByExperience: true,
}

// parseFilters turns loosely typed process variables into SearchFilters.
// Numbers may arrive as JSON numbers or strings, lists as arrays or
// comma-separated strings.
func parseFilters(raw map[string]interface{}) (models.SearchFilters, error) {
	var f models.SearchFilters
	if raw == nil {
		return f, nil
	}

	if q, ok := raw["query"].(string); ok {
		f.Query = strings.TrimSpace(q)
	}

	if v, ok := raw["availability"]; ok && v != nil {
		b, err := parseBool(v)
		if err != nil {
			return f, invalid("availability", v)
		}
		f.Availability = &b
	}

	var err error
	if f.MinRating, err = optionalFloat(raw, "minRating"); err != nil {
		return f, err
	}
	if f.MinRating > 5 {
		return f, errors.NewInvalidFilterFormatError(fmt.Sprintf("minRating %.1f exceeds 5", f.MinRating))
	}
	if f.MinHourlyRate, err = optionalFloat(raw, "minHourlyRate"); err != nil {
		return f, err
	}
	if f.MaxHourlyRate, err = optionalFloat(raw, "maxHourlyRate"); err != nil {
		return f, err
	}
	if f.MaxHourlyRate > 0 && f.MinHourlyRate > f.MaxHourlyRate {
		return f, errors.NewInvalidFilterFormatError(fmt.Sprintf(
			"minHourlyRate (%.2f) > maxHourlyRate (%.2f)", f.MinHourlyRate, f.MaxHourlyRate))
	}
	if f.MaxDistanceKm, err = optionalFloat(raw, "maxDistanceKm"); err != nil {
		return f, err
	}

	f.Languages = parseStringArray(raw["languages"])
	f.Certifications = parseStringArray(raw["certifications"])

	if v, ok := raw["sortBy"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return f, invalid("sortBy", v)
		}
		s = strings.TrimSpace(s)
		if !validSortOptions[s] {
			return f, errors.NewInvalidFilterFormatError(fmt.Sprintf("invalid sortBy '%s'", s))
		}
		f.SortBy = s
	}

	return f, nil
}

func optionalFloat(raw map[string]interface{}, key string) (float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, err := parseFloat(v)
	if err != nil || n < 0 {
		return 0, invalid(key, v)
	}
	return n, nil
}

func parseFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		cleaned := strings.NewReplacer(" ", "", ",", "").Replace(v)
		return strconv.ParseFloat(cleaned, 64)
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}

func parseBool(raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("not a boolean: %T", raw)
	}
}

// parseStringArray always returns a slice without blanks or duplicates.
// Nil stays nil so an absent list means no filter.
func parseStringArray(raw interface{}) []string {
	var items []string
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		items = strings.Split(v, ",")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case []string:
		items = v
	}

	result := []string{}
	seen := make(map[string]bool)
	for _, s := range items {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" && !seen[trimmed] {
			result = append(result, trimmed)
			seen[trimmed] = true
		}
	}
	return result
}

func invalid(key string, v interface{}) *errors.StandardError {
	return errors.NewInvalidFilterFormatError(fmt.Sprintf("invalid %s: %v", key, v))
}
