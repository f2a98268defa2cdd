package filter

import (
	"net/url"
	"strings"
)

// Options holds the filter[...] and include parameters of a request
type Options struct {
	Filters  map[string][]string
	Includes []string
}

// NewOptions parses query parameters into filter options.
// Comma-separated filter values are split and trimmed.
func NewOptions(query url.Values) *Options {
	options := &Options{
		Filters:  make(map[string][]string),
		Includes: []string{},
	}

	for key, values := range query {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			filterName := key[7 : len(key)-1]
			options.Filters[filterName] = splitList(values)
		}
	}

	if includeParam, ok := query["include"]; ok {
		options.Includes = splitList(includeParam)
	}

	return options
}

func splitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// HasFilter checks if a specific filter exists with at least one value
func (o *Options) HasFilter(name string) bool {
	return len(o.Filters[name]) > 0
}

// GetFilter returns the value(s) for a specific filter
func (o *Options) GetFilter(name string) []string {
	return o.Filters[name]
}

// HasInclude checks if a specific include is requested
func (o *Options) HasInclude(name string) bool {
	for _, include := range o.Includes {
		if include == name {
			return true
		}
	}
	return false
}

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(item T) bool

// Filter applies a filter function to a slice of items, preserving order
func Filter[T any](items []T, fn FilterFunc[T]) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
