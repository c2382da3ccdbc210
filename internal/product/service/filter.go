package service

import "strings"

// FilterKind names the single list filter a request resolves to.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterName
	FilterCategory
	FilterAvailable
	FilterPrice
)

func (k FilterKind) String() string {
	switch k {
	case FilterName:
		return "name"
	case FilterCategory:
		return "category"
	case FilterAvailable:
		return "available"
	case FilterPrice:
		return "price"
	default:
		return "all"
	}
}

// ListFilter carries the raw list query parameters. An empty value counts as absent.
// At most one filter is honored: name, then category, then available, then price.
type ListFilter struct {
	Name      string
	Category  string
	Available string
	Price     string
}

// Kind returns the filter that wins the precedence order, FilterAll if none is set.
func (f ListFilter) Kind() FilterKind {
	switch {
	case f.Name != "":
		return FilterName
	case f.Category != "":
		return FilterCategory
	case f.Available != "":
		return FilterAvailable
	case f.Price != "":
		return FilterPrice
	default:
		return FilterAll
	}
}

// Ignored returns the parameters that were supplied but lost to a higher-precedence one.
func (f ListFilter) Ignored() []string {
	kind := f.Kind()
	var ignored []string
	for _, candidate := range []struct {
		kind  FilterKind
		value string
	}{
		{FilterName, f.Name},
		{FilterCategory, f.Category},
		{FilterAvailable, f.Available},
		{FilterPrice, f.Price},
	} {
		if candidate.value != "" && candidate.kind != kind {
			ignored = append(ignored, candidate.kind.String())
		}
	}
	return ignored
}

var truthy = map[string]struct{}{
	"true": {},
	"yes":  {},
	"1":    {},
}

// ParseAvailable reports whether raw is one of the truthy tokens, ignoring case. Anything else is false.
func ParseAvailable(raw string) bool {
	_, ok := truthy[strings.ToLower(raw)]
	return ok
}
