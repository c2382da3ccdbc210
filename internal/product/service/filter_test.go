package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ListFilter_Kind(t *testing.T) {
	testCases := []struct {
		name    string
		filter  ListFilter
		kind    FilterKind
		ignored []string
	}{
		{name: "empty", filter: ListFilter{}, kind: FilterAll},
		{name: "name only", filter: ListFilter{Name: "Fedora"}, kind: FilterName},
		{name: "all set", filter: ListFilter{Name: "a", Category: "b", Available: "c", Price: "d"}, kind: FilterName,
			ignored: []string{"category", "available", "price"}},
		{name: "empty name falls through", filter: ListFilter{Category: "FOOD", Price: "1"}, kind: FilterCategory,
			ignored: []string{"price"}},
		{name: "available before price", filter: ListFilter{Available: "no", Price: "1"}, kind: FilterAvailable,
			ignored: []string{"price"}},
		{name: "price only", filter: ListFilter{Price: "1"}, kind: FilterPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.filter.Kind())
			assert.Equal(t, tc.ignored, tc.filter.Ignored())
		})
	}
}

func Test_ParseAvailable(t *testing.T) {
	testCases := []struct {
		raw      string
		expected bool
	}{
		{"true", true},
		{"True", true},
		{"YES", true},
		{"1", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"on", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseAvailable(tc.raw))
		})
	}
}
