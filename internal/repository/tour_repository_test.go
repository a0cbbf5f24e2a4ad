package repository

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestBuildSearchQuery(t *testing.T) {
	name := "walk"
	padded := "  walk  "
	blank := "   "
	prefix := "2026-09-"
	exact := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		filter        TourSearchFilter
		wantFragments []string
		skipFragments []string
		wantArgs      []any
	}{
		{
			name:          "empty filter selects whole catalog",
			filter:        TourSearchFilter{},
			wantFragments: []string{"WHERE 1=1 ORDER BY t.id"},
			skipFragments: []string{"ILIKE", "LIKE $", "::date"},
			wantArgs:      []any{},
		},
		{
			name:          "name only",
			filter:        TourSearchFilter{Name: &name},
			wantFragments: []string{"t.title ILIKE $1"},
			skipFragments: []string{"td.date"},
			wantArgs:      []any{"%walk%"},
		},
		{
			name:          "name is trimmed before wildcarding",
			filter:        TourSearchFilter{Name: &padded},
			wantFragments: []string{"t.title ILIKE $1"},
			wantArgs:      []any{"%walk%"},
		},
		{
			name:          "blank name is ignored",
			filter:        TourSearchFilter{Name: &blank},
			wantFragments: []string{"WHERE 1=1 ORDER BY t.id"},
			skipFragments: []string{"ILIKE"},
			wantArgs:      []any{},
		},
		{
			name:          "date prefix matches ISO text",
			filter:        TourSearchFilter{DatePrefix: &prefix},
			wantFragments: []string{"td.date::text LIKE $1"},
			skipFragments: []string{"ILIKE", "::date ="},
			wantArgs:      []any{"2026-09-%"},
		},
		{
			name:          "exact date compares as date",
			filter:        TourSearchFilter{DateExact: &exact},
			wantFragments: []string{"td.date = $1::date"},
			skipFragments: []string{"LIKE"},
			wantArgs:      []any{"2026-09-10"},
		},
		{
			name:          "name and prefix AND together",
			filter:        TourSearchFilter{Name: &name, DatePrefix: &prefix},
			wantFragments: []string{"t.title ILIKE $1 AND td.date::text LIKE $2"},
			wantArgs:      []any{"%walk%", "2026-09-%"},
		},
		{
			name:          "name and exact date AND together",
			filter:        TourSearchFilter{Name: &name, DateExact: &exact},
			wantFragments: []string{"t.title ILIKE $1 AND td.date = $2::date"},
			wantArgs:      []any{"%walk%", "2026-09-10"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildSearchQuery(tc.filter)

			for _, fragment := range tc.wantFragments {
				if !strings.Contains(query, fragment) {
					t.Errorf("query missing %q:\n%s", fragment, query)
				}
			}
			for _, fragment := range tc.skipFragments {
				if strings.Contains(query, fragment) {
					t.Errorf("query should not contain %q:\n%s", fragment, query)
				}
			}
			if !strings.Contains(query, "LEFT JOIN tour_dates td") {
				t.Errorf("query must join tour_dates:\n%s", query)
			}
			if !reflect.DeepEqual(args, tc.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tc.wantArgs)
			}
		})
	}
}
