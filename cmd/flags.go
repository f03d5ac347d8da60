package cmd

import (
	"strings"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
	"github.com/kanmd/kanmd/internal/index"
)

// parseFilters turns repeated "field=value" flag values into a filter
// set. Repeating a field collects its values into a list.
func parseFilters(pairs []string) (index.Filters, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filters := index.Filters{}
	for _, pair := range pairs {
		field, value, found := strings.Cut(pair, "=")
		if !found || field == "" {
			return nil, clierr.Newf(clierr.DomainRule, "invalid filter %q, expected field=value", pair)
		}
		switch existing := filters[field].(type) {
		case nil:
			filters[field] = value
		case []any:
			filters[field] = append(existing, value)
		default:
			filters[field] = []any{existing, value}
		}
	}
	return filters, nil
}

// parseSorters turns repeated sort fields into sorter rules. A leading
// "-" means descending.
func parseSorters(fields []string) []index.Sorter {
	sorters := make([]index.Sorter, 0, len(fields))
	for _, field := range fields {
		sorter := index.Sorter{Field: field, Order: index.Ascending}
		if rest, found := strings.CutPrefix(field, "-"); found {
			sorter.Field = rest
			sorter.Order = index.Descending
		}
		sorters = append(sorters, sorter)
	}
	return sorters
}

func parseDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := date.Parse(v)
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidDate, "invalid date %q", v)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
