package model

import (
	"math"
	"sort"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageResult is a deterministic slice of a filtered collection.
// Total counts all matching items before slicing.
type PageResult struct {
	Items []Device
	Total int
	Page  int
	Size  int
}

// PaginateDevices slices items for the given zero-based page. Inputs are
// assumed clamped by the caller (size in [1,200], page >= 0) and items
// already carry their stable order. Past-the-end pages yield an empty
// slice, not an error.
func PaginateDevices(items []Device, page, size int) PageResult {
	total := len(items)

	// The multiplication is guarded by division: a huge page must land
	// past the end, not wrap into a negative slice bound.
	from := total
	if total > 0 && page <= (total-1)/size {
		from = page * size
	}

	to := from + size
	if to > total {
		to = total
	}

	return PageResult{
		Items: items[from:to],
		Total: total,
		Page:  page,
		Size:  size,
	}
}

// SortDevicesByName orders items by name ascending, keeping insertion order
// for equal names so paging is reproducible across calls.
func SortDevicesByName(items []Device) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
}

// ClampPage normalizes caller-supplied paging parameters.
func ClampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}

	if size < 1 {
		size = 1
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	// Keep page*size representable so storage offsets never wrap.
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}

	return page, size
}
