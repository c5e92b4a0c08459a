package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func namedDevices(t *testing.T, names ...string) []model.Device {
	t.Helper()

	items := make([]model.Device, 0, len(names))
	for _, name := range names {
		device, err := model.NewDevice(name, "Acme", model.StateAvailable, time.Now())
		require.NoError(t, err)

		items = append(items, device)
	}

	return items
}

func itemNames(items []model.Device) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	return names
}

func TestPaginateDevices(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		total     []string
		page      int
		size      int
		wantNames []string
		wantTotal int
	}{
		{
			name:      "middle page",
			total:     []string{"A", "B", "C", "D", "E"},
			page:      1,
			size:      2,
			wantNames: []string{"C", "D"},
			wantTotal: 5,
		},
		{
			name:      "first page",
			total:     []string{"A", "B", "C", "D", "E"},
			page:      0,
			size:      2,
			wantNames: []string{"A", "B"},
			wantTotal: 5,
		},
		{
			name:      "last partial page",
			total:     []string{"A", "B", "C", "D", "E"},
			page:      2,
			size:      2,
			wantNames: []string{"E"},
			wantTotal: 5,
		},
		{
			name:      "past the end",
			total:     []string{"A", "B", "C", "D", "E"},
			page:      10,
			size:      2,
			wantNames: []string{},
			wantTotal: 5,
		},
		{
			name:      "empty collection",
			total:     nil,
			page:      0,
			size:      20,
			wantNames: []string{},
			wantTotal: 0,
		},
		{
			name:      "size beyond total",
			total:     []string{"A", "B"},
			page:      0,
			size:      50,
			wantNames: []string{"A", "B"},
			wantTotal: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := model.PaginateDevices(namedDevices(t, tc.total...), tc.page, tc.size)

			require.Equal(t, tc.wantNames, itemNames(result.Items))
			require.Equal(t, tc.wantTotal, result.Total)
			require.Equal(t, tc.page, result.Page)
			require.Equal(t, tc.size, result.Size)
		})
	}
}

func TestPaginateDevices_HugePageLandsPastTheEnd(t *testing.T) {
	t.Parallel()

	items := namedDevices(t, "A")

	result := model.PaginateDevices(items, math.MaxInt, model.MaxPageSize)

	require.Empty(t, result.Items)
	require.Equal(t, 1, result.Total)
}

func TestSortDevicesByName_StableForEqualNames(t *testing.T) {
	t.Parallel()

	items := namedDevices(t, "B", "A", "B", "A")
	firstA, firstB := items[1], items[0]

	model.SortDevicesByName(items)

	require.Equal(t, []string{"A", "A", "B", "B"}, itemNames(items))
	// Insertion order is the tie-break.
	require.Equal(t, firstA.ID, items[0].ID)
	require.Equal(t, firstB.ID, items[2].ID)
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{name: "negative page", page: -3, size: 20, wantPage: 0, wantSize: 20},
		{name: "zero size", page: 0, size: 0, wantPage: 0, wantSize: 1},
		{name: "negative size", page: 2, size: -5, wantPage: 2, wantSize: 1},
		{name: "oversized", page: 1, size: 5000, wantPage: 1, wantSize: model.MaxPageSize},
		{name: "in range untouched", page: 3, size: 50, wantPage: 3, wantSize: 50},
		{
			name:     "huge page capped so page*size stays representable",
			page:     math.MaxInt,
			size:     model.MaxPageSize,
			wantPage: math.MaxInt / model.MaxPageSize,
			wantSize: model.MaxPageSize,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page, size := model.ClampPage(tc.page, tc.size)

			require.Equal(t, tc.wantPage, page)
			require.Equal(t, tc.wantSize, size)
		})
	}
}
