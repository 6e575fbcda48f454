package stock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveCategory(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"Gallon Water 5L", CategoryGallons},
		{"PREMIUM GALLON 19L", CategoryGallons},
		{"Caps Blue", CategoryCaps},
		{"CAPS white 28mm", CategoryCaps},
		{"Preform 28mm", CategoryPreforms},
		{"preform clear 24g", CategoryPreforms},
		{"Bottle Cap Holder", CategoryOther},
		{"HDPE Resin", CategoryOther},
		{"", CategoryOther},
		// Gallon wins over a caps prefix because it is checked first.
		{"Caps for Gallon", CategoryGallons},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DeriveCategory(tc.name))
		})
	}
}

func TestGroupByCategoryOrderAndTotals(t *testing.T) {
	rows := []Row{
		{ID: "1", Name: "Preform 28mm", Quantity: 100},
		{ID: "2", Name: "Gallon Water 5L", Quantity: 40},
		{ID: "3", Name: "Caps Blue", Quantity: 500},
		{ID: "4", Name: "Gallon Water 19L", Quantity: 10},
		{ID: "5", Name: "Bottle Cap Holder", Quantity: 7},
	}

	groups := GroupByCategory(rows)
	require.Len(t, groups, 4)

	require.Equal(t, CategoryGallons, groups[0].Category)
	require.Equal(t, 2, groups[0].Count)
	require.Equal(t, 50.0, groups[0].TotalQuantity)

	require.Equal(t, CategoryCaps, groups[1].Category)
	require.Equal(t, 1, groups[1].Count)

	require.Equal(t, CategoryPreforms, groups[2].Category)
	require.Equal(t, CategoryOther, groups[3].Category)
	require.Equal(t, 7.0, groups[3].TotalQuantity)
}

func TestGroupByCategorySkipsEmptyBuckets(t *testing.T) {
	groups := GroupByCategory([]Row{{ID: "1", Name: "Gallon Water 5L", Quantity: 1}})
	require.Len(t, groups, 1)
	require.Equal(t, CategoryGallons, groups[0].Category)

	require.Empty(t, GroupByCategory(nil))
}
