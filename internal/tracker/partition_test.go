package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	name     string
	category string
}

func TestPartitionPreservesInsertionOrder(t *testing.T) {
	items := []record{
		{"one", "b"},
		{"two", ""},
		{"three", "b"},
		{"four", "a"},
		{"five", ""},
	}

	buckets := Partition(items, func(r record) string { return r.category })

	require.Len(t, buckets, 3)
	assert.Equal(t, []record{{"one", "b"}, {"three", "b"}}, buckets["b"])
	assert.Equal(t, []record{{"two", ""}, {"five", ""}}, buckets[""])
	assert.Equal(t, []record{{"four", "a"}}, buckets["a"])
}

func TestCategoryOrderUncategorisedFirst(t *testing.T) {
	order := CategoryOrder([]string{"b", ""}, []string{"a", "b"})

	assert.Equal(t, []string{"", "a", "b"}, order)
}

func TestCategoryOrderEmpty(t *testing.T) {
	assert.Empty(t, CategoryOrder(nil, []string{}))
}

func TestPartitionRoundTripThroughCategoryOrder(t *testing.T) {
	items := []record{{"x", "zeta"}, {"y", "alpha"}, {"z", ""}}
	buckets := Partition(items, func(r record) string { return r.category })

	order := CategoryOrder(Keys(buckets))

	assert.Equal(t, []string{"", "alpha", "zeta"}, order)
}
