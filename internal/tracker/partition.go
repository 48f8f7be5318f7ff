package tracker

import "sort"

// Partition groups items by the category returned by key, preserving the
// input order within each bucket. The empty string is the "no category"
// bucket.
func Partition[T any](items []T, key func(T) string) map[string][]T {
	buckets := make(map[string][]T)
	for _, item := range items {
		k := key(item)
		buckets[k] = append(buckets[k], item)
	}

	return buckets
}

// CategoryOrder returns the union of the given key sets in render order: the
// uncategorised ("") bucket first, then named categories ascending.
func CategoryOrder(keySets ...[]string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, set := range keySets {
		for _, k := range set {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

// Keys returns the category keys present in the partition.
func Keys[T any](buckets map[string][]T) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}

	return keys
}
