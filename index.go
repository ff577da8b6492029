package collection

// Index keys items by extractID. Later items win on duplicate ids.
func Index[V any](items []V, extractID IDExtractor[V]) map[string]V {
	res := make(map[string]V, len(items))
	for _, item := range items {
		res[extractID(item)] = item
	}

	return res
}
