package task

// Select keeps items scoring at least threshold, orders them by descending
// score and returns at most limit of them. Items with equal scores keep their
// input order. A negative limit means no cap. items is not modified.
func Select(items []WorkItem, threshold float64, limit int) []WorkItem {
	kept := make([]WorkItem, 0, len(items))
	for _, item := range items {
		if item.PriorityScore >= threshold {
			kept = append(kept, item)
		}
	}

	sortByScore(kept)

	if limit >= 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// sortByScore sorts items by score (highest first) using insertion sort,
// which is stable; runs hold a few dozen items at most.
func sortByScore(items []WorkItem) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && items[j].PriorityScore < key.PriorityScore {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
