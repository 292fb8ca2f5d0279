package menu

// ActiveCategories resolves a filter selection against the known categories.
// An empty selection means no filter is active, so every known category is
// returned. Otherwise the selected categories are returned in known order;
// selections that are not known are dropped.
func ActiveCategories(known, selected []string) []string {
	if len(selected) == 0 {
		active := make([]string, len(known))
		copy(active, known)
		return active
	}

	chosen := make(map[string]struct{}, len(selected))
	for _, category := range selected {
		chosen[category] = struct{}{}
	}

	active := make([]string, 0, len(selected))
	for _, category := range known {
		if _, ok := chosen[category]; ok {
			active = append(active, category)
		}
	}

	return active
}
