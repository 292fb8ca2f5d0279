package menu

import "little-lemon/internal/model"

// BuildSections groups items by category.
// Sections appear in the order their category is first seen and each
// section keeps the relative order of its items.
func BuildSections(items []model.MenuItem) []model.Section {
	sections := make([]model.Section, 0)
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(sections)
			index[item.Category] = i
			sections = append(sections, model.Section{Title: item.Category})
		}
		sections[i].Data = append(sections[i].Data, item)
	}

	return sections
}
