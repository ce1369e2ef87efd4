package domain

// GeneralCategory holds detail lines that appear before any category header.
const GeneralCategory = "General"

// ListItem is one line of a change or note list. Category headers group the
// detail lines that follow them.
type ListItem struct {
	Text       string `json:"text"`
	IsCategory bool   `json:"is_category"`
}

func CategoryItem(name string) ListItem {
	return ListItem{Text: name, IsCategory: true}
}

func DetailItem(text string) ListItem {
	return ListItem{Text: text}
}

// CountDetails returns the number of non-header items.
func CountDetails(items []ListItem) int {
	n := 0
	for _, item := range items {
		if !item.IsCategory {
			n++
		}
	}
	return n
}
