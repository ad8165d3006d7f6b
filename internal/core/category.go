package core

// Category is a reference entry for classifying expenses. The set is static
// configuration data, not domain logic.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Default bool   `json:"isDefault"`
}

var categories = []Category{
	{ID: "1", Name: "groceries", Color: "#4CAF50", Icon: "🛒", Default: true},
	{ID: "2", Name: "transport", Color: "#2196F3", Icon: "🚇", Default: true},
	{ID: "3", Name: "leisure", Color: "#FF9800", Icon: "🎮", Default: true},
	{ID: "4", Name: "health", Color: "#E91E63", Icon: "💊", Default: true},
	{ID: "5", Name: "housing", Color: "#9C27B0", Icon: "🏠", Default: true},
	{ID: "6", Name: "subscriptions", Color: "#00BCD4", Icon: "📱", Default: true},
	{ID: "7", Name: "tech", Color: "#607D8B", Icon: "💻", Default: true},
	{ID: "8", Name: "other", Color: "#795548", Icon: "📦", Default: true},
}

// Categories returns the reference category set.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}
