package models

// News item types, classified from headline/description keywords.
const (
	NewsLaunch  = "launch"
	NewsRestock = "restock"
	NewsDeal    = "deal"
	NewsGeneral = "news"
)

// NewsItem is one scraped hobby-news entry.
type NewsItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Date        string  `json:"date"`
	Source      string  `json:"source"`
	ImageURL    *string `json:"image_url"`
	Type        string  `json:"type"`
}
