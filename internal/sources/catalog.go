package sources

// RetailerDef describes one supported retailer for catalog listings.
// Status "api" means live discovery works; "links" means the retailer blocks
// scraping and we only offer outbound search links.
type RetailerDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// CategoryDef binds one browsable category to its source.
type CategoryDef struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Source string `json:"source"`
}

// SearchLink is an outbound search URL for retailers we cannot scrape.
type SearchLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

var retailers = []RetailerDef{
	{ID: PokemonTCGID, Name: "Pokemon TCG", Status: "api", Description: "Full Pokemon card database with market prices from TCGPlayer"},
	{ID: OnePieceTCGID, Name: "One Piece TCG", Status: "api", Description: "One Piece card database with set info and card images"},
	{ID: TargetID, Name: "Target", Status: "api", Description: "Live product search with real-time stock & pricing"},
	{ID: BestBuyID, Name: "Best Buy", Status: "api", Description: "Live product search with availability & store inventory"},
	{ID: EbayID, Name: "eBay", Status: "api", Description: "Live marketplace listings with current prices"},
	{ID: TCGPlayerID, Name: "TCGPlayer", Status: "api", Description: "TCG marketplace prices and listings"},
	{ID: WalmartID, Name: "Walmart", Status: "links", Description: "Quick links to search results"},
	{ID: SamsClubID, Name: "Sam's Club", Status: "links", Description: "Quick links to search results"},
	{ID: PokemonCenterID, Name: "Pokemon Center", Status: "links", Description: "Quick links to categories"},
}

var categories = []CategoryDef{
	// Pokemon TCG API
	{ID: "ptcg-latest", Label: "Latest Set", Source: PokemonTCGID},
	{ID: "ptcg-recent", Label: "Recent Sets", Source: PokemonTCGID},
	{ID: "ptcg-sets", Label: "All Sets", Source: PokemonTCGID},
	{ID: "ptcg-rare", Label: "Rare & Valuable Cards", Source: PokemonTCGID},
	// One Piece TCG API
	{ID: "optcg-latest", Label: "Latest Cards", Source: OnePieceTCGID},
	{ID: "optcg-leaders", Label: "Leader Cards", Source: OnePieceTCGID},
	{ID: "optcg-all", Label: "All Sets", Source: OnePieceTCGID},
	// Target
	{ID: "tgt-pokemon-cards", Label: "Pokemon Cards", Source: TargetID},
	{ID: "tgt-onepiece-cards", Label: "One Piece Cards", Source: TargetID},
	{ID: "tgt-pokemon-etb", Label: "Pokemon ETBs", Source: TargetID},
	{ID: "tgt-pokemon-toys", Label: "Pokemon Toys", Source: TargetID},
	{ID: "tgt-onepiece-figures", Label: "One Piece Figures", Source: TargetID},
	{ID: "tgt-tcg-accessories", Label: "TCG Accessories", Source: TargetID},
	// Best Buy
	{ID: "bb-pokemon-cards", Label: "Pokemon Cards", Source: BestBuyID},
	{ID: "bb-onepiece", Label: "One Piece", Source: BestBuyID},
	{ID: "bb-pokemon-games", Label: "Pokemon Video Games", Source: BestBuyID},
	{ID: "bb-collectibles", Label: "Collectibles & Figures", Source: BestBuyID},
	{ID: "bb-trading-cards", Label: "All Trading Cards", Source: BestBuyID},
	// eBay
	{ID: "ebay-pokemon-cards", Label: "Pokemon Cards", Source: EbayID},
	{ID: "ebay-pokemon-sealed", Label: "Pokemon Sealed Products", Source: EbayID},
	{ID: "ebay-onepiece-cards", Label: "One Piece Cards", Source: EbayID},
	{ID: "ebay-pokemon-etb", Label: "Pokemon ETBs", Source: EbayID},
	// TCGPlayer
	{ID: "tcg-pokemon", Label: "Pokemon Cards", Source: TCGPlayerID},
	{ID: "tcg-onepiece", Label: "One Piece Cards", Source: TCGPlayerID},
	{ID: "tcg-sealed", Label: "Sealed Products", Source: TCGPlayerID},
	// Walmart (links)
	{ID: "wmt-pokemon", Label: "Pokemon Cards", Source: WalmartID},
	{ID: "wmt-onepiece", Label: "One Piece Cards", Source: WalmartID},
	{ID: "wmt-pokemon-toys", Label: "Pokemon Toys", Source: WalmartID},
	// Sam's Club (links)
	{ID: "sc-pokemon", Label: "Pokemon", Source: SamsClubID},
	{ID: "sc-onepiece", Label: "One Piece", Source: SamsClubID},
	// Pokemon Center (links)
	{ID: "pc-tcg", Label: "Trading Cards", Source: PokemonCenterID},
	{ID: "pc-plush", Label: "Plush", Source: PokemonCenterID},
	{ID: "pc-figures", Label: "Figures", Source: PokemonCenterID},
}

var searchLinks = map[string]SearchLink{
	"wmt-pokemon":      {URL: "https://www.walmart.com/search?q=pokemon+trading+cards", Label: "Pokemon Cards on Walmart"},
	"wmt-onepiece":     {URL: "https://www.walmart.com/search?q=one+piece+trading+cards", Label: "One Piece Cards on Walmart"},
	"wmt-pokemon-toys": {URL: "https://www.walmart.com/search?q=pokemon+toys", Label: "Pokemon Toys on Walmart"},
	"sc-pokemon":       {URL: "https://www.samsclub.com/s/pokemon", Label: "Pokemon on Sam's Club"},
	"sc-onepiece":      {URL: "https://www.samsclub.com/s/one+piece", Label: "One Piece on Sam's Club"},
	"pc-tcg":           {URL: "https://www.pokemoncenter.com/category/trading-card-game", Label: "Trading Cards on Pokemon Center"},
	"pc-plush":         {URL: "https://www.pokemoncenter.com/category/plush", Label: "Plush on Pokemon Center"},
	"pc-figures":       {URL: "https://www.pokemoncenter.com/category/figures", Label: "Figures on Pokemon Center"},
}

func Retailers() []RetailerDef { return retailers }

func Categories() []CategoryDef { return categories }

func CategoryByID(id string) (CategoryDef, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryDef{}, false
}

func CategoriesForSource(source string) []CategoryDef {
	out := make([]CategoryDef, 0, 8)
	for _, c := range categories {
		if c.Source == source {
			out = append(out, c)
		}
	}
	return out
}

// SearchLinkFor returns the outbound link for a link-only category, if any.
func SearchLinkFor(categoryID string) (SearchLink, bool) {
	l, ok := searchLinks[categoryID]
	return l, ok
}
