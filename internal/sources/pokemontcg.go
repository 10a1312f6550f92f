package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"cardwatch/pkg/models"
)

// Pokemon TCG API base (public, no key needed)
const pokemonTCGBase = "https://api.pokemontcg.io/v2"

// PokemonTCG discovers sets and cards from the Pokemon TCG card database.
// Prices come from the structured tcgplayer block and are authoritative.
type PokemonTCG struct {
	client *Client
}

func NewPokemonTCG(client *Client) *PokemonTCG {
	return &PokemonTCG{client: client}
}

func (s *PokemonTCG) ID() string { return PokemonTCGID }

// Lookup is not applicable: pokemontcg.io is a database, not a store, and
// its listing URLs point at the marketplace adapters' hosts.
func (s *PokemonTCG) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	return nil
}

type ptcgSet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Series string `json:"series"`
	Images struct {
		Logo string `json:"logo"`
	} `json:"images"`
}

type ptcgCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Set    struct {
		Name string `json:"name"`
	} `json:"set"`
	Supertype string `json:"supertype"`
	Images    struct {
		Small string `json:"small"`
	} `json:"images"`
	TCGPlayer struct {
		URL    string                        `json:"url"`
		Prices map[string]map[string]float64 `json:"prices"`
	} `json:"tcgplayer"`
}

func (s *PokemonTCG) Discover(ctx context.Context, categoryID string) []models.CatalogEntry {
	switch categoryID {
	case "ptcg-sets":
		return s.discoverSets(ctx)
	case "ptcg-rare":
		return s.discoverRare(ctx)
	case "ptcg-latest":
		return s.discoverRecent(ctx, 1)
	case "ptcg-recent":
		return s.discoverRecent(ctx, 3)
	}
	return nil
}

func (s *PokemonTCG) discoverSets(ctx context.Context) []models.CatalogEntry {
	sets, err := s.fetchSets(ctx, 20)
	if err != nil {
		log.Printf("[sources] pokemontcg sets: %v", err)
		return nil
	}

	out := make([]models.CatalogEntry, 0, len(sets))
	for _, set := range sets {
		out = append(out, models.CatalogEntry{
			Name:       fmt.Sprintf("%s (%s)", set.Name, set.Series),
			InStock:    true,
			ImageURL:   strPtr(set.Images.Logo),
			ProductURL: "https://www.pokemontcg.io/sets/" + set.ID,
			Source:     PokemonTCGID,
			Category:   strPtr("Set"),
		})
	}
	return out
}

func (s *PokemonTCG) discoverRare(ctx context.Context) []models.CatalogEntry {
	q := url.Values{}
	q.Set("q", `rarity:"Illustration Rare" OR rarity:"Special Art Rare" OR rarity:"Hyper Rare" OR rarity:"Secret Rare"`)
	q.Set("orderBy", "-set.releaseDate")
	q.Set("pageSize", "48")
	q.Set("select", "id,name,set,images,tcgplayer,rarity")

	cards, err := s.fetchCards(ctx, q)
	if err != nil {
		log.Printf("[sources] pokemontcg rare cards: %v", err)
		return nil
	}

	out := make([]models.CatalogEntry, 0, len(cards))
	for _, card := range cards {
		rarity := card.Rarity
		if rarity == "" {
			rarity = "Rare"
		}
		out = append(out, s.normalizeCard(card, fmt.Sprintf("%s (%s) - %s", card.Name, rarity, card.Set.Name), rarity))
	}
	return out
}

func (s *PokemonTCG) discoverRecent(ctx context.Context, setCount int) []models.CatalogEntry {
	sets, err := s.fetchSets(ctx, setCount)
	if err != nil {
		log.Printf("[sources] pokemontcg recent sets: %v", err)
		return nil
	}

	var out []models.CatalogEntry
	for _, set := range sets {
		q := url.Values{}
		q.Set("q", "set.id:"+set.ID)
		q.Set("pageSize", "50")
		q.Set("select", "id,name,set,images,tcgplayer,supertype,rarity")

		cards, err := s.fetchCards(ctx, q)
		if err != nil {
			log.Printf("[sources] pokemontcg cards for set %s: %v", set.ID, err)
			continue
		}

		for _, card := range cards {
			name := card.Name
			if card.Rarity != "" {
				name = fmt.Sprintf("%s (%s)", name, card.Rarity)
			}
			category := card.Rarity
			if category == "" {
				category = card.Supertype
			}
			out = append(out, s.normalizeCard(card, name+" - "+set.Name, category))
		}
	}
	return out
}

// normalizeCard maps one API card onto the canonical schema. Card database
// entries are browsable references, so they are always "in stock".
func (s *PokemonTCG) normalizeCard(card ptcgCard, name, category string) models.CatalogEntry {
	productURL := card.TCGPlayer.URL
	if productURL == "" {
		productURL = "https://www.pokemontcg.io/card/" + card.ID
	}
	return models.CatalogEntry{
		Name:       name,
		Price:      marketPrice(card.TCGPlayer.Prices),
		InStock:    true,
		ImageURL:   strPtr(card.Images.Small),
		ProductURL: productURL,
		Source:     PokemonTCGID,
		Category:   strPtr(category),
	}
}

// marketPrice picks the market price from the tcgplayer price blocks,
// preferring the common printings so the choice is deterministic.
func marketPrice(prices map[string]map[string]float64) *float64 {
	for _, variant := range []string{"normal", "holofoil", "reverseHolofoil", "1stEditionHolofoil"} {
		if block, ok := prices[variant]; ok {
			if m := block["market"]; m > 0 {
				return floatPtr(m)
			}
		}
	}
	for _, block := range prices {
		if m := block["market"]; m > 0 {
			return floatPtr(m)
		}
	}
	return nil
}

func (s *PokemonTCG) fetchSets(ctx context.Context, pageSize int) ([]ptcgSet, error) {
	q := url.Values{}
	q.Set("orderBy", "-releaseDate")
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))

	body, err := s.client.GetJSON(ctx, PokemonTCGID, pokemonTCGBase+"/sets?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []ptcgSet `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("pokemontcg: decode sets: %w", err)
	}
	return resp.Data, nil
}

func (s *PokemonTCG) fetchCards(ctx context.Context, q url.Values) ([]ptcgCard, error) {
	body, err := s.client.GetJSON(ctx, PokemonTCGID, pokemonTCGBase+"/cards?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []ptcgCard `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("pokemontcg: decode cards: %w", err)
	}
	return resp.Data, nil
}
