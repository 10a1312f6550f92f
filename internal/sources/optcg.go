package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"cardwatch/pkg/models"
)

const optcgBase = "https://optcgapi.com/api"

// OnePieceTCG discovers cards and sets from the One Piece TCG database.
// The upstream JSON is loosely shaped (field names drift between deploys),
// so every shape variant is probed in exactly one place: normalizeCard.
type OnePieceTCG struct {
	client *Client
}

func NewOnePieceTCG(client *Client) *OnePieceTCG {
	return &OnePieceTCG{client: client}
}

func (s *OnePieceTCG) ID() string { return OnePieceTCGID }

// Lookup is not applicable: the card database has no storefront listings.
func (s *OnePieceTCG) Lookup(ctx context.Context, rawURL string) *models.CatalogEntry {
	return nil
}

// optcgCard carries every field name variant the API has been observed to
// use. Only normalizeCard reads these.
type optcgCard struct {
	Name      string   `json:"name"`
	CardName  string   `json:"card_name"`
	CardID    string   `json:"card_id"`
	Code      string   `json:"code"`
	ID        any      `json:"id"`
	SetName   string   `json:"set_name"`
	SeriesNm  string   `json:"series_name"`
	Set       string   `json:"set"`
	Image     string   `json:"image"`
	CardImage string   `json:"card_image"`
	Img       string   `json:"img"`
	Type      string   `json:"type"`
	CardType  string   `json:"card_type"`
	Category  string   `json:"category"`
	Color     string   `json:"color"`
	CardColor string   `json:"card_color"`
	Price     *float64 `json:"price"`
	URL       string   `json:"url"`
}

func (s *OnePieceTCG) Discover(ctx context.Context, categoryID string) []models.CatalogEntry {
	if categoryID == "optcg-all" {
		return s.discoverSeries(ctx)
	}

	u := optcgBase + "/cards?limit=48"
	switch categoryID {
	case "optcg-leaders":
		u += "&type=Leader"
	case "optcg-latest":
		u += "&ordering=-id"
	default:
		return nil
	}

	body, err := s.client.GetJSON(ctx, OnePieceTCGID, u)
	if err != nil {
		log.Printf("[sources] optcg cards: %v", err)
		return nil
	}

	cards, err := decodeOPTCGList[optcgCard](body)
	if err != nil {
		log.Printf("[sources] optcg decode: %v", err)
		return nil
	}

	out := make([]models.CatalogEntry, 0, len(cards))
	for _, card := range cards {
		out = append(out, s.normalizeCard(card))
	}
	return out
}

type optcgSeries struct {
	ID    any    `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Image string `json:"image"`
}

func (s *OnePieceTCG) discoverSeries(ctx context.Context) []models.CatalogEntry {
	body, err := s.client.GetJSON(ctx, OnePieceTCGID, optcgBase+"/series")
	if err != nil {
		log.Printf("[sources] optcg series: %v", err)
		return nil
	}

	series, err := decodeOPTCGList[optcgSeries](body)
	if err != nil {
		log.Printf("[sources] optcg series decode: %v", err)
		return nil
	}
	if len(series) > 20 {
		series = series[:20]
	}

	out := make([]models.CatalogEntry, 0, len(series))
	for _, sr := range series {
		name := sr.Name
		if name == "" {
			name = sr.Title
		}
		if name == "" {
			name = fmt.Sprintf("Set %v", sr.ID)
		}
		out = append(out, models.CatalogEntry{
			Name:       name,
			InStock:    true,
			ImageURL:   strPtr(sr.Image),
			ProductURL: "https://en.onepiece-cardgame.com/",
			Source:     OnePieceTCGID,
			Category:   strPtr("Set"),
		})
	}
	return out
}

// normalizeCard is the single boundary where upstream shape drift is
// absorbed: every "field A, else field B" probe lives here.
func (s *OnePieceTCG) normalizeCard(card optcgCard) models.CatalogEntry {
	name := firstNonEmpty(card.Name, card.CardName, "Unknown Card")
	code := firstNonEmpty(card.CardID, card.Code, fmt.Sprintf("%v", card.ID))
	set := firstNonEmpty(card.SetName, card.SeriesNm, card.Set)
	image := firstNonEmpty(card.Image, card.CardImage, card.Img)
	cardType := firstNonEmpty(card.Type, card.CardType, card.Category)
	color := firstNonEmpty(card.Color, card.CardColor)

	display := name
	if set != "" {
		display += " - " + set
	}
	if code != "" && code != "<nil>" {
		display += " [" + code + "]"
	}

	category := strings.Join(nonEmpty(cardType, color), " / ")

	productURL := card.URL
	if productURL == "" {
		productURL = "https://en.onepiece-cardgame.com/"
	}

	return models.CatalogEntry{
		Name:       display,
		Price:      card.Price,
		InStock:    true,
		ImageURL:   strPtr(image),
		ProductURL: productURL,
		Source:     OnePieceTCGID,
		Category:   strPtr(category),
	}
}

// decodeOPTCGList accepts both response envelopes the API serves:
// a bare array, or {"results": [...]}.
func decodeOPTCGList[T any](body []byte) ([]T, error) {
	var bare []T
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("optcg: unexpected response shape: %w", err)
	}
	return wrapped.Results, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
