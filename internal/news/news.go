package news

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"cardwatch/pkg/models"
)

const (
	fetchTimeout = 8 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Headline keyword classes, checked in priority order deal > restock >
// launch. Anything unmatched is plain news.
var (
	dealRe    = regexp.MustCompile(`(?i)deal|sale|discount|%\s*off`)
	restockRe = regexp.MustCompile(`(?i)restock|back in stock|available now`)
	launchRe  = regexp.MustCompile(`(?i)new|release|launch|reveal|announce|expansion|booster|starter`)
)

func classify(text string) string {
	switch {
	case dealRe.MatchString(text):
		return models.NewsDeal
	case restockRe.MatchString(text):
		return models.NewsRestock
	case launchRe.MatchString(text):
		return models.NewsLaunch
	default:
		return models.NewsGeneral
	}
}

// Scraper collects hobby news from the community and publisher sites. Every
// site is best-effort; a site that fails or times out just contributes
// nothing to the feed.
type Scraper struct{}

func NewScraper() *Scraper {
	return &Scraper{}
}

type siteScrape func(s *Scraper) []models.NewsItem

// ScrapeAll runs all site scrapes concurrently and returns their results in
// fixed site order.
func (s *Scraper) ScrapeAll(ctx context.Context) []models.NewsItem {
	sites := []siteScrape{
		(*Scraper).scrapePokeBeach,
		(*Scraper).scrapePokemonCom,
		(*Scraper).scrapePokeGuardian,
		(*Scraper).scrapeOnePiece,
	}

	batches := make([][]models.NewsItem, len(sites))

	var wg sync.WaitGroup
	for i, site := range sites {
		wg.Add(1)
		go func(i int, site siteScrape) {
			defer wg.Done()
			batches[i] = site(s)
		}(i, site)
	}
	wg.Wait()

	out := make([]models.NewsItem, 0, 24)
	for _, batch := range batches {
		out = append(out, batch...)
	}
	return out
}

func (s *Scraper) scrapePokeBeach() []models.NewsItem {
	return s.scrapeSite(siteDef{
		name:     "PokeBeach",
		url:      "https://www.pokebeach.com/",
		base:     "https://www.pokebeach.com",
		selector: "article, .entry-content .post, .news-post, [class*='post']",
		titleSel: "h2 a, h3 a, .entry-title a",
		descSel:  "p, .entry-summary, .excerpt",
		limit:    10,
	})
}

func (s *Scraper) scrapePokemonCom() []models.NewsItem {
	return s.scrapeSite(siteDef{
		name:     "Pokemon.com",
		url:      "https://www.pokemon.com/us/pokemon-news/",
		base:     "https://www.pokemon.com",
		selector: "li.news-list-item, .news-item, [class*='news'] article, .media-pokemon",
		titleSel: "h3, h2, .title",
		linkSel:  "a",
		descSel:  "p, .description, .summary",
		limit:    10,
	})
}

func (s *Scraper) scrapePokeGuardian() []models.NewsItem {
	return s.scrapeSite(siteDef{
		name:     "PokeGuardian",
		url:      "https://pokeguardian.com/",
		base:     "https://pokeguardian.com",
		selector: "article, .post, [class*='post-item']",
		titleSel: "h2 a, h3 a, .entry-title a, .post-title a",
		descSel:  "p, .excerpt, .entry-summary",
		limit:    8,
	})
}

func (s *Scraper) scrapeOnePiece() []models.NewsItem {
	return s.scrapeSite(siteDef{
		name:     "One Piece TCG",
		url:      "https://en.onepiece-cardgame.com/news/",
		base:     "https://en.onepiece-cardgame.com",
		selector: "article, .news-item, .news-list-item, [class*='news']",
		titleSel: "h2, h3, .title, a[class*='title']",
		linkSel:  "a",
		descSel:  "p, .description, .text",
		limit:    8,
	})
}

// siteDef describes one news site's listing page. When linkSel is empty the
// title selector carries the link too.
type siteDef struct {
	name     string
	url      string
	base     string
	selector string
	titleSel string
	linkSel  string
	descSel  string
	limit    int
}

func (s *Scraper) scrapeSite(def siteDef) []models.NewsItem {
	items := make([]models.NewsItem, 0, def.limit)

	c := newCollector()
	c.OnHTML(def.selector, func(e *colly.HTMLElement) {
		if len(items) >= def.limit {
			return
		}

		sel := e.DOM
		titleEl := sel.Find(def.titleSel).First()
		title := strings.TrimSpace(titleEl.Text())

		linkEl := titleEl
		if def.linkSel != "" {
			linkEl = sel.Find(def.linkSel).First()
		}
		href, _ := linkEl.Attr("href")
		if title == "" || href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = def.base + href
		}

		desc := strings.TrimSpace(sel.Find(def.descSel).First().Text())
		if len(desc) > 200 {
			desc = desc[:200]
		}

		items = append(items, models.NewsItem{
			Title:       title,
			Description: desc,
			URL:         href,
			Date:        itemDate(sel),
			Source:      def.name,
			ImageURL:    itemImage(sel),
			Type:        classify(title + desc),
		})
	})

	if err := c.Visit(def.url); err != nil {
		log.Printf("[news] %s: %v", def.name, err)
		return nil
	}
	c.Wait()
	return items
}

func itemDate(sel *goquery.Selection) string {
	if d := strings.TrimSpace(sel.Find("time, .date, .entry-date, [class*='date']").First().Text()); d != "" {
		return d
	}
	if d, ok := sel.Find("time").First().Attr("datetime"); ok && d != "" {
		return d
	}
	return time.Now().UTC().Format("2006-01-02")
}

func itemImage(sel *goquery.Selection) *string {
	img := sel.Find("img").First()
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := img.Attr(attr); ok && v != "" {
			return &v
		}
	}
	return nil
}

func newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(fetchTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})
	return c
}
