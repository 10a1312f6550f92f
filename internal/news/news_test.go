package news

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cardwatch/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Black Friday sale on booster boxes", models.NewsDeal},
		{"Surging Sparks restock at Target", models.NewsRestock},
		{"Prismatic Evolutions back in stock", models.NewsRestock},
		{"New expansion revealed for 2026", models.NewsLaunch},
		{"OP-10 booster launch date announced", models.NewsLaunch},
		{"Tournament results from Worlds", models.NewsGeneral},
		// deal wins over launch when both match
		{"New set on sale this week", models.NewsDeal},
	}
	for _, tt := range tests {
		if got := classify(tt.text); got != tt.want {
			t.Errorf("classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestScrapeSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<article>
				<h2><a href="/news/restock-alert">Booster boxes back in stock</a></h2>
				<p>Retailers have restocked the latest set at MSRP pricing for the first time in weeks.</p>
				<img src="https://cdn.example.com/restock.jpg">
				<time datetime="2026-08-30">Aug 30</time>
			</article>
			<article>
				<h2><a href="https://external.example.com/full">Set reveal announced</a></h2>
				<p>A brand new expansion.</p>
			</article>
			<article>
				<h2><a href="/ignored">&nbsp;</a></h2>
			</article>
		</body></html>`))
	}))
	defer srv.Close()

	s := NewScraper()
	items := s.scrapeSite(siteDef{
		name:     "Test Site",
		url:      srv.URL,
		base:     "https://test.example.com",
		selector: "article",
		titleSel: "h2 a",
		descSel:  "p",
		limit:    10,
	})

	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}

	first := items[0]
	if first.Title != "Booster boxes back in stock" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://test.example.com/news/restock-alert" {
		t.Errorf("relative href not resolved: %q", first.URL)
	}
	if first.Type != models.NewsRestock {
		t.Errorf("type = %q", first.Type)
	}
	if first.ImageURL == nil || *first.ImageURL != "https://cdn.example.com/restock.jpg" {
		t.Errorf("image = %v", first.ImageURL)
	}
	if first.Date != "Aug 30" {
		t.Errorf("date = %q", first.Date)
	}
	if first.Source != "Test Site" {
		t.Errorf("source = %q", first.Source)
	}

	second := items[1]
	if second.URL != "https://external.example.com/full" {
		t.Errorf("absolute href rewritten: %q", second.URL)
	}
	if second.Type != models.NewsLaunch {
		t.Errorf("type = %q", second.Type)
	}
	if second.ImageURL != nil {
		t.Errorf("image = %v, want nil", second.ImageURL)
	}
}

func TestScrapeSiteLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<article><h2><a href="/1">One</a></h2></article>
			<article><h2><a href="/2">Two</a></h2></article>
			<article><h2><a href="/3">Three</a></h2></article>
		</body></html>`))
	}))
	defer srv.Close()

	items := NewScraper().scrapeSite(siteDef{
		name:     "Test Site",
		url:      srv.URL,
		base:     "https://test.example.com",
		selector: "article",
		titleSel: "h2 a",
		descSel:  "p",
		limit:    2,
	})
	if len(items) != 2 {
		t.Fatalf("len = %d, want limit 2", len(items))
	}
}

func TestScrapeSiteFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	items := NewScraper().scrapeSite(siteDef{
		name:     "Down Site",
		url:      srv.URL,
		selector: "article",
		titleSel: "h2 a",
		descSel:  "p",
		limit:    5,
	})
	if items != nil {
		t.Errorf("items = %+v, want nil on fetch failure", items)
	}
}
