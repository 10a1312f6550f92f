package main

import (
	"context"
	"log"
	"time"

	"cardwatch/internal/notify"
	"cardwatch/internal/sources"
	"cardwatch/internal/watchlist"
	"cardwatch/pkg/database"
	"cardwatch/pkg/utils"
)

// One-shot watchlist refresh for cron. Re-checks every tracked item, prints
// the alert set and sends the restock email when notifications are on.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	// Ensure schema exists
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := watchlist.NewRepo(db)
	svc := watchlist.NewService(repo, sources.NewRegistry())

	result, err := svc.RefreshAll(ctx)
	if err != nil {
		log.Fatalf("refresh failed: %v", err)
	}

	log.Printf("refreshed %d items, %d alerting", len(result.Items), len(result.Alerts))
	for _, item := range result.Alerts {
		log.Printf("  RESTOCK %s (%s) %s", item.Name, item.Source, item.URL)
	}

	if len(result.Alerts) == 0 {
		return
	}

	settings, err := notify.NewSettingsRepo(db).Get(ctx)
	if err != nil {
		log.Fatalf("load email settings: %v", err)
	}
	if !settings.Enabled || !settings.Configured() {
		log.Println("email notifications disabled, skipping")
		return
	}

	mailer := notify.NewMailer(utils.LoadSMTPConfig())
	if err := mailer.SendRestock(settings, result.Alerts); err != nil {
		log.Fatalf("restock email failed: %v", err)
	}
	log.Println("restock email sent")
}
