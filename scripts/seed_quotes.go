// One-off seeding of the focus quote rotation.
//
// The dashboard rotates whichever quotes exist in the focus_quotes table; a
// fresh database has none, so the quote endpoint falls back to a built-in
// line. Run this after the first migration to load a starter set.
//
// Usage: go run scripts/seed_quotes.go

package main

import (
	"log"

	"masteryloop_backend/internal/config"
	"masteryloop_backend/internal/model"
	"masteryloop_backend/pkg/database"
	"masteryloop_backend/pkg/logger"
)

var starterQuotes = []string{
	"Mastery is built one concept at a time.",
	"Struggling with a quiz means the next explanation will stick better.",
	"Ten focused minutes beat an hour of distracted reading.",
	"You do not need to be perfect, you need to be one step further than yesterday.",
	"Every reteach loop you finish is a gap you closed for good.",
	"Slow is smooth, smooth is fast.",
}

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var count int64
	if err := db.Model(&model.FocusQuote{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to inspect focus_quotes: %v", err)
	}
	if count > 0 {
		log.Printf("focus_quotes already has %d rows, nothing to do", count)
		return
	}

	for i, content := range starterQuotes {
		quote := model.FocusQuote{
			Content:         content,
			IsEnabled:       true,
			IsCurrentlyUsed: i == 0,
		}
		if err := db.Create(&quote).Error; err != nil {
			log.Fatalf("Failed to insert quote %d: %v", i+1, err)
		}
	}

	log.Printf("Seeded %d focus quotes", len(starterQuotes))
}
