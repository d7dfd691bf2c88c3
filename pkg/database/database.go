package database

import (
	"fmt"
	"log"

	"masteryloop_backend/internal/config"
	"masteryloop_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the connection pool. Schema migration and seeding run only
// when migrate is set; release deployments migrate explicitly via the
// -migrate flag.
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.ModuleProgress{},
		&model.LearningPathEntry{},
		&model.QuizResultRecord{},
		&model.CareerProfile{},
		&model.SprintTask{},
		&model.Settings{},
		&model.FocusQuote{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedFocusQuotes(db)

	return db, nil
}

// seedFocusQuotes inserts the default Today Focus rotation when empty.
func seedFocusQuotes(db *gorm.DB) {
	var count int64
	db.Model(&model.FocusQuote{}).Count(&count)
	if count != 0 {
		return
	}

	defaults := []string{
		"Mastery is built one concept at a time. Close the loop.",
		"You don't have to be great to start, but you have to start to be great.",
		"Consistency beats intensity. Show up for today's concept.",
		"Every failed quiz is data. Reteach, retry, pass.",
	}
	for i, content := range defaults {
		quote := &model.FocusQuote{
			Content:         content,
			IsEnabled:       true,
			IsCurrentlyUsed: i == 0,
		}
		db.Create(quote)
	}
}
