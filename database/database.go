// File: /database/database.go
package database

import (
	"fmt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"mutiroes-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.EventCategory{},
		&models.Event{},
		&models.EventParticipant{},
		&models.EventResource{},
		&models.EventReport{},
		&models.UserBadge{},
		&models.UserBadgeEarned{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Composite indexes for the hot listing queries

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_status_start ON events(status, start_date)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_organizer_created ON events(organizer_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events organizer: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_city_state ON events(city, state)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events location: %v\n", err)
	}

	// Ledger scans are always scoped to one event
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_event_participants_event_status ON event_participants(event_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for event_participants: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_event_participants_user ON event_participants(user_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for event_participants user: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// One participation row per (event, user). The admission service already
	// serializes joins; this backs the invariant at the storage layer.
	if err := db.Exec("ALTER TABLE event_participants ADD CONSTRAINT uk_event_participants_event_user UNIQUE (event_id, user_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for event_participants: %v\n", err)
	}

	// One report per event
	if err := db.Exec("ALTER TABLE event_reports ADD CONSTRAINT uk_event_reports_event UNIQUE (event_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for event_reports: %v\n", err)
	}

	// Each badge earned at most once per user
	if err := db.Exec("ALTER TABLE user_badge_earneds ADD CONSTRAINT uk_user_badges_user_badge UNIQUE (user_id, badge_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for user_badge_earneds: %v\n", err)
	}

	return nil
}

// SeedData populates the category and badge catalogs for development.
func SeedData(db *gorm.DB) error {
	var categoryCount int64
	db.Model(&models.EventCategory{}).Count(&categoryCount)

	if categoryCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	categories := []models.EventCategory{
		{Name: "Limpeza", Description: "Mutirões de limpeza de praias, rios e áreas públicas", Icon: "trash", Color: "#007AFF"},
		{Name: "Plantio", Description: "Plantio de árvores e recuperação de áreas verdes", Icon: "tree", Color: "#34C759"},
		{Name: "Monitoramento", Description: "Monitoramento ambiental e coleta de dados", Icon: "binoculars", Color: "#FF9500"},
	}

	for _, category := range categories {
		if err := db.Create(&category).Error; err != nil {
			fmt.Printf("Warning: Could not create category %s: %v\n", category.Name, err)
		}
	}

	badges := []models.UserBadge{
		{Name: "Primeiro Mutirão", Description: "Participou do primeiro mutirão", Icon: "seedling", BadgeType: models.BadgeParticipation, MinEvents: 1},
		{Name: "Voluntário Dedicado", Description: "Participou de 5 mutirões", Icon: "star", BadgeType: models.BadgeParticipation, MinEvents: 5},
		{Name: "Guardião Ambiental", Description: "Acumulou 40 horas de voluntariado", Icon: "shield", BadgeType: models.BadgeAchievement, MinEvents: 5, MinHours: 40},
	}

	for _, badge := range badges {
		if err := db.Create(&badge).Error; err != nil {
			fmt.Printf("Warning: Could not create badge %s: %v\n", badge.Name, err)
		}
	}

	fmt.Println("Database seeded with categories and badges")
	return nil
}
