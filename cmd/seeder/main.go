package main

import (
	"log"

	"github.com/google/uuid"
	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/internal/seeds"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations (just in case)...")
	database.DB.AutoMigrate(
		&models.User{},
		&models.CursorRule{},
		&models.RuleRequest{},
		&models.Like{},
		&models.RuleView{},
		&models.RuleCopy{},
		&models.Notification{},
		&models.SystemSettings{},
		&models.AdminAuditLog{},
	)

	log.Println("Seeding demo user...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)

	var demo models.User
	if err := database.DB.Where("email = ?", "demo@example.com").First(&demo).Error; err != nil {
		demo = models.User{
			ID:       uuid.New().String(),
			Email:    "demo@example.com",
			Name:     "Demo User",
			Username: "demo",
			Password: string(hash),
			Role:     models.RoleUser,
		}
		if err := database.DB.Create(&demo).Error; err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
	}
	log.Printf("Using user: %s (%s)", demo.Email, demo.ID)

	log.Println("Seeding sample rules...")
	for _, rule := range seeds.SampleRules() {
		var existing models.CursorRule
		if err := database.DB.Where("title = ? AND user_id = ?", rule.Title, demo.ID).First(&existing).Error; err == nil {
			log.Printf("Rule already exists, skipping: %s", rule.Title)
			continue
		}
		rule.ID = uuid.New().String()
		rule.UserID = demo.ID
		if err := database.DB.Create(&rule).Error; err != nil {
			log.Fatalf("Failed to create rule %q: %v", rule.Title, err)
		}
		log.Printf("Created rule: %s", rule.Title)
	}

	log.Println("Seeding default system settings...")
	for _, setting := range seeds.DefaultSystemSettings() {
		var existing models.SystemSettings
		if err := database.DB.Where("key = ?", setting.Key).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&setting).Error; err != nil {
			log.Fatalf("Failed to create setting %q: %v", setting.Key, err)
		}
	}

	log.Println("Seed completed!")
}
