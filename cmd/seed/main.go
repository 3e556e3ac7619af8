package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

func main() {
	dbPath := os.Getenv("LJ_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/labjournal.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Chemical{},
		&models.Experiment{},
		&models.AuditEntry{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.Setting{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	if err := services.SeedSystemRoles(db); err != nil {
		log.Fatal("Failed to seed system roles:", err)
	}
	fmt.Println("✓ System roles seeded")

	// Seed sample chemicals
	lowThreshold := 50.0
	chemicals := []models.Chemical{
		{
			UUID:              uuid.NewString(),
			Name:              "Sodium Chloride",
			Quantity:          500,
			Unit:              "g",
			UnitType:          models.UnitTypeWeight,
			Location:          "Shelf A3",
			Supplier:          "Sigma-Aldrich",
			SafetyData:        "Low hazard. Avoid inhalation of dust.",
			LowStockAlert:     true,
			LowStockThreshold: &lowThreshold,
		},
		{
			UUID:       uuid.NewString(),
			Name:       "Ethanol",
			Quantity:   2.5,
			Unit:       "L",
			UnitType:   models.UnitTypeVolume,
			Location:   "Flammables cabinet",
			Supplier:   "Fisher Scientific",
			SafetyData: "Highly flammable. Keep away from ignition sources.",
		},
		{
			UUID:       uuid.NewString(),
			Name:       "Hydrochloric Acid",
			Quantity:   1,
			Unit:       "L",
			UnitType:   models.UnitTypeVolume,
			Location:   "Acids cabinet",
			Supplier:   "Merck",
			SafetyData: "Corrosive. Use in fume hood with gloves and goggles.",
		},
	}

	for _, chem := range chemicals {
		result := db.Where("name = ?", chem.Name).FirstOrCreate(&chem)
		if result.Error != nil {
			log.Printf("Failed to seed chemical %s: %v", chem.Name, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created chemical: %s\n", chem.Name)
		} else {
			fmt.Printf("  Chemical already exists: %s\n", chem.Name)
		}
	}

	// Seed settings
	settings := []models.Setting{
		{Key: "app_name", Value: "LabJournal", Type: "string", Category: "general"},
		{Key: "low_stock_default_threshold", Value: "50", Type: "number", Category: "inventory"},
		{Key: "expiry_warning_days", Value: "30", Type: "number", Category: "inventory"},
	}

	for _, setting := range settings {
		result := db.Where("key = ?", setting.Key).FirstOrCreate(&setting)
		if result.Error != nil {
			log.Printf("Failed to seed setting %s: %v", setting.Key, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created setting: %s = %s\n", setting.Key, setting.Value)
		} else {
			fmt.Printf("  Setting already exists: %s\n", setting.Key)
		}
	}

	// Seed default admin user
	defaultAdminEmail := os.Getenv("LJ_DEFAULT_ADMIN_EMAIL")
	if defaultAdminEmail == "" {
		defaultAdminEmail = "admin@localhost"
	}
	defaultAdminPassword := os.Getenv("LJ_DEFAULT_ADMIN_PASSWORD")
	forceAdmin := os.Getenv("LJ_FORCE_DEFAULT_ADMIN") == "1"

	user := models.User{
		UUID:   uuid.NewString(),
		Email:  defaultAdminEmail,
		Name:   "Administrator",
		Role:   models.SystemRoleAdmin,
		Active: true,
	}

	// If a default password provided, use SetPassword to generate a proper bcrypt hash
	if defaultAdminPassword != "" {
		if err := user.SetPassword(defaultAdminPassword); err != nil {
			log.Printf("Failed to hash default admin password: %v", err)
		}
	} else {
		// Placeholder hash, not loginable until reset-password is run
		user.PasswordHash = "$2a$10$example_hashed_password"
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err != nil {
		result := db.Create(&user)
		if result.Error != nil {
			log.Printf("Failed to seed user: %v", result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created default user: %s\n", user.Email)
		}
	} else if forceAdmin && defaultAdminPassword != "" {
		existing.Role = models.SystemRoleAdmin
		existing.Active = true
		if err := existing.SetPassword(defaultAdminPassword); err == nil {
			db.Save(&existing)
			fmt.Printf("✓ Updated existing admin user password for: %s\n", existing.Email)
		} else {
			log.Printf("Failed to update existing admin password: %v", err)
		}
	} else {
		fmt.Printf("  User already exists: %s\n", existing.Email)
	}

	// Seed a sample experiment owned by the admin account
	exp := models.Experiment{
		UUID:        uuid.NewString(),
		Title:       "Buffer calibration baseline",
		Description: "Reference run for pH buffer calibration.",
		Date:        time.Now().AddDate(0, 0, -7),
		CreatedBy:   user.UUID,
	}
	result := db.Where("title = ?", exp.Title).FirstOrCreate(&exp)
	if result.Error != nil {
		log.Printf("Failed to seed experiment: %v", result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("✓ Created experiment: %s\n", exp.Title)
	} else {
		fmt.Printf("  Experiment already exists: %s\n", exp.Title)
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
	fmt.Println("  You can now start the application and see sample data.")
}
