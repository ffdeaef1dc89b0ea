package config

import (
	"fmt"
	"log"
	"os"

	"github.com/charlotte58cafe/loyalty-be/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to the database:", err)
	}

	DB = database

	// Auto migrate the schema
	err = DB.AutoMigrate(
		&models.User{},
		&models.Staff{},
		&models.Reward{},
		&models.Transaction{},
		&models.PointLog{},
		&models.RewardRedemption{},
		&models.SystemConfig{},
		&models.VerificationToken{},
	)
	if err != nil {
		log.Fatal("Failed to migrate the database:", err)
	}

	log.Println("Database connected and migrated")
}
