// Command create-college creates a college account with generated credentials
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"CampusHire-backend/internal/config"
	"CampusHire-backend/internal/database"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused address is found
func generateUniqueEmail(db *gorm.DB, domain string) string {
	for {
		email := "college_" + generateRandomString(4) + "@" + domain
		var count int64
		db.Model(&model.User{}).Where("email = ?", email).Count(&count)
		if count == 0 {
			return email
		}
	}
}

func main() {
	name := flag.String("name", "", "college display name, used to match students")
	domain := flag.String("domain", "campushire.local", "email domain for the generated account")
	flag.Parse()

	if strings.TrimSpace(*name) == "" {
		fmt.Println("usage: create-college -name \"Tech U\" [-domain techu.edu]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	db, err := database.NewDBInstance(database.NewDBConfig(cfg.Database))
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	email := generateUniqueEmail(db.DB, *domain)
	password := generateRandomString(8)

	hashedPassword, err := utilities.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	college := model.User{
		Email:    email,
		Name:     strings.TrimSpace(*name),
		Role:     model.RoleCollege,
		Password: hashedPassword,
	}
	if err := db.Create(&college).Error; err != nil {
		log.Fatal("failed to create college: ", err)
	}

	// Print credentials (only show plain password here!)
	fmt.Println("College credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Name:     %s\n", college.Name)
	fmt.Printf("Email:    %s\n", college.Email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")
}
