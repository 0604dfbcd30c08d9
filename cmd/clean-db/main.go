// Command-line tool to clean the database by dropping all tables.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"CampusHire-backend/internal/config"
	"CampusHire-backend/internal/database"
)

func main() {

	fmt.Println("⚠️ WARNING: This command will DROP ALL TABLES of your database.")
	fmt.Println("This action is irreversible. Do you want to continue? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	input = strings.TrimSpace(strings.ToLower(input))

	if input != "yes" {
		fmt.Println("Operation cancelled.")
		return
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

	if err := database.DropAllTables(db); err != nil {
		log.Fatalf("failed to drop tables: %v", err)
	}

	fmt.Println("✅ All tables dropped successfully.")
}
