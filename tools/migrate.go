package main

import (
	"fmt"
	"os"

	"event-guard/config"
	"event-guard/database"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "migrate" {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate   - Run schema migrations and create indexes")
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🚀 Running database migrations...")
	if _, err := database.InitDB(cfg); err != nil {
		fmt.Printf("❌ Migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Migration completed successfully!")
}
