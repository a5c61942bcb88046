package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/config"
	"github.com/francisco-dev-ao/angohost-api/internal/repository/postgres"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/check-domain/main.go <domain> [domain...]")
		fmt.Println("Example: go run cmd/check-domain/main.go exemplo.ao loja.co.ao")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	domains := service.NewDomainService(repos.Domain, service.NopFeed{}, logger)

	exitCode := 0
	for _, name := range os.Args[1:] {
		available, err := domains.CheckAvailability(context.Background(), name)
		if err != nil {
			fmt.Printf("%-30s error: %v\n", name, err)
			exitCode = 1
			continue
		}
		if available {
			fmt.Printf("%-30s available\n", name)
		} else {
			fmt.Printf("%-30s taken\n", name)
		}
	}
	os.Exit(exitCode)
}
