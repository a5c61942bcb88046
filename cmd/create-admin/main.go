package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/config"
	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-admin/main.go <name> <email> <password>")
		fmt.Println("Example: go run cmd/create-admin/main.go \"Joana Neto\" joana@angohost.ao \"senha-segura\"")
		os.Exit(1)
	}

	name := os.Args[1]
	email := os.Args[2]
	password := os.Args[3]

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

	// Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create admin user
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	if err := repos.User.Create(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin created successfully!\n")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Name:  %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
}
