//go:build ignore

// Prints a signed token for a local test account.
//
//	go run scripts/gen_test_token.go [email]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/storage"
	"codeberg.org/lumina/server/lumina/users"
)

func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	db, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	email := "test@lumina.dev"
	if len(os.Args) > 1 {
		email = os.Args[1]
	}

	user, created, err := users.NewRepository(db).FindOrCreateByEmail(ctx, email, "Test User", "")
	if err != nil {
		log.Fatalf("Failed to find or create test user: %v", err)
	}

	if created {
		fmt.Printf("Created test user: %s (ID: %s)\n", user.Email, user.ID)
	} else {
		fmt.Printf("Using existing test user (ID: %s)\n", user.ID)
	}

	codec, err := auth.NewCodec([]byte(cfg.JWTSecret), cfg.JWTExpiresIn)
	if err != nil {
		log.Fatalf("Failed to create codec: %v", err)
	}

	token, err := codec.Issue(auth.ClaimFields{
		Subject: user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	})
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Printf("\nTest token (valid for %s):\n%s\n\n", codec.TTL(), token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}
