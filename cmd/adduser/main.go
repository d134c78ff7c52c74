package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/auth"
	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
	"github.com/saturnino-fabrica-de-software/ponto/internal/database"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	name := flag.String("name", "", "Full name")
	email := flag.String("email", "", "Email address")
	password := flag.String("password", "", "Password (default: email local part + 123)")
	admin := flag.Bool("admin", false, "Grant admin privileges")
	flag.Parse()

	if *name == "" || *email == "" {
		flag.Usage()
		return fmt.Errorf("name and email are required")
	}

	normalized := strings.ToLower(strings.TrimSpace(*email))
	if !strings.Contains(normalized, "@") {
		return fmt.Errorf("invalid email: %s", *email)
	}

	pass := *password
	if pass == "" {
		pass = auth.DefaultPassword(normalized)
	}

	hash, err := auth.HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(*name),
		Email:        normalized,
		PasswordHash: hash,
		IsAdmin:      *admin,
	}

	users := repository.NewUserRepository(pool)
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("Created user %s <%s> (id=%s admin=%v)\n", user.Name, user.Email, user.ID, user.IsAdmin)
	if *password == "" {
		fmt.Printf("Default password: %s\n", pass)
	}
	return nil
}
