// Command promote sets a user's role to admin by email address.
// It is used to bootstrap the first admin user.
//
// Usage:
//
//	promote --email=user@example.com
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/mediareport-backend/internal/config"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

func main() {
	email := flag.String("email", "", "email of user to promote to admin")
	demote := flag.Bool("staff", false, "set the role back to staff instead")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com [--staff]")
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DatabaseConfig{
		DSN:             dsn,
		MaxConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	role := domain.RoleAdmin
	if *demote {
		role = domain.RoleStaff
	}

	if err := user.New(pool).SetRole(ctx, *email, role); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			fmt.Printf("No user found with email %q.\n", *email)
			os.Exit(1)
		}
		log.Fatalf("update role: %v", err)
	}

	fmt.Printf("User %q is now %s.\n", *email, role)
}
