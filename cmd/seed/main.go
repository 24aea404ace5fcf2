// Command seed provisions the bootstrap administrator account and a handful
// of sample stores with owners. It is idempotent: existing accounts are left
// untouched.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"storeratings/internal/auth"
	"storeratings/internal/config"
	"storeratings/internal/db"
	"storeratings/internal/domain"
	"storeratings/internal/repository"
)

type sampleStore struct {
	name       string
	email      string
	address    string
	ownerName  string
	ownerEmail string
}

var sampleStores = []sampleStore{
	{
		name:       "TechMart Electronics",
		email:      "contact@techmart.com",
		address:    "123 Tech Street, Silicon Valley, CA 94000",
		ownerName:  "John Smith (TechMart Electronics)",
		ownerEmail: "john@techmart.com",
	},
	{
		name:       "Fresh Grocery Store",
		email:      "info@freshgrocery.com",
		address:    "456 Market Avenue, Downtown, NY 10001",
		ownerName:  "Sarah Johnson (Fresh Grocery)",
		ownerEmail: "sarah@freshgrocery.com",
	},
	{
		name:       "Fashion Boutique",
		email:      "hello@fashionboutique.com",
		address:    "789 Style Boulevard, Fashion District, LA 90210",
		ownerName:  "Mike Davis (Fashion Boutique)",
		ownerEmail: "mike@fashionboutique.com",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	database, err := db.New(ctx, cfg.DBURL, db.Options{Logger: logger})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close()

	repo := repository.New(database)

	if err := seedAdmin(ctx, repo, logger); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedStores(ctx, repo, logger); err != nil {
		log.Fatalf("seed stores: %v", err)
	}
}

func seedAdmin(ctx context.Context, repo *repository.Repository, logger *log.Logger) error {
	const adminEmail = "admin@storeapp.local"

	if _, err := repo.Users.GetByEmail(ctx, adminEmail); err == nil {
		logger.Printf("admin already exists: %s", adminEmail)
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword("Admin@123")
	if err != nil {
		return err
	}
	_, err = repo.Users.Create(ctx, repository.UserCreateParams{
		Name:         "System Administrator User",
		Email:        adminEmail,
		Address:      "N/A",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, repository.ErrConflict) {
		logger.Printf("admin already exists: %s", adminEmail)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Printf("seeded admin user %s (password: Admin@123)", adminEmail)
	return nil
}

func seedStores(ctx context.Context, repo *repository.Repository, logger *log.Logger) error {
	hash, err := auth.HashPassword("Owner@123")
	if err != nil {
		return err
	}

	for _, sample := range sampleStores {
		owner, err := repo.Users.GetByEmail(ctx, sample.ownerEmail)
		if errors.Is(err, repository.ErrNotFound) {
			owner, err = repo.Users.Create(ctx, repository.UserCreateParams{
				Name:         sample.ownerName,
				Email:        sample.ownerEmail,
				Address:      sample.address,
				PasswordHash: hash,
				Role:         domain.RoleOwner,
			})
		}
		if err != nil {
			return err
		}

		if _, err := repo.Stores.GetByOwner(ctx, owner.ID); err == nil {
			logger.Printf("store already exists for %s", sample.ownerEmail)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if _, err := repo.Stores.Create(ctx, repository.StoreCreateParams{
			Name:    sample.name,
			Email:   sample.email,
			Address: sample.address,
			OwnerID: owner.ID,
		}); err != nil && !errors.Is(err, repository.ErrConflict) {
			return err
		}
		logger.Printf("seeded store %q owned by %s (password: Owner@123)", sample.name, sample.ownerEmail)
	}
	return nil
}
