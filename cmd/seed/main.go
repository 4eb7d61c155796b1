package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	productsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	userpkg "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/users"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/env"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/migrate"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/security"
)

type demoUser struct {
	username string
	email    string
	fullName string
	role     enums.UserRole
}

var demoUsers = []demoUser{
	{username: "admin", email: "admin@cloud9wear.com", fullName: "Cloud9 Admin", role: enums.UserRoleAdmin},
	{username: "supplier", email: "supplier@cloud9wear.com", fullName: "Cloud9 Supplier", role: enums.UserRoleSupplier},
	{username: "customer", email: "customer@cloud9wear.com", fullName: "Demo Customer", role: enums.UserRoleCustomer},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	exitOnError(ctx, logg, "failed to load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		logg.Warn(ctx, "refusing to seed a prod environment")
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOnError(ctx, logg, "failed to bootstrap database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		exitOnError(ctx, logg, "failed to run dev migrations", err)
	}

	usersRepo := userpkg.NewRepository(dbClient.DB())
	productsRepo := productsvc.NewRepository(dbClient.DB())

	password := env.Get("CLOUD9_SEED_PASSWORD", "cloud9demo")
	hash, err := security.HashPassword(password, cfg.Password)
	exitOnError(ctx, logg, "failed to hash seed password", err)

	var supplier *models.User
	for _, demo := range demoUsers {
		existing, err := usersRepo.FindByUsername(ctx, demo.username)
		if err == nil {
			logg.Info(logg.WithField(ctx, "username", demo.username), "seed user already present")
			if demo.role == enums.UserRoleSupplier {
				supplier = existing
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			exitOnError(ctx, logg, "failed to check seed user", err)
		}

		created, err := usersRepo.Create(ctx, &models.User{
			Username:     demo.username,
			Email:        demo.email,
			PasswordHash: hash,
			FullName:     demo.fullName,
			Role:         demo.role,
		})
		exitOnError(ctx, logg, "failed to create seed user", err)
		logg.Info(logg.WithField(ctx, "username", demo.username), "seed user created")
		if demo.role == enums.UserRoleSupplier {
			supplier = created
		}
	}

	if supplier == nil {
		logg.Warn(ctx, "no supplier account available, skipping catalog seed")
		return
	}

	seedCatalog(ctx, logg, productsRepo, supplier)
	logg.Info(ctx, "seed complete")
}

func seedCatalog(ctx context.Context, logg *logger.Logger, repo productsvc.Repository, supplier *models.User) {
	releaseDate := time.Now().AddDate(0, 1, 0)
	description := func(text string) *string { return &text }

	catalog := []models.Product{
		{
			SupplierID:      supplier.ID,
			Name:            "Cloud9 Classic Tee",
			Description:     description("Heavyweight cotton tee with the Cloud9 crest."),
			Price:           decimal.NewFromInt(120),
			Stock:           50,
			DiscountPercent: 10,
			Sizes:           pq.StringArray{"S", "M", "L", "XL"},
			Colors:          pq.StringArray{"black", "white"},
			IsActive:        true,
		},
		{
			SupplierID: supplier.ID,
			Name:       "Cloud9 Oversized Hoodie",
			Price:      decimal.NewFromInt(350),
			Stock:      25,
			Sizes:      pq.StringArray{"M", "L", "XL"},
			Colors:     pq.StringArray{"grey", "navy"},
			IsActive:   true,
		},
		{
			SupplierID:  supplier.ID,
			Name:        "Cloud9 Varsity Jacket",
			Price:       decimal.NewFromInt(680),
			Stock:       0,
			Sizes:       pq.StringArray{"M", "L"},
			Colors:      pq.StringArray{"black"},
			IsActive:    true,
			ComingSoon:  true,
			ReleaseDate: &releaseDate,
		},
	}

	for i := range catalog {
		created, err := repo.Create(ctx, &catalog[i])
		if err != nil {
			logg.Error(logg.WithField(ctx, "product", catalog[i].Name), "failed to seed product", err)
			continue
		}
		logg.Info(logg.WithField(ctx, "product_id", created.ID.String()), "seed product created")
	}
}

func exitOnError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
