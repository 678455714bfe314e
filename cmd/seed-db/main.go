// Command seed-db bootstraps a fresh database: it runs migrations, creates
// the administrator account, and loads the product catalog from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/user"
	"github.com/mercatus-io/storefront/internal/storage/postgres"
)

type productJSON struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Taxable     bool            `json:"taxable"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminEmail, "admin-email", "", "administrator email (or STOREFRONT_SEED_ADMIN_EMAIL env)")
	flag.StringVar(&adminPassword, "admin-password", "", "administrator password (or STOREFRONT_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminEmail == "" {
		adminEmail = os.Getenv("STOREFRONT_SEED_ADMIN_EMAIL")
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("STOREFRONT_SEED_ADMIN_PASSWORD")
	}
	if adminEmail == "" || adminPassword == "" {
		slog.Error("admin credentials are required: set --admin-email and --admin-password")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	users := postgres.NewUserRepository(pool)
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	admin := &user.User{
		ID:           uuid.New(),
		Email:        adminEmail,
		FirstName:    "Admin",
		PasswordHash: string(hash),
		Provider:     "email",
		Role:         user.RoleAdmin,
	}
	switch err := users.Create(ctx, admin); {
	case err == nil:
		slog.Info("admin user created", slog.String("email", adminEmail))
	case errors.Is(err, user.ErrEmailTaken):
		slog.Info("admin user already exists", slog.String("email", adminEmail))
	default:
		return errors.Wrap(err, "create admin user")
	}

	raw, err := os.ReadFile(productsFile)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no products file, skipping catalog seed", slog.String("path", productsFile))
			return nil
		}
		return errors.Wrap(err, "read products file")
	}

	var items []productJSON
	if err := json.Unmarshal(raw, &items); err != nil {
		return errors.Wrap(err, "parse products file")
	}

	products := postgres.NewProductRepository(pool)
	seeded := 0
	for _, item := range items {
		p := &product.Product{
			ID:          uuid.New(),
			SKU:         item.SKU,
			Name:        item.Name,
			Slug:        item.Slug,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Taxable:     item.Taxable,
			IsActive:    true,
		}
		switch err := products.Create(ctx, p); {
		case err == nil:
			seeded++
		case errors.Is(err, product.ErrSKUTaken):
			slog.Info("product already seeded", slog.String("sku", item.SKU))
		default:
			return errors.Wrapf(err, "seed product %q", item.SKU)
		}
	}

	slog.Info("catalog seeded", slog.Int("products", seeded))
	return nil
}
