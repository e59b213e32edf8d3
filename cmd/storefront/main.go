package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/user"
)

// @title Storefront API
// @version 1.0
// @description Catalog, account and order operations over Postgres.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	if cfg.TokenSecret == "" {
		log.Fatal("TOKEN_SECRET is required")
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("pgx pool: %v", err)
	}
	defer pool.Close()

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	users := user.NewPGRepo(pool, user.NewHasher(cfg.Pepper, cfg.BcryptCost), cfg.DBTimeout)
	orders := order.NewPGRepo(pool, cfg.DBTimeout)
	products := product.NewPGRepo(pool, cfg.DBTimeout)

	r := newRouter(tokens, users, orders, products)
	log.Printf("storefront listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
