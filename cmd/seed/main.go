package main

import (
	"fmt"

	"shelterconnect/config"
	"shelterconnect/internal/auth"
	"shelterconnect/internal/database"
	"shelterconnect/internal/logger"
)

// seed fills an empty database with sample shelters, supporters and requests, then prints a
// development access token per user.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.Server.Env)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate", "error", err)
	}
	users, err := database.Seed(db)
	if err != nil {
		logger.Fatal("seed", "error", err)
	}
	logger.Info("seed completed", "users", len(users), "password", database.DevPassword)

	for _, u := range users {
		tok, err := auth.GenerateAccessToken(&cfg.JWT, u.ID, u.Email, u.Role)
		if err != nil {
			logger.Fatal("token", "email", u.Email, "error", err)
		}
		fmt.Printf("%-10s %-24s %s\n", u.Role, u.Email, tok)
	}
}
