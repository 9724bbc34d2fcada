package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"store-backend/internal/config"
	"store-backend/internal/database"
	"store-backend/internal/db"
	"store-backend/internal/logger"
	"store-backend/internal/models"
	"store-backend/internal/repositories"
	"store-backend/internal/services"
	"store-backend/migrations"
)

// create_user provisions a login. The password is read from
// STORE_USER_PASSWORD so it never lands in shell history.
//
//	go run ./scripts -user admin -employee-id E001 -role admin
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	userName := flag.String("user", "", "user name")
	employeeID := flag.String("employee-id", "", "employee id")
	role := flag.String("role", "user", "role (admin or user)")
	flag.Parse()

	password := os.Getenv("STORE_USER_PASSWORD")
	if *userName == "" || password == "" {
		log.Fatal("usage: STORE_USER_PASSWORD=... create_user -user NAME [-employee-id ID] [-role admin]")
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Fatal("postgres unavailable", zap.Error(err))
	}
	defer pool.Close()

	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		lg.Fatal("migrations failed", zap.Error(err))
	}

	users := services.NewUserService(repositories.NewUserRepository(pool), nil, lg)
	u := &models.User{
		UserName:     *userName,
		EmployeeID:   *employeeID,
		PasswordHash: password,
		Role:         *role,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		lg.Fatal("create user failed", zap.Error(err))
	}
	lg.Info("user saved", zap.Int64("id", u.ID), zap.String("user_name", u.UserName), zap.String("role", u.Role))
}
