// Command token issues a bearer token for local development against the API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/config"
)

func main() {
	_ = godotenv.Load()

	var (
		userID = flag.String("user", "", "user id (uuid)")
		role   = flag.String("role", string(auth.RoleCustomer), "CUSTOMER, WORKER or HARDWARE_STORE")
	)

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	id, err := uuid.Parse(*userID)
	if err != nil {
		slog.Error("invalid user id", "user", *userID, "error", err)
		os.Exit(1)
	}

	token, err := auth.New(cfg.Auth.JWTSecret).Issue(auth.Identity{UserID: id, Role: auth.Role(*role)}, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
