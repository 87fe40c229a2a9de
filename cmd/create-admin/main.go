package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/database"
	"github.com/stemsi/studypilot-backend/internal/logger"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/repository"
	"github.com/stemsi/studypilot-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	readOnly := flag.Bool("read-only", false, "Grant only "+model.PermissionQuestionsRead)
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "create-admin")

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(repository.NewAdminRepository(pool), authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Question Author ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		os.Exit(1)
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		fmt.Println("Error: A valid email is required")
		os.Exit(1)
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	fmt.Print("Confirm Password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil || string(confirm) != password {
		fmt.Println("Error: Passwords do not match")
		os.Exit(1)
	}

	permissions := model.DefaultAdminPermissions
	if *readOnly {
		permissions = []string{model.PermissionQuestionsRead}
	}

	// ─── Create or Update ──────────────────────────────────────────────
	admin, err := adminService.CreateOrUpdate(ctx, email, name, password, permissions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) saved with ID %d and permissions %s\n",
		admin.Name, admin.Email, admin.ID, strings.Join(admin.Permissions, ", "))
}
