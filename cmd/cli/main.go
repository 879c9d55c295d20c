package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alextreichler/gizmogrid/internal/api"
	"github.com/alextreichler/gizmogrid/internal/config"
	"github.com/alextreichler/gizmogrid/internal/models"
)

const usage = "expected 'add-user' or 'stats' subcommand"

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	addAPI := addUserCmd.String("api", defaultAPI(), "Base URL of the storefront API")
	adminEmail := addUserCmd.String("admin-email", "", "Email of an existing admin")
	adminPassword := addUserCmd.String("admin-password", "", "Password of that admin")
	firstName := addUserCmd.String("first-name", "", "First name of the new user")
	lastName := addUserCmd.String("last-name", "", "Last name of the new user")
	email := addUserCmd.String("email", "", "Email of the new user")
	password := addUserCmd.String("password", "", "Password of the new user")
	role := addUserCmd.String("role", models.RoleUser, "Role of the new user (user or admin)")

	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	statsAPI := statsCmd.String("api", defaultAPI(), "Base URL of the storefront API")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		draft := models.UserDraft{
			FirstName: *firstName,
			LastName:  *lastName,
			Email:     *email,
			Password:  *password,
			Role:      *role,
		}
		if *adminEmail == "" || *adminPassword == "" || draft.FirstName == "" || draft.LastName == "" || draft.Email == "" || draft.Password == "" {
			fmt.Println("admin-email, admin-password, first-name, last-name, email and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		if draft.Role != models.RoleUser && draft.Role != models.RoleAdmin {
			fmt.Println("role must be 'user' or 'admin'")
			os.Exit(1)
		}
		createUser(*addAPI, models.Credentials{Email: *adminEmail, Password: *adminPassword}, draft)
	case "stats":
		statsCmd.Parse(os.Args[2:])
		printStats(*statsAPI)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func defaultAPI() string {
	if v := os.Getenv("API_URL"); v != "" {
		return v
	}
	return config.DefaultAPIURL
}

func createUser(baseURL string, admin models.Credentials, draft models.UserDraft) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := api.NewClient(baseURL, config.DefaultAPITimeout)

	session, err := client.Login(ctx, admin)
	if err != nil {
		log.Fatalf("Failed to log in as %s: %v", admin.Email, err)
	}
	if !session.IsAdmin() {
		log.Fatalf("%s is not an admin", admin.Email)
	}

	if err := client.CreateUser(ctx, session.Token, draft); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' created successfully.\n", draft.Email)
}

func printStats(baseURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := api.NewClient(baseURL, config.DefaultAPITimeout)

	users, err := client.CountUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	orders, err := client.CountOrders(ctx)
	if err != nil {
		log.Fatalf("Failed to count orders: %v", err)
	}

	fmt.Printf("Users:  %d\nOrders: %d\n", users, orders)
}
