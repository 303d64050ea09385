package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with complaint categories and demo accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"attachments", "complaint_updates", "complaints", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		categories := []string{
			"Billing & Payments",
			"Product Quality",
			"Delivery & Shipping",
			"Technical Issue",
			"Customer Service",
			"Other",
		}
		for _, name := range categories {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM categories WHERE category_name = $1", name).Scan(&exists); err == nil {
				continue
			}
			if _, err := db.Exec("INSERT INTO categories (category_name) VALUES ($1)", name); err != nil {
				log.Fatalf("failed to insert category %s: %v", name, err)
			}
			fmt.Println("Seeded category:", name)
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		accounts := []struct {
			Name  string
			Email string
			Role  string
		}{
			{"Demo User", "user@mail.com", "user"},
			{"Demo Admin", "admin@mail.com", "admin"},
		}
		for _, a := range accounts {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", a.Email).Scan(&exists); err == nil {
				fmt.Println("user already exists:", a.Email)
				continue
			}
			if _, err := db.Exec(
				"INSERT INTO users (name, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, now())",
				a.Name, a.Email, string(hash), a.Role); err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			fmt.Println("Seeded user:", a.Email, "role:", a.Role)
		}
	},
}
