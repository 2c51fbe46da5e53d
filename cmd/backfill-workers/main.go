// backfill-workers prepares worker records created before login existed:
// it assigns a default role to workers without one and sets the password
// hash from the stored phone number.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"geo-attendance/internal/auth"
	"geo-attendance/internal/model"
	"geo-attendance/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		mongoURI string
		database string
		role     string
		dryRun   bool
		timeout  time.Duration
	)
	flags := pflag.NewFlagSet("backfill-workers", pflag.ContinueOnError)
	flags.StringVar(&mongoURI, "mongo-uri", envOr("MONGODB_URI", "mongodb://localhost:27017"), "MongoDB connection string")
	flags.StringVar(&database, "database", envOr("MONGODB_DATABASE", "attendance"), "database name")
	flags.StringVar(&role, "role", string(model.RoleEmployee), "role assigned to workers without one")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "report what would change without writing")
	flags.DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	defaultRole := model.Role(role)
	if !defaultRole.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	db, err := store.NewMongoDB(mongoURI, database)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	employees, err := store.NewEmployeeStore(ctx, db)
	if err != nil {
		return err
	}

	missing, err := employees.CountMissingRole(ctx)
	if err != nil {
		return err
	}
	if dryRun {
		log.Printf("%d workers without a role would get %q", missing, defaultRole)
	} else if missing > 0 {
		n, err := employees.BackfillRole(ctx, defaultRole)
		if err != nil {
			return err
		}
		log.Printf("Assigned role %q to %d workers", defaultRole, n)
	}

	pending, err := employees.ListMissingPasswordHash(ctx)
	if err != nil {
		return err
	}
	var updated, skipped int
	for _, e := range pending {
		if e.Phone == "" {
			log.Printf("Skipping %s: no phone number on record", e.EmployeeID)
			skipped++
			continue
		}
		if dryRun {
			updated++
			continue
		}
		hash, err := auth.HashPassword(e.Phone)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", e.EmployeeID, err)
		}
		if err := employees.SetPasswordHash(ctx, e.ID, hash); err != nil {
			return err
		}
		updated++
	}

	verb := "Set"
	if dryRun {
		verb = "Would set"
	}
	log.Printf("%s password hash for %d workers (%d skipped)", verb, updated, skipped)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
