package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/gaganrajn/urban-company-backend/internal/database"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// Pushes configs/services.yaml into the catalog, updating entries that
// already exist. The API's startup seeding only inserts missing rows;
// this tool is for deliberate catalog rollouts.

type catalogFile struct {
	Services []models.Service `yaml:"services"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("services", "configs/services.yaml", "path to services.yaml")
		dbPath      = flag.String("db", "./data/marketplace.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		return fmt.Errorf("read services: %w", err)
	}
	var cfg catalogFile
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse services: %w", err)
	}
	if len(cfg.Services) == 0 {
		return fmt.Errorf("no services in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := db.GetServices(ctx, true)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	byName := make(map[string]*models.Service, len(existing))
	for _, svc := range existing {
		byName[svc.Name] = svc
	}

	created := 0
	updated := 0
	for _, svc := range cfg.Services {
		if svc.Name == "" {
			continue
		}
		if svc.EstimatedMinutes == 0 {
			svc.EstimatedMinutes = models.DefaultEstimatedMinutes
		}
		svc.IsActive = true

		if cur, ok := byName[svc.Name]; ok {
			upd := models.ServiceUpdate{
				Description:      &svc.Description,
				Category:         &svc.Category,
				BasePrice:        &svc.BasePrice,
				Icon:             &svc.Icon,
				IsActive:         &svc.IsActive,
				EstimatedMinutes: &svc.EstimatedMinutes,
			}
			if err = db.UpdateService(ctx, cur.ID, upd); err != nil {
				return fmt.Errorf("update %s: %w", svc.Name, err)
			}
			updated++
			continue
		}
		if err = db.CreateService(ctx, &svc); err != nil {
			return fmt.Errorf("create %s: %w", svc.Name, err)
		}
		created++
	}

	fmt.Printf("done: created=%d updated=%d\n", created, updated)
	return nil
}
