package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/creatureai/internal/condition"
	"github.com/udisondev/creatureai/internal/config"
	"github.com/udisondev/creatureai/internal/data"
	"github.com/udisondev/creatureai/internal/db"
)

// content is the static data an encounter runs on.
type content struct {
	abilities  *data.AbilityRegistry
	templates  *data.TemplateRegistry
	conditions *condition.Manager
}

func (c *content) Close() {
	c.conditions.Close()
}

func newContent() *content {
	return &content{
		abilities:  data.NewAbilityRegistry(),
		templates:  data.NewTemplateRegistry(),
		conditions: condition.NewManager(0),
	}
}

func loadContent(ctx context.Context, cfg config.Simulation) (*content, error) {
	if cfg.DataSource == config.SourcePostgres {
		return loadFromPostgres(ctx, cfg)
	}

	c := newContent()
	if err := loadYAML(cfg, c); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func loadYAML(cfg config.Simulation, c *content) error {
	if err := data.LoadAbilitiesYAML(cfg.AbilitiesFile, c.abilities); err != nil {
		return err
	}
	if err := data.LoadCreaturesYAML(cfg.CreaturesFile, c.templates); err != nil {
		return err
	}
	return condition.LoadYAML(cfg.ConditionsFile, c.conditions)
}

// loadFromPostgres reads content from the database. An empty database is
// seeded from the YAML files first.
func loadFromPostgres(ctx context.Context, cfg config.Simulation) (*content, error) {
	dsn := cfg.Database.DSN()

	if cfg.MigrateOnBoot {
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, err
		}
		slog.Info("database migrations applied")
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer database.Close()
	slog.Info("database connected")

	c := newContent()
	n, err := database.Templates().LoadInto(ctx, c.templates)
	if err != nil {
		c.Close()
		return nil, err
	}

	if n == 0 {
		if err := seed(ctx, cfg, database); err != nil {
			c.Close()
			return nil, fmt.Errorf("seeding database: %w", err)
		}
		if _, err := database.Templates().LoadInto(ctx, c.templates); err != nil {
			c.Close()
			return nil, err
		}
	}

	abilities, err := database.Abilities().LoadInto(ctx, c.abilities)
	if err != nil {
		c.Close()
		return nil, err
	}
	conds, err := database.Conditions().LoadInto(ctx, c.conditions)
	if err != nil {
		c.Close()
		return nil, err
	}

	slog.Info("content loaded from database",
		"abilities", abilities,
		"templates", len(c.templates.All()),
		"conditions", conds)
	return c, nil
}

func seed(ctx context.Context, cfg config.Simulation, database *db.DB) error {
	src := newContent()
	defer src.Close()
	if err := loadYAML(cfg, src); err != nil {
		return err
	}

	for _, desc := range src.abilities.All() {
		if err := database.Abilities().Save(ctx, desc); err != nil {
			return err
		}
	}
	for _, tmpl := range src.templates.All() {
		if err := database.Templates().Save(ctx, tmpl); err != nil {
			return err
		}
	}

	var condErr error
	src.conditions.Each(func(source condition.SourceType, entry int32, conds []condition.Condition) bool {
		condErr = database.Conditions().Replace(ctx, source, entry, conds)
		return condErr == nil
	})
	if condErr != nil {
		return condErr
	}

	slog.Info("database seeded from yaml",
		"abilities", src.abilities.Len(),
		"templates", len(src.templates.All()))
	return nil
}
