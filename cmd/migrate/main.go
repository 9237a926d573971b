package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate only touch the filesystem.
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	// sqlite carries no goose history; only a model-derived schema.
	if dbClient.IsSQLite() {
		if *cmd != "up" {
			fail("-cmd=%s is not supported on sqlite", *cmd)
		}
		requireResource(ctx, logg, "sqlite schema", migrate.AutoMigrate(ctx, dbClient))
		logg.Info(ctx, "sqlite schema migrated")
		return
	}

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)
	migrator, err := migrate.NewMigrator(sqlDB, *dir)
	requireResource(ctx, logg, "migrator", err)

	switch *cmd {
	case "up":
		var applied int
		applied, err = migrator.Up(ctx)
		ctx = logg.WithField(ctx, "applied", applied)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		var statuses []*goose.MigrationStatus
		statuses, err = migrator.Status(ctx)
		for _, st := range statuses {
			fmt.Printf("%-8s %s\n", st.State, st.Source.Path)
		}
	case "version":
		if *version == "" {
			fail("missing -version for version command")
		}
		err = migrator.To(ctx, *version)
	default:
		fail("unknown -cmd value: %s", *cmd)
	}
	if err != nil {
		fail("migrate %s failed: %v", *cmd, err)
	}
	logg.Info(ctx, "migrate complete")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
