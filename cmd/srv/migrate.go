package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/yours-lab/backend/migration"
	"github.com/yours-lab/backend/pkg/xcontext"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	version := ct.String("version")
	if version == "" {
		version = "auto"
	}

	migrator, ok := migration.Migrators[version]
	if !ok {
		return fmt.Errorf("not found version %s", version)
	}

	ctx := xcontext.WithDB(ct.Context, s.db)
	if err := migrator(ctx); err != nil {
		return err
	}

	s.logger.Infof("Migration %s completed", version)
	return nil
}
