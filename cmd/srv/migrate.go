package main

import (
	"github.com/questx-lab/boxmaster/internal/domain"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()

	adminDomain := domain.NewAdminDomain(repository.NewSettingRepository())
	if err := adminDomain.SeedSettings(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Database is migrated")
	return nil
}
