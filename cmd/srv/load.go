package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/boxmaster/config"
	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/domain"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/kafka"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/logger"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/questx-lab/boxmaster/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	node, err := snowflake.NewNode(cfg.SnowFlake.NodeID)
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(cfg.Env, cfg.LogLevel))
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.DSN,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		panic(fmt.Sprintf("unsupported database driver %s", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows one writer at a time.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadLocker() {
	cfg := xcontext.Configs(s.ctx).Redis
	if cfg.Addr == "" {
		s.locker = lock.NewMemoryLocker()
		return
	}

	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.locker = lock.NewRedisLocker(s.redisClient, cfg.LockTTL.Duration)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	if !cfg.Master.UseKafkaOracle {
		return
	}

	var err error
	s.publisher, err = kafka.NewPublisher("boxmaster", []string{cfg.Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.assetRepo = repository.NewAssetRepository()
	s.collectionRepo = repository.NewCollectionRepository()
	s.boxRepo = repository.NewBoxRepository()
	s.randomnessRepo = repository.NewRandomnessRepository()
	s.settingRepo = repository.NewSettingRepository()
	s.ledgerRepo = repository.NewLedgerRepository()
}

func (s *srv) loadCollaborators() {
	cfg := xcontext.Configs(s.ctx)

	switch cfg.Master.Collaborator {
	case config.LocalCollaborator, "":
		s.tokenLedger = client.NewLocalTokenLedger(s.ledgerRepo)
		s.assetRegistry = client.NewLocalAssetRegistry(s.ledgerRepo)
	case config.EthCollaborator:
		transactor, err := client.NewEthTransactor(s.ctx, cfg.Eth)
		if err != nil {
			panic(err)
		}

		if !strings.EqualFold(transactor.Address(), cfg.Master.Address) {
			xcontext.Logger(s.ctx).Warnf("Master address %s differs from the signer %s",
				cfg.Master.Address, transactor.Address())
		}

		s.tokenLedger = client.NewEthTokenLedger(transactor)
		s.assetRegistry = client.NewEthAssetRegistry(transactor)
		s.closers = append(s.closers, transactor.Close)
	default:
		panic(fmt.Sprintf("unsupported collaborator mode %s", cfg.Master.Collaborator))
	}

	if s.publisher != nil {
		s.randomnessOracle = client.NewKafkaRandomnessOracle(s.publisher)
	} else {
		s.randomnessOracle = client.NewLocalRandomnessOracle()
	}
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)
	commissionPolicy, err := domain.NewCommissionPolicy(cfg.Master.CommissionPolicy)
	if err != nil {
		panic(err)
	}

	s.assetDomain = domain.NewAssetDomain(s.assetRepo, s.assetRegistry)
	s.collectionDomain = domain.NewCollectionDomain(s.collectionRepo, s.assetRepo, s.boxRepo,
		s.randomnessRepo, s.settingRepo, s.tokenLedger, s.assetRegistry, s.randomnessOracle, s.locker)
	s.boxDomain = domain.NewBoxDomain(s.collectionRepo, s.boxRepo, s.tokenLedger, s.locker)
	s.randomnessDomain = domain.NewRandomnessDomain(s.randomnessRepo, s.collectionRepo, s.settingRepo, s.locker)
	s.claimDomain = domain.NewClaimDomain(s.collectionRepo, s.assetRepo, s.boxRepo, s.settingRepo,
		s.tokenLedger, s.assetRegistry, commissionPolicy, s.locker)
	s.adminDomain = domain.NewAdminDomain(s.settingRepo)
}

// loadMaster prepares everything the api and the subscriber share.
func (s *srv) loadMaster() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadLocker()
	s.loadPublisher()
	s.loadRepos()
	s.loadCollaborators()
	s.loadDomains()

	if err := s.adminDomain.SeedSettings(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) close() {
	for _, c := range s.closers {
		c()
	}

	if s.publisher != nil {
		if err := s.publisher.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop publisher: %v", err)
		}
	}

	if s.redisClient != nil {
		s.redisClient.Close()
	}
}
