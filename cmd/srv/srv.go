package main

import (
	"context"
	"net/http"

	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/domain"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/pubsub"
	"github.com/questx-lab/boxmaster/pkg/router"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App
	ctx context.Context

	assetRepo      repository.AssetRepository
	collectionRepo repository.CollectionRepository
	boxRepo        repository.BoxRepository
	randomnessRepo repository.RandomnessRepository
	settingRepo    repository.SettingRepository
	ledgerRepo     repository.LedgerRepository

	assetDomain      domain.AssetDomain
	collectionDomain domain.CollectionDomain
	boxDomain        domain.BoxDomain
	randomnessDomain domain.RandomnessDomain
	claimDomain      domain.ClaimDomain
	adminDomain      domain.AdminDomain

	tokenLedger      client.TokenLedger
	assetRegistry    client.AssetRegistry
	randomnessOracle client.RandomnessOracle
	closers          []func()

	redisClient *redis.Client
	locker      lock.Locker
	publisher   pubsub.Publisher

	router *router.Router
	server *http.Server
}
