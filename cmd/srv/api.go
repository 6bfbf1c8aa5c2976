package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/boxmaster/internal/middleware"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/jwt"
	"github.com/questx-lab/boxmaster/pkg/router"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadMaster()
	defer s.close()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr: fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler: cors.New(cors.Options{
			AllowedOrigins:   cfg.ApiServer.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
			AllowCredentials: true,
		}).Handler(s.router.Handler()),
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})

	// Without kafka nobody else answers randomness requests.
	if s.publisher == nil {
		g.Go(func() error {
			s.fulfillRandomness(ctx, time.Second)
			return nil
		})
	}

	err := g.Wait()
	xcontext.Logger(s.ctx).Infof("Server stopped")
	return err
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	accessTokenEngine := jwt.NewEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.Expiration.Duration)

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	authVerifier := middleware.NewAuthVerifier(accessTokenEngine)

	// These following APIs need authentication.
	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Middleware())
	{
		// Asset API
		router.POST(authRouter, "/depositAsset", s.assetDomain.DepositAsset)
		router.POST(authRouter, "/withdrawAsset", s.assetDomain.WithdrawAsset)

		// Collection API
		router.POST(authRouter, "/createCollection", s.collectionDomain.CreateCollection)
		router.POST(authRouter, "/addToCollection", s.collectionDomain.AddToCollection)
		router.POST(authRouter, "/removeFromCollection", s.collectionDomain.RemoveFromCollection)
		router.POST(authRouter, "/publishCollection", s.collectionDomain.PublishCollection)
		router.POST(authRouter, "/unpublishCollection", s.collectionDomain.UnpublishCollection)

		// Box API
		router.POST(authRouter, "/drawBoxes", s.boxDomain.DrawBoxes)

		// Claim API
		router.POST(authRouter, "/claimNFT", s.claimDomain.ClaimNFT)
		router.POST(authRouter, "/claimCommission", s.claimDomain.ClaimCommission)

		// Randomness API
		router.POST(authRouter, "/deliverRandomness", s.randomnessDomain.DeliverRandomness)

		// Admin API
		router.POST(authRouter, "/admin/setFeeTo", s.adminDomain.SetFeeTo)
		router.POST(authRouter, "/admin/setBaseToken", s.adminDomain.SetBaseToken)
		router.POST(authRouter, "/admin/setSecondaryToken", s.adminDomain.SetSecondaryToken)
		router.POST(authRouter, "/admin/setRandomnessOracle", s.adminDomain.SetRandomnessOracle)
	}

	// Public API, a token is only used to tag the request log.
	publicRouter := s.router.Branch()
	publicRouter.Before(authVerifier.Optional().Middleware())
	{
		router.POST(publicRouter, "/claimFee", s.claimDomain.ClaimFee)
		router.GET(publicRouter, "/getAsset", s.assetDomain.GetAsset)
		router.GET(publicRouter, "/getCollection", s.collectionDomain.GetCollection)
		router.GET(publicRouter, "/getWinner", s.boxDomain.GetWinner)
		router.GET(publicRouter, "/getWinners", s.boxDomain.GetWinners)
	}
}
