package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/jwt"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startToken(cctx *cli.Context) error {
	address := cctx.String("address")
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid address %s", address)
	}
	address = common.HexToAddress(address).Hex()

	cfg := xcontext.Configs(s.ctx)
	engine := jwt.NewEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.Expiration.Duration)
	token, err := engine.Generate(address, model.AccessToken{Address: address})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
