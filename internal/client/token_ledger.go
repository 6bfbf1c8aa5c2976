package client

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TokenLedger moves fungible tokens. Transfers whose sender is not the master
// are pulled with an allowance granted to the master beforehand.
type TokenLedger interface {
	Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal) error
}

type localTokenLedger struct {
	ledgerRepo repository.LedgerRepository
}

// NewLocalTokenLedger returns a ledger backed by the database of the master. It
// writes through the transaction carried by the context, so a rolled back
// entry point also rolls back its transfers.
func NewLocalTokenLedger(ledgerRepo repository.LedgerRepository) *localTokenLedger {
	return &localTokenLedger{ledgerRepo: ledgerRepo}
}

func (l *localTokenLedger) Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errorx.New(errorx.BadRequest, "Negative amount")
	}

	if amount.IsZero() {
		return nil
	}

	master := xcontext.Configs(ctx).Master.Address
	if from != master {
		allowance, err := l.ledgerRepo.GetAllowance(ctx, token, from, master)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get allowance: %v", err)
			return errorx.Unknown
		}

		if allowance.LessThan(amount) {
			return errorx.New(errorx.InsufficientAllowance,
				"Allowance %s is lower than %s", allowance, amount)
		}

		err = l.ledgerRepo.SetAllowance(ctx, token, from, master, allowance.Sub(amount))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update allowance: %v", err)
			return errorx.Unknown
		}
	}

	if err := l.ledgerRepo.DecreaseBalance(ctx, token, from, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InsufficientBalance, "Insufficient balance of %s", from)
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease balance: %v", err)
		return errorx.Unknown
	}

	if err := l.ledgerRepo.IncreaseBalance(ctx, token, to, amount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase balance: %v", err)
		return errorx.Unknown
	}

	return l.record(ctx, token, from, to, amount)
}

// Mint credits new tokens to an account.
func (l *localTokenLedger) Mint(ctx context.Context, token, to string, amount decimal.Decimal) error {
	if err := l.ledgerRepo.IncreaseBalance(ctx, token, to, amount); err != nil {
		return err
	}

	return l.record(ctx, token, "", to, amount)
}

// Approve lets spender pull up to amount tokens from owner.
func (l *localTokenLedger) Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error {
	return l.ledgerRepo.SetAllowance(ctx, token, owner, spender, amount)
}

func (l *localTokenLedger) BalanceOf(ctx context.Context, token, owner string) (decimal.Decimal, error) {
	return l.ledgerRepo.GetBalance(ctx, token, owner)
}

func (l *localTokenLedger) record(ctx context.Context, token, from, to string, amount decimal.Decimal) error {
	transfer := &entity.TokenTransfer{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Token:         token,
		Sender:        from,
		Recipient:     to,
		Amount:        amount,
	}

	if err := l.ledgerRepo.CreateTransfer(ctx, transfer); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record transfer: %v", err)
		return errorx.Unknown
	}

	return nil
}
