package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository stores the balances, allowances and asset ownership used
// by the in-process collaborators.
type LedgerRepository interface {
	GetBalance(ctx context.Context, token, owner string) (decimal.Decimal, error)
	IncreaseBalance(ctx context.Context, token, owner string, amount decimal.Decimal) error
	DecreaseBalance(ctx context.Context, token, owner string, amount decimal.Decimal) error

	GetAllowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error)
	SetAllowance(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error

	CreateTransfer(ctx context.Context, transfer *entity.TokenTransfer) error
	GetTransfersByToken(ctx context.Context, token string) ([]entity.TokenTransfer, error)

	GetOwnership(ctx context.Context, tokenAddress, tokenID string) (*entity.AssetOwnership, error)
	UpsertOwnership(ctx context.Context, ownership *entity.AssetOwnership) error
}

type ledgerRepository struct{}

func NewLedgerRepository() *ledgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, token, owner string) (decimal.Decimal, error) {
	var result entity.TokenBalance
	err := xcontext.DB(ctx).Take(&result, "token=? AND owner=?", token, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return result.Balance, nil
}

// IncreaseBalance and DecreaseBalance read then write the balance row. They
// rely on the caller holding the database transaction of the entry point.
func (r *ledgerRepository) IncreaseBalance(
	ctx context.Context, token, owner string, amount decimal.Decimal,
) error {
	balance, err := r.GetBalance(ctx, token, owner)
	if err != nil {
		return err
	}

	return r.saveBalance(ctx, token, owner, balance.Add(amount))
}

func (r *ledgerRepository) DecreaseBalance(
	ctx context.Context, token, owner string, amount decimal.Decimal,
) error {
	balance, err := r.GetBalance(ctx, token, owner)
	if err != nil {
		return err
	}

	if balance.LessThan(amount) {
		return gorm.ErrRecordNotFound
	}

	return r.saveBalance(ctx, token, owner, balance.Sub(amount))
}

func (r *ledgerRepository) saveBalance(
	ctx context.Context, token, owner string, balance decimal.Decimal,
) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}, {Name: "owner"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance"}),
	}).Create(&entity.TokenBalance{
		Token:   token,
		Owner:   owner,
		Balance: balance,
	}).Error
}

func (r *ledgerRepository) GetAllowance(
	ctx context.Context, token, owner, spender string,
) (decimal.Decimal, error) {
	var result entity.TokenAllowance
	err := xcontext.DB(ctx).
		Take(&result, "token=? AND owner=? AND spender=?", token, owner, spender).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return result.Amount, nil
}

func (r *ledgerRepository) SetAllowance(
	ctx context.Context, token, owner, spender string, amount decimal.Decimal,
) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}, {Name: "owner"}, {Name: "spender"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount"}),
	}).Create(&entity.TokenAllowance{
		Token:   token,
		Owner:   owner,
		Spender: spender,
		Amount:  amount,
	}).Error
}

func (r *ledgerRepository) CreateTransfer(ctx context.Context, transfer *entity.TokenTransfer) error {
	return xcontext.DB(ctx).Create(transfer).Error
}

func (r *ledgerRepository) GetTransfersByToken(ctx context.Context, token string) ([]entity.TokenTransfer, error) {
	var result []entity.TokenTransfer
	err := xcontext.DB(ctx).Where("token=?", token).Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ledgerRepository) GetOwnership(
	ctx context.Context, tokenAddress, tokenID string,
) (*entity.AssetOwnership, error) {
	var result entity.AssetOwnership
	err := xcontext.DB(ctx).
		Take(&result, "token_address=? AND token_id=?", tokenAddress, tokenID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ledgerRepository) UpsertOwnership(ctx context.Context, ownership *entity.AssetOwnership) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_address"}, {Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "approved"}),
	}).Create(ownership).Error
}
