package domain

import (
	"fmt"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/shopspring/decimal"
)

// CommissionPolicy splits the commission of a sold out collection among its
// curator and collaborators.
type CommissionPolicy interface {
	Split(collection *entity.Collection) []model.Payout
}

func NewCommissionPolicy(name string) (CommissionPolicy, error) {
	switch name {
	case "", "sole":
		return soleCommission{}, nil
	case "even":
		return evenCommission{}, nil
	}

	return nil, fmt.Errorf("unknown commission policy %q", name)
}

// soleCommission pays everything to the curator.
type soleCommission struct{}

func (soleCommission) Split(collection *entity.Collection) []model.Payout {
	return []model.Payout{{Address: collection.Owner, Amount: collection.Commission}}
}

// evenCommission shares the commission between the curator and every distinct
// collaborator, the remainder of the division goes to the curator.
type evenCommission struct{}

func (evenCommission) Split(collection *entity.Collection) []model.Payout {
	receivers := []string{collection.Owner}
	seen := map[string]bool{collection.Owner: true}
	for _, c := range collection.Collaborators {
		if !seen[c] {
			seen[c] = true
			receivers = append(receivers, c)
		}
	}

	share := floorDiv(collection.Commission, decimal.NewFromInt(int64(len(receivers))))
	remainder := collection.Commission.Sub(share.Mul(decimal.NewFromInt(int64(len(receivers)))))

	payouts := make([]model.Payout, 0, len(receivers))
	for i, r := range receivers {
		amount := share
		if i == 0 {
			amount = amount.Add(remainder)
		}

		payouts = append(payouts, model.Payout{Address: r, Amount: amount})
	}

	return payouts
}
