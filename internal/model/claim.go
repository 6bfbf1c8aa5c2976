package model

import "github.com/shopspring/decimal"

type ClaimNFTRequest struct {
	CollectionID int64 `json:"collection_id"`
	BoxIndex     int   `json:"box_index"`
}

type ClaimNFTResponse struct {
	AssetID          int64           `json:"asset_id"`
	DepositorPayout  decimal.Decimal `json:"depositor_payout"`
	DepositorAddress string          `json:"depositor_address"`
}

type ClaimFeeRequest struct {
	CollectionID int64 `json:"collection_id"`
}

type ClaimFeeResponse struct {
	FeeTo  string          `json:"fee_to"`
	Amount decimal.Decimal `json:"amount"`
}

type ClaimCommissionRequest struct {
	CollectionID int64 `json:"collection_id"`
}

type Payout struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

type ClaimCommissionResponse struct {
	Payouts []Payout `json:"payouts"`
}
