package model

type Asset struct {
	ID           int64  `json:"id"`
	TokenAddress string `json:"token_address"`
	TokenID      string `json:"token_id"`
	Depositor    string `json:"depositor"`
	CollectionID int64  `json:"collection_id,omitempty"`
	IsWithdrawn  bool   `json:"is_withdrawn"`
}

type DepositAssetRequest struct {
	TokenAddress string `json:"token_address"`
	TokenID      string `json:"token_id"`
}

type DepositAssetResponse struct {
	AssetID int64 `json:"asset_id"`
}

type WithdrawAssetRequest struct {
	AssetID int64 `json:"asset_id"`
}

type WithdrawAssetResponse struct{}

type GetAssetRequest struct {
	AssetID int64 `json:"asset_id" form:"asset_id"`
}

type GetAssetResponse struct {
	Asset Asset `json:"asset"`
}
