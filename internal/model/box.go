package model

import "github.com/shopspring/decimal"

type DrawBoxesRequest struct {
	CollectionID int64 `json:"collection_id"`
	Count        int   `json:"count"`
	UseSecondary bool  `json:"use_secondary"`
}

type DrawBoxesResponse struct {
	FirstBoxIndex int             `json:"first_box_index"`
	Count         int             `json:"count"`
	Paid          decimal.Decimal `json:"paid"`
}

type GetWinnerRequest struct {
	CollectionID int64 `json:"collection_id" form:"collection_id"`
	BoxIndex     int   `json:"box_index" form:"box_index"`
}

type GetWinnerResponse struct {
	Winner     string `json:"winner"`
	QueueIndex int    `json:"queue_index"`
}

type Winner struct {
	BoxIndex int    `json:"box_index"`
	AssetID  int64  `json:"asset_id"`
	Winner   string `json:"winner"`
}

type GetWinnersRequest struct {
	CollectionID int64 `json:"collection_id" form:"collection_id"`
}

type GetWinnersResponse struct {
	Winners []Winner `json:"winners"`
}
