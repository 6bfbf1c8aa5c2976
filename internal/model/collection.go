package model

import "github.com/shopspring/decimal"

type Collection struct {
	ID                  int64            `json:"id"`
	Owner               string           `json:"owner"`
	Name                string           `json:"name"`
	Size                int              `json:"size"`
	CommissionRate      int              `json:"commission_rate"`
	WillAcceptSecondary bool             `json:"will_accept_secondary"`
	Collaborators       []string         `json:"collaborators"`
	IsPublished         bool             `json:"is_published"`
	PublishedAt         string           `json:"published_at,omitempty"`
	FeeRate             int              `json:"fee_rate"`
	PaymentToken        string           `json:"payment_token,omitempty"`
	TotalPrice          decimal.Decimal  `json:"total_price"`
	AveragePrice        decimal.Decimal  `json:"average_price"`
	Fee                 decimal.Decimal  `json:"fee"`
	Commission          decimal.Decimal  `json:"commission"`
	SoldCount           int              `json:"sold_count"`
	HasSeed             bool             `json:"has_seed"`
	IsFeeClaimed        bool             `json:"is_fee_claimed"`
	IsCommissionClaimed bool             `json:"is_commission_claimed"`
	Items               []CollectionItem `json:"items"`
}

type CollectionItem struct {
	BoxIndex  int             `json:"box_index"`
	AssetID   int64           `json:"asset_id"`
	Depositor string          `json:"depositor"`
	Price     decimal.Decimal `json:"price"`
	IsClaimed bool            `json:"is_claimed"`
}

type CreateCollectionRequest struct {
	Name                string   `json:"name"`
	Size                int      `json:"size"`
	CommissionRate      int      `json:"commission_rate"`
	WillAcceptSecondary bool     `json:"will_accept_secondary"`
	Collaborators       []string `json:"collaborators"`
}

type CreateCollectionResponse struct {
	CollectionID int64 `json:"collection_id"`
}

type AddToCollectionRequest struct {
	AssetID      int64           `json:"asset_id"`
	CollectionID int64           `json:"collection_id"`
	Price        decimal.Decimal `json:"price"`
}

type AddToCollectionResponse struct{}

type RemoveFromCollectionRequest struct {
	AssetID      int64 `json:"asset_id"`
	CollectionID int64 `json:"collection_id"`
}

type RemoveFromCollectionResponse struct{}

type PublishCollectionRequest struct {
	CollectionID int64 `json:"collection_id"`

	// AuxParams are forwarded to the randomness oracle with the request.
	AuxParams map[string]string `json:"aux_params"`
}

type PublishCollectionResponse struct {
	RandomnessRequestID string `json:"randomness_request_id"`
}

type UnpublishCollectionRequest struct {
	CollectionID int64 `json:"collection_id"`
}

type UnpublishCollectionResponse struct {
	RefundedBoxes  int `json:"refunded_boxes"`
	ReturnedAssets int `json:"returned_assets"`
}

type GetCollectionRequest struct {
	CollectionID int64 `json:"collection_id" form:"collection_id"`
}

type GetCollectionResponse struct {
	Collection Collection `json:"collection"`
}
