package domain

import (
	"time"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertAsset(asset *entity.Asset) model.Asset {
	if asset == nil {
		return model.Asset{}
	}

	return model.Asset{
		ID:           asset.ID,
		TokenAddress: asset.TokenAddress,
		TokenID:      asset.TokenID,
		Depositor:    asset.Depositor,
		CollectionID: asset.CollectionID.Int64,
		IsWithdrawn:  asset.IsWithdrawn,
	}
}

func convertCollectionItems(items []entity.CollectionItem) []model.CollectionItem {
	result := []model.CollectionItem{}
	for i, item := range items {
		result = append(result, model.CollectionItem{
			BoxIndex:  i,
			AssetID:   item.AssetID,
			Depositor: item.Depositor,
			Price:     item.Price,
			IsClaimed: item.IsClaimed,
		})
	}

	return result
}

func convertCollection(collection *entity.Collection, items []entity.CollectionItem) model.Collection {
	if collection == nil {
		return model.Collection{}
	}

	publishedAt := ""
	if collection.PublishedAt.Valid {
		publishedAt = collection.PublishedAt.Time.Format(defaultTimeLayout)
	}

	collaborators := []string{}
	collaborators = append(collaborators, collection.Collaborators...)

	return model.Collection{
		ID:                  collection.ID,
		Owner:               collection.Owner,
		Name:                collection.Name,
		Size:                collection.Size,
		CommissionRate:      collection.CommissionRate,
		WillAcceptSecondary: collection.WillAcceptSecondary,
		Collaborators:       collaborators,
		IsPublished:         collection.IsPublished,
		PublishedAt:         publishedAt,
		FeeRate:             collection.FeeRate,
		PaymentToken:        collection.PaymentToken,
		TotalPrice:          collection.TotalPrice,
		AveragePrice:        collection.AveragePrice,
		Fee:                 collection.Fee,
		Commission:          collection.Commission,
		SoldCount:           collection.SoldCount,
		HasSeed:             collection.Seed != "",
		IsFeeClaimed:        collection.IsFeeClaimed,
		IsCommissionClaimed: collection.IsCommissionClaimed,
		Items:               convertCollectionItems(items),
	}
}
