package entity

import "github.com/questx-lab/boxmaster/pkg/enum"

type RandomnessStatus string

var (
	RandomnessPending   = enum.New(RandomnessStatus("pending"))
	RandomnessFulfilled = enum.New(RandomnessStatus("fulfilled"))
	RandomnessCancelled = enum.New(RandomnessStatus("cancelled"))
)

type RandomnessRequest struct {
	Base

	CollectionID int64      `gorm:"index"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	Status      RandomnessStatus
	Params      Map `gorm:"type:text"`
	RandomWord  string
	FulfilledBy string
}
