package entity

import "github.com/questx-lab/boxmaster/pkg/enum"

type SettingKey string

var (
	SettingFeeTo            = enum.New(SettingKey("fee_to"))
	SettingBaseToken        = enum.New(SettingKey("base_token"))
	SettingSecondaryToken   = enum.New(SettingKey("secondary_token"))
	SettingRandomnessOracle = enum.New(SettingKey("randomness_oracle"))
)

type Setting struct {
	Key       SettingKey `gorm:"primaryKey"`
	Value     string
	UpdatedBy string
}
