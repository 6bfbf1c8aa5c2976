package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel int    `toml:"log_level"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer ServerConfigs    `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Eth       EthConfigs       `toml:"eth"`
	Master    MasterConfigs    `toml:"master"`
	SnowFlake SnowFlakeConfigs `toml:"snowflake"`
}

type DatabaseConfigs struct {
	// Driver is either sqlite or mysql.
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type ServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type AuthConfigs struct {
	TokenSecret string   `toml:"token_secret"`
	Expiration  Duration `toml:"expiration"`
}

type RedisConfigs struct {
	// Addr is optional, per-collection locks are kept in memory without it.
	Addr    string   `toml:"addr"`
	LockTTL Duration `toml:"lock_ttl"`
}

type KafkaConfigs struct {
	Addr string `toml:"addr"`
}

type EthConfigs struct {
	RPC        string `toml:"rpc"`
	ChainID    int64  `toml:"chain_id"`
	PrivateKey string `toml:"private_key"`
}

type CollaboratorMode string

const (
	LocalCollaborator CollaboratorMode = "local"
	EthCollaborator   CollaboratorMode = "eth"
)

type MasterConfigs struct {
	// Address is the custody account of the master.
	Address string `toml:"address"`
	Admin   string `toml:"admin"`

	// FeeRate is the protocol fee in basis points of the gross price.
	FeeRate     int      `toml:"fee_rate"`
	GracePeriod Duration `toml:"grace_period"`

	FeeTo            string `toml:"fee_to"`
	BaseToken        string `toml:"base_token"`
	SecondaryToken   string `toml:"secondary_token"`
	RandomnessOracle string `toml:"randomness_oracle"`

	// CommissionPolicy is "sole" or "even".
	CommissionPolicy string `toml:"commission_policy"`

	Collaborator CollaboratorMode `toml:"collaborator"`
	// UseKafkaOracle publishes randomness requests to kafka instead of
	// recording them locally.
	UseKafkaOracle bool `toml:"use_kafka_oracle"`
}

type SnowFlakeConfigs struct {
	NodeID int64 `toml:"node_id"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: 1,
		Database: DatabaseConfigs{
			Driver: "sqlite",
			DSN:    "boxmaster.db",
		},
		ApiServer: ServerConfigs{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			Expiration: Duration{24 * time.Hour},
		},
		Redis: RedisConfigs{
			LockTTL: Duration{30 * time.Second},
		},
		Master: MasterConfigs{
			FeeRate:          500,
			GracePeriod:      Duration{14 * 24 * time.Hour},
			CommissionPolicy: "sole",
			Collaborator:     LocalCollaborator,
		},
	}
}

// Load reads a TOML file on top of the default configurations.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

// Duration decodes TOML strings such as "336h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}
