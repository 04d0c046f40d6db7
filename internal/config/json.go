package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly duration fields so operators can keep settings in a
// config file alongside environment variables.
type StructuredJSONConfig struct {
	Auth struct {
		BcryptCost         int      `json:"bcrypt_cost"`
		LockoutThreshold   int      `json:"lockout_threshold"`
		RequireSpecialChar bool     `json:"require_special_char"`
		SessionDuration    Duration `json:"session_duration"`
		RememberMeDuration Duration `json:"remember_me_duration"`
		ResetTokenSignKey  string   `json:"reset_token_sign_key"`
		ResetTokenIssuer   string   `json:"reset_token_issuer"`
		ResetTokenDuration Duration `json:"reset_token_duration"`
	} `json:"auth,omitempty"`

	RateLimit struct {
		AuthWindow Duration `json:"auth_window"`
		AuthMax    int      `json:"auth_max"`
		APIWindow  Duration `json:"api_window"`
		APIMax     int      `json:"api_max"`
		SweepGrace Duration `json:"sweep_grace"`
	} `json:"rate_limit,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		SessionSweepInterval Duration `json:"session_sweep_interval"`
		BucketSweepInterval  Duration `json:"bucket_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			BcryptCost:         jsonCfg.Auth.BcryptCost,
			LockoutThreshold:   jsonCfg.Auth.LockoutThreshold,
			RequireSpecialChar: jsonCfg.Auth.RequireSpecialChar,
			SessionDuration:    time.Duration(jsonCfg.Auth.SessionDuration),
			RememberMeDuration: time.Duration(jsonCfg.Auth.RememberMeDuration),
			ResetTokenSignKey:  jsonCfg.Auth.ResetTokenSignKey,
			ResetTokenIssuer:   jsonCfg.Auth.ResetTokenIssuer,
			ResetTokenDuration: time.Duration(jsonCfg.Auth.ResetTokenDuration),
		},
		RateLimit: RateLimit{
			AuthWindow: time.Duration(jsonCfg.RateLimit.AuthWindow),
			AuthMax:    jsonCfg.RateLimit.AuthMax,
			APIWindow:  time.Duration(jsonCfg.RateLimit.APIWindow),
			APIMax:     jsonCfg.RateLimit.APIMax,
			SweepGrace: time.Duration(jsonCfg.RateLimit.SweepGrace),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			SessionSweepInterval: time.Duration(jsonCfg.Workers.SessionSweepInterval),
			BucketSweepInterval:  time.Duration(jsonCfg.Workers.BucketSweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s" as well as bare nanosecond
// numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
