package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-bcrypt-cost bcrypt cost factor for password hashing
//	-lockout-threshold failed logins before an account is deactivated
//	-session-duration session lifetime (e.g., "24h")
//	-remember-me-duration extended session lifetime (e.g., "168h")
//	-reset-token-sign-key password-reset token signing key
//	-reset-token-issuer password-reset token issuer name
//	-reset-token-duration password-reset token lifetime (e.g., "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var bcryptCost int
	var lockoutThreshold int
	var sessionDuration time.Duration
	var rememberMeDuration time.Duration
	var resetTokenSignKey string
	var resetTokenIssuer string
	var resetTokenDuration time.Duration
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt cost factor")
	flag.IntVar(&lockoutThreshold, "lockout-threshold", 0, "Failed logins before lockout")
	flag.DurationVar(&sessionDuration, "session-duration", 0, "Session duration (e.g., 24h)")
	flag.DurationVar(&rememberMeDuration, "remember-me-duration", 0, "Remember-me session duration (e.g., 168h)")
	flag.StringVar(&resetTokenSignKey, "reset-token-sign-key", "", "Password-reset token signing key")
	flag.StringVar(&resetTokenIssuer, "reset-token-issuer", "", "Password-reset token issuer")
	flag.DurationVar(&resetTokenDuration, "reset-token-duration", 0, "Password-reset token duration (e.g., 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	cfg := &StructuredConfig{
		Auth: Auth{
			BcryptCost:         bcryptCost,
			LockoutThreshold:   lockoutThreshold,
			SessionDuration:    sessionDuration,
			RememberMeDuration: rememberMeDuration,
			ResetTokenSignKey:  resetTokenSignKey,
			ResetTokenIssuer:   resetTokenIssuer,
			ResetTokenDuration: resetTokenDuration,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}

	if serverAddress.Host != "" || serverAddress.Port != 0 {
		cfg.Server.HTTPAddress = serverAddress.String()
	}

	return cfg
}

// String returns the network address in "host:port" form.
// Implements the flag.Value interface.
func (a *NetAddress) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses a "host:port" string into the NetAddress.
// Implements the flag.Value interface.
func (a *NetAddress) Set(s string) error {
	hp := strings.Split(s, ":")
	if len(hp) != 2 {
		return errors.New("need address in a form host:port")
	}

	port, err := strconv.Atoi(hp[1])
	if err != nil {
		return err
	}

	a.Host = hp[0]
	a.Port = port
	return nil
}
