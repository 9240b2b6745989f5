// Package config assembles the target-device descriptor from flags,
// environment and the devices file, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for everything the user doesn't set.
const (
	DefaultConnectTimeout = 20 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
	// DefaultTransport is the transport-kind token that marks an audio
	// output as Bluetooth. Overridable for audio servers that report a
	// different token.
	DefaultTransport = "bluetooth"
)

// Environment overrides, loaded after a best-effort .env read.
const (
	EnvAddress        = "CONNECTBLUE_ADDRESS"
	EnvName           = "CONNECTBLUE_NAME"
	EnvConnectTimeout = "CONNECTBLUE_CONNECT_TIMEOUT"
	EnvPollInterval   = "CONNECTBLUE_POLL_INTERVAL"
	EnvTransport      = "CONNECTBLUE_TRANSPORT"
)

// Device is one entry in the devices file.
type Device struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Target is the immutable descriptor a workflow run is parameterized with.
type Target struct {
	Address        string
	Name           string
	ConnectTimeout time.Duration
	PollInterval   time.Duration
	Transport      string
}

func configPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "connectblue", "devices.json")
}

// loadDevices reads the devices file. A missing file is not an error; the
// caller just has no fallback device.
func loadDevices() ([]Device, error) {
	data, err := os.ReadFile(configPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read devices file: %w", err)
	}
	var devices []Device
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath(), err)
	}
	return devices, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse $%s: %w", key, err)
	}
	return d, nil
}

// Load resolves the descriptor. address and name come from flags or
// positionals and win over everything; timeout and poll are zero when the
// flags were not set. The first devices-file entry fills in whatever is
// still missing, then defaults apply. Name falls back to the address.
func Load(address, name string, timeout, poll time.Duration) (Target, error) {
	// Best effort; most runs have no .env file.
	_ = godotenv.Load()

	if address == "" {
		address = os.Getenv(EnvAddress)
	}
	if name == "" {
		name = os.Getenv(EnvName)
	}
	if address == "" || name == "" {
		devices, err := loadDevices()
		if err != nil {
			return Target{}, err
		}
		if address == "" && len(devices) > 0 {
			address = devices[0].Address
		}
		if name == "" {
			for _, d := range devices {
				if d.Address == address && d.Name != "" {
					name = d.Name
					break
				}
			}
		}
	}
	if address == "" {
		return Target{}, fmt.Errorf("no device address given (flag, argument, $%s or %s)", EnvAddress, configPath())
	}
	if name == "" {
		name = address
	}

	var err error
	if timeout == 0 {
		if timeout, err = envDuration(EnvConnectTimeout, DefaultConnectTimeout); err != nil {
			return Target{}, err
		}
	}
	if poll == 0 {
		if poll, err = envDuration(EnvPollInterval, DefaultPollInterval); err != nil {
			return Target{}, err
		}
	}

	transport := os.Getenv(EnvTransport)
	if transport == "" {
		transport = DefaultTransport
	}

	return Target{
		Address:        address,
		Name:           name,
		ConnectTimeout: timeout,
		PollInterval:   poll,
		Transport:      transport,
	}, nil
}
