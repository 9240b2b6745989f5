// Package route implements the connect-and-route workflow: resolve a
// Bluetooth device by address, wait for it to connect, then make sure the
// system's default audio output points at it.
package route

import (
	"time"

	"github.com/rs/zerolog"
)

// Device is an opaque handle to a resolved Bluetooth device.
type Device string

// OutputID is an opaque identifier for an audio output device.
type OutputID string

// Bluetooth is the slice of the platform Bluetooth layer the workflow needs.
type Bluetooth interface {
	// Resolve turns a MAC address into a device handle. An error means the
	// address is malformed or the device is not known to the adapter.
	Resolve(address string) (Device, error)
	// OpenConnection asks the device to connect. An error is the open
	// request itself being rejected, not a timeout.
	OpenConnection(dev Device) error
	// Connected reports whether the device is currently connected.
	Connected(dev Device) (bool, error)
	// Name returns the device's user-visible name, empty if unknown.
	Name(dev Device) (string, error)
}

// Audio is the slice of the platform audio layer the workflow needs.
type Audio interface {
	// DefaultOutput returns the current default output device. An error
	// means no default is resolvable.
	DefaultOutput() (OutputID, error)
	// TransportKind returns the device's connection medium, e.g.
	// "bluetooth", "usb", "pci". Empty when the platform doesn't say.
	TransportKind(id OutputID) (string, error)
	// Name returns the device's display name.
	Name(id OutputID) (string, error)
	// Outputs lists all known output devices.
	Outputs() ([]OutputID, error)
	// SetDefaultOutput makes id the system default output.
	SetDefaultOutput(id OutputID) error
}

// Config parameterizes one workflow run. A single Config replaces the
// hardcoded per-device program variants this tool grew out of.
type Config struct {
	// Address is the target device's MAC address.
	Address string
	// Name is the audio output name to switch to. Falls back to Address
	// when empty.
	Name string
	// ConnectTimeout bounds the connection poll loop.
	ConnectTimeout time.Duration
	// PollInterval is the sleep between connection-status checks.
	PollInterval time.Duration
	// Transport is the transport-kind token that identifies a Bluetooth
	// output device, resolved once at startup.
	Transport string
}

// Workflow runs the connect-and-route sequence against a pair of platform
// collaborators. It holds no state between runs.
type Workflow struct {
	cfg   Config
	bt    Bluetooth
	audio Audio
	log   zerolog.Logger
}

func New(cfg Config, bt Bluetooth, audio Audio, log zerolog.Logger) *Workflow {
	if cfg.Name == "" {
		cfg.Name = cfg.Address
	}
	return &Workflow{cfg: cfg, bt: bt, audio: audio, log: log}
}
