package route

import "github.com/pkg/errors"

// Every failure of a run wraps one of these. The caller maps them to exit
// codes; nothing here is retried.
var (
	ErrDeviceNotFound       = errors.New("bluetooth device not found")
	ErrConnectionOpenFailed = errors.New("connection open request failed")
	ErrConnectionTimeout    = errors.New("timed out waiting for connection")
	ErrAudioSwitchFailed    = errors.New("switching default output failed")
)
