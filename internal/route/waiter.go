package route

import (
	"time"

	"github.com/pkg/errors"
)

// connectAndWait brings the device to a connected state. If it is already
// connected and already the default output, it returns alreadyRouted without
// issuing an open request. Otherwise it opens a connection and polls the
// connected status until the timeout elapses.
//
// The loop blocks the calling goroutine for up to ConnectTimeout; the only
// early exit is the device reporting connected.
func (w *Workflow) connectAndWait(dev Device) (alreadyRouted bool, err error) {
	if ok, err := w.bt.Connected(dev); err == nil && ok && w.isDefaultOutput(dev) {
		return true, nil
	}

	if err := w.bt.OpenConnection(dev); err != nil {
		return false, errors.Wrap(ErrConnectionOpenFailed, err.Error())
	}

	deadline := time.Now().Add(w.cfg.ConnectTimeout)
	for time.Now().Before(deadline) {
		if ok, _ := w.bt.Connected(dev); ok {
			return false, nil
		}
		time.Sleep(w.cfg.PollInterval)
	}

	// The device may have connected between the last poll and the deadline
	// expiring, so check once more before giving up.
	if ok, _ := w.bt.Connected(dev); ok {
		return false, nil
	}
	return false, errors.Wrapf(ErrConnectionTimeout, "after %s", w.cfg.ConnectTimeout)
}
