package route

import "strings"

// isDefaultOutput reports whether the current default output already routes
// to the given Bluetooth device. The audio layer offers no stable
// cross-reference from an output device back to a Bluetooth device, so this
// is a name heuristic: the default must be on the Bluetooth transport and
// its name must either equal the device's name case-insensitively, or start
// with it (the audio layer may append a suffix, e.g. a connection-state
// marker, to the displayed name).
//
// Any property read failing degrades to false, never to an error.
func (w *Workflow) isDefaultOutput(dev Device) bool {
	id, err := w.audio.DefaultOutput()
	if err != nil {
		return false
	}
	kind, err := w.audio.TransportKind(id)
	if err != nil || kind != w.cfg.Transport {
		return false
	}
	name, err := w.audio.Name(id)
	if err != nil {
		return false
	}

	audioName := strings.ToLower(name)
	target := strings.ToLower(w.targetName(dev))
	if audioName == target {
		return true
	}
	return strings.HasPrefix(audioName, target)
}

// targetName is the Bluetooth device's name, or its address when the
// Bluetooth layer doesn't know one.
func (w *Workflow) targetName(dev Device) string {
	if name, err := w.bt.Name(dev); err == nil && name != "" {
		return name
	}
	return w.cfg.Address
}
