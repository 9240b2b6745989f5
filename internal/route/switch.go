package route

import "github.com/pkg/errors"

// setDefaultOutput switches the system default output to the first
// enumerated device whose name equals name exactly. Matching here is
// case-sensitive while the inspector's is not; the asymmetry is preserved
// from the observed behavior rather than unified (see DESIGN.md).
func (w *Workflow) setDefaultOutput(name string) error {
	ids, err := w.audio.Outputs()
	if err != nil {
		return errors.Wrap(ErrAudioSwitchFailed, err.Error())
	}
	for _, id := range ids {
		got, err := w.audio.Name(id)
		if err != nil {
			// A single unreadable device doesn't abort the scan.
			w.log.Debug().Str("output", string(id)).Err(err).Msg("skipping unreadable output")
			continue
		}
		if got != name {
			continue
		}
		if err := w.audio.SetDefaultOutput(id); err != nil {
			return errors.Wrap(ErrAudioSwitchFailed, err.Error())
		}
		return nil
	}
	return errors.Wrapf(ErrAudioSwitchFailed, "no output named %q", name)
}
