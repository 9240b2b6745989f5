package route

import "github.com/pkg/errors"

// Step identifies a phase of the workflow in transition logs.
type Step string

const (
	StepResolve Step = "resolve"
	StepConnect Step = "connect"
	StepInspect Step = "inspect"
	StepSwitch  Step = "switch"
)

// Result reports how a run ended when it didn't fail.
type Result struct {
	// AlreadySatisfied means the device was connected and routed before we
	// touched anything, or was already the default after connecting.
	AlreadySatisfied bool
	// Switched means the default output was changed to the target.
	Switched bool
}

// Run executes one pass of the workflow. Every failure is terminal; there
// is no retry of any step.
func (w *Workflow) Run() (Result, error) {
	w.log.Info().Str("step", string(StepResolve)).Str("address", w.cfg.Address).Msg("resolving device")
	dev, err := w.bt.Resolve(w.cfg.Address)
	if err != nil {
		return Result{}, errors.Wrap(ErrDeviceNotFound, err.Error())
	}

	w.log.Info().Str("step", string(StepConnect)).Str("device", string(dev)).Msg("waiting for connection")
	alreadyRouted, err := w.connectAndWait(dev)
	if err != nil {
		return Result{}, err
	}
	if alreadyRouted {
		w.log.Info().Msg("already connected and routed, nothing to do")
		return Result{AlreadySatisfied: true}, nil
	}

	w.log.Info().Str("step", string(StepInspect)).Msg("device connected, checking default output")
	if w.isDefaultOutput(dev) {
		w.log.Info().Msg("device is already the default output")
		return Result{AlreadySatisfied: true}, nil
	}

	w.log.Info().Str("step", string(StepSwitch)).Str("name", w.cfg.Name).Msg("switching default output")
	if err := w.setDefaultOutput(w.cfg.Name); err != nil {
		return Result{}, err
	}
	w.log.Info().Str("name", w.cfg.Name).Msg("default output switched")
	return Result{Switched: true}, nil
}
