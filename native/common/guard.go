package common

import "errors"

// ErrModulePaused rejects every mutating operation while the protocol admin
// holds the engine paused. Read paths are never guarded.
var ErrModulePaused = errors.New("module paused: mutations suspended")

// PauseView reports the admin pause flag for a named engine module.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard gates a mutating operation on the module's pause flag. A nil view or
// empty module name means pausing is not wired and the operation proceeds.
func Guard(view PauseView, module string) error {
	if view == nil || module == "" {
		return nil
	}
	if view.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
