package params

import (
	"errors"

	"tradewind/core/events"
	"tradewind/core/types"
)

var (
	errNilState     = errors.New("params manager: state not configured")
	ErrUnauthorized = errors.New("params manager: caller is not the admin")
)

// Store abstracts the persistence required by the parameter manager.
type Store interface {
	FeeConfigGet() (FeeConfig, error)
	FeeConfigPut(FeeConfig) error
	TokenBlacklistedGet(token [20]byte) (bool, error)
	TokenBlacklistedPut(token [20]byte, blacklisted bool) error
	PausedGet() (bool, error)
	PausedPut(paused bool) error
}

type paramsEvent struct {
	evt *types.Event
}

func (e paramsEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e paramsEvent) Event() *types.Event { return e.evt }

// Manager owns the admin-mutable protocol configuration: fee percentages, the
// token blacklist and the global pause flag. Every mutation is restricted to
// the configured admin principal and emits a change event.
type Manager struct {
	state   Store
	admin   [20]byte
	emitter events.Emitter
}

// NewManager creates a parameter manager bound to the supplied admin address.
func NewManager(admin [20]byte) *Manager {
	return &Manager{admin: admin, emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the manager.
func (m *Manager) SetState(state Store) { m.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (m *Manager) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		m.emitter = events.NoopEmitter{}
		return
	}
	m.emitter = emitter
}

func (m *Manager) emit(evt *types.Event) {
	if m == nil || m.emitter == nil || evt == nil {
		return
	}
	m.emitter.Emit(paramsEvent{evt: evt})
}

func (m *Manager) requireAdmin(caller [20]byte) error {
	if m == nil || m.state == nil {
		return errNilState
	}
	if caller != m.admin {
		return ErrUnauthorized
	}
	return nil
}

// FeeConfig returns the stored fee configuration.
func (m *Manager) FeeConfig() (FeeConfig, error) {
	if m == nil || m.state == nil {
		return FeeConfig{}, errNilState
	}
	return m.state.FeeConfigGet()
}

// SetProtocolFeePercentage overwrites the protocol fee and emits
// ProtocolFeePercentageUpdated. Setting the same value twice is not an error.
func (m *Manager) SetProtocolFeePercentage(caller [20]byte, bps uint32) error {
	if err := m.requireAdmin(caller); err != nil {
		return err
	}
	cfg, err := m.state.FeeConfigGet()
	if err != nil {
		return err
	}
	cfg.ProtocolFeeBps = bps
	if err := m.state.FeeConfigPut(cfg); err != nil {
		return err
	}
	m.emit(NewProtocolFeePercentageUpdatedEvent(bps))
	return nil
}

// SetDisputeHandlerFeePercentageCommission overwrites the protocol's cut of
// dispute-handler fees and emits DisputeHandlerFeePercentageCommissionUpdated.
func (m *Manager) SetDisputeHandlerFeePercentageCommission(caller [20]byte, bps uint32) error {
	if err := m.requireAdmin(caller); err != nil {
		return err
	}
	cfg, err := m.state.FeeConfigGet()
	if err != nil {
		return err
	}
	cfg.DisputeHandlerFeeCommissionBps = bps
	if err := m.state.FeeConfigPut(cfg); err != nil {
		return err
	}
	m.emit(NewDisputeHandlerFeePercentageCommissionUpdatedEvent(bps))
	return nil
}

// SetMaxDisputeHandlerFeePercentage overwrites the cap applied to
// offer- and bid-declared dispute-handler fees.
func (m *Manager) SetMaxDisputeHandlerFeePercentage(caller [20]byte, bps uint32) error {
	if err := m.requireAdmin(caller); err != nil {
		return err
	}
	cfg, err := m.state.FeeConfigGet()
	if err != nil {
		return err
	}
	cfg.MaxDisputeHandlerFeeBps = bps
	if err := m.state.FeeConfigPut(cfg); err != nil {
		return err
	}
	m.emit(NewMaxDisputeHandlerFeePercentageUpdatedEvent(bps))
	return nil
}

// SetTokenBlacklisted flips the blacklist flag for an asset. The flag is
// checked at offer/bid creation only, never retroactively.
func (m *Manager) SetTokenBlacklisted(caller [20]byte, token [20]byte, blacklisted bool) error {
	if err := m.requireAdmin(caller); err != nil {
		return err
	}
	if err := m.state.TokenBlacklistedPut(token, blacklisted); err != nil {
		return err
	}
	m.emit(NewTokenBlacklistUpdatedEvent(token, blacklisted))
	return nil
}

// Pause disables all state-mutating market operations. Idempotent.
func (m *Manager) Pause(caller [20]byte) error {
	if err := m.requireAdmin(caller); err != nil {
		return err
	}
	if err := m.state.PausedPut(true); err != nil {
		return err
	}
	m.emit(NewPausedEvent(caller))
	return nil
}

// Unpause re-enables state-mutating market operations. Idempotent.
func (m *Manager) Unpause(caller [20]byte) error {
	if err := m.requireAdmin(caller); err != nil {
		return err
	}
	if err := m.state.PausedPut(false); err != nil {
		return err
	}
	m.emit(NewUnpausedEvent(caller))
	return nil
}

// IsPaused implements common.PauseView. The pause flag gates every module
// uniformly, so the module name is ignored.
func (m *Manager) IsPaused(string) bool {
	if m == nil || m.state == nil {
		return false
	}
	paused, err := m.state.PausedGet()
	if err != nil {
		return false
	}
	return paused
}

// MaxDisputeHandlerFeeBps implements the fee-cap view consumed by the market
// engine's item validation.
func (m *Manager) MaxDisputeHandlerFeeBps() uint32 {
	cfg, err := m.FeeConfig()
	if err != nil {
		return 0
	}
	return cfg.MaxDisputeHandlerFeeBps
}

// IsTokenBlacklisted implements the blacklist view consumed by the market
// engine.
func (m *Manager) IsTokenBlacklisted(token [20]byte) bool {
	if m == nil || m.state == nil {
		return false
	}
	blacklisted, err := m.state.TokenBlacklistedGet(token)
	if err != nil {
		return false
	}
	return blacklisted
}
