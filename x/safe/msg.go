package safe

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

const (
	PathCreateSafeMsg    = "safe/create_safe"
	PathSetGuardMsg      = "safe/set_guard"
	PathEnableModuleMsg  = "safe/enable_module"
	PathDisableModuleMsg = "safe/disable_module"
)

var _ testament.Msg = (*CreateSafeMsg)(nil)

// Path fulfills testament.Msg interface to allow routing
func (CreateSafeMsg) Path() string {
	return PathCreateSafeMsg
}

// Validate enforces owners and threshold boundaries
func (m *CreateSafeMsg) Validate() error {
	return validateOwners(m.Owners, m.Threshold)
}

var _ testament.Msg = (*SetGuardMsg)(nil)

func (SetGuardMsg) Path() string {
	return PathSetGuardMsg
}

func (m *SetGuardMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	if m.Guard != nil {
		errs = errors.AppendField(errs, "Guard", m.Guard.Validate())
	}
	return errs
}

var _ testament.Msg = (*EnableModuleMsg)(nil)

func (EnableModuleMsg) Path() string {
	return PathEnableModuleMsg
}

func (m *EnableModuleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "Module", m.Module.Validate())
	return errs
}

var _ testament.Msg = (*DisableModuleMsg)(nil)

func (DisableModuleMsg) Path() string {
	return PathDisableModuleMsg
}

func (m *DisableModuleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "Module", m.Module.Validate())
	return errs
}

// Validate checks the exec header.
func (m *ExecInfo) Validate() error {
	if err := m.Wallet.Validate(); err != nil {
		return errors.Field("Wallet", err, "")
	}
	switch m.Operation {
	case Call, DelegateCall:
		return nil
	default:
		return errors.Field("Operation", errors.ErrInput, "unknown operation %d", m.Operation)
	}
}
