package whitelist

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

const (
	PathUpdateMsg              = "whitelist/update"
	PathUpdateConfigurationMsg = "whitelist/update_configuration"
)

var _ testament.Msg = (*UpdateMsg)(nil)

func (UpdateMsg) Path() string {
	return PathUpdateMsg
}

func (m *UpdateMsg) Validate() error {
	if len(m.Assets) == 0 {
		return errors.Field("Assets", errors.ErrEmpty, "at least one asset required")
	}
	var errs error
	for i, a := range m.Assets {
		if err := a.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Assets", err, "asset %d", i))
		}
	}
	return errs
}

var _ testament.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return PathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch required")
	}
	return m.Patch.Validate()
}
