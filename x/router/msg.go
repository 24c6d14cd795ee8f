package router

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/will"
)

const (
	PathCreateWillMsg           = "router/create_will"
	PathDeleteWillMsg           = "router/delete_will"
	PathWithdrawMsg             = "router/withdraw"
	PathUpdateDistributionMsg   = "router/update_distribution"
	PathSetBeneficiariesMsg     = "router/set_beneficiaries"
	PathSetConfigMsg            = "router/set_config"
	PathSetActivationTriggerMsg = "router/set_activation_trigger"
	PathSetNameNoteMsg          = "router/set_name_note"
	PathActivateWillMsg         = "router/activate_will"

	PathUpdateConfigurationMsg = "router/update_configuration"
	PathSetWillFeeMsg          = "router/set_will_fee"
	PathSetWillLimitMsg        = "router/set_will_limit"
	PathSetBeneficiaryLimitMsg = "router/set_beneficiary_limit"
	PathAddOperatorMsg         = "router/add_operator"
	PathRemoveOperatorMsg      = "router/remove_operator"
)

// willMsg is implemented by every message acting on an existing will.
type willMsg interface {
	testament.Msg
	GetWillID() uint64
}

func validateWillID(id uint64) error {
	if id == 0 {
		return errors.Field("WillID", errors.ErrEmpty, "required")
	}
	return nil
}

// validateMain checks the shape of a main configuration. Percent and
// beneficiary rules need the ledger state and are checked on execution.
func validateMain(main *will.MainConfig) error {
	if main == nil {
		return errors.Field("Main", will.ErrEmptyArray, "required")
	}
	return validateRows(main.Nicknames, main.Distributions)
}

func validateRows(nicknames []string, rows []*will.Distribution) error {
	if len(nicknames) != len(rows) {
		return errors.Field("Nicknames", will.ErrTwoArraysLengthMismatch, "%d nicknames, %d distributions", len(nicknames), len(rows))
	}
	if len(rows) == 0 {
		return errors.Field("Distributions", will.ErrEmptyArray, "required")
	}
	for i, r := range rows {
		if r == nil {
			return errors.Field("Distributions", errors.ErrEmpty, "distribution %d", i)
		}
		if len(r.Assets) != len(r.Percents) {
			return errors.Field("Distributions", will.ErrTwoArraysLengthMismatch, "distribution %d", i)
		}
	}
	return nil
}

var _ testament.Msg = (*CreateWillMsg)(nil)

func (CreateWillMsg) Path() string {
	return PathCreateWillMsg
}

func (m *CreateWillMsg) Validate() error {
	var errs error
	switch m.Kind {
	case will.Custody:
		if m.Safe != nil {
			errs = errors.AppendField(errs, "Safe", errors.ErrInput)
		}
	case will.Forwarding:
		errs = errors.AppendField(errs, "Safe", m.Safe.Validate())
	default:
		errs = errors.AppendField(errs, "Kind", errors.ErrInput)
	}
	errs = errors.Append(errs, validateMain(m.Main))
	if m.Extra == nil {
		errs = errors.AppendField(errs, "Extra", errors.ErrEmpty)
	}
	if _, err := bank.ParseAmount(m.Deposit); err != nil {
		errs = errors.AppendField(errs, "Deposit", err)
	}
	return errs
}

var _ testament.Msg = (*DeleteWillMsg)(nil)

func (DeleteWillMsg) Path() string {
	return PathDeleteWillMsg
}

func (m *DeleteWillMsg) Validate() error {
	return validateWillID(m.WillID)
}

func (m *DeleteWillMsg) GetWillID() uint64 {
	return m.WillID
}

var _ testament.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return PathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	errs := validateWillID(m.WillID)
	if _, err := bank.ParseAmount(m.Amount); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	}
	return errs
}

func (m *WithdrawMsg) GetWillID() uint64 {
	return m.WillID
}

var _ willMsg = (*UpdateDistributionMsg)(nil)

func (UpdateDistributionMsg) Path() string {
	return PathUpdateDistributionMsg
}

func (m *UpdateDistributionMsg) Validate() error {
	errs := validateWillID(m.WillID)
	return errors.Append(errs, validateRows(m.Nicknames, m.Distributions))
}

func (m *UpdateDistributionMsg) GetWillID() uint64 {
	return m.WillID
}

var _ willMsg = (*SetBeneficiariesMsg)(nil)

func (SetBeneficiariesMsg) Path() string {
	return PathSetBeneficiariesMsg
}

func (m *SetBeneficiariesMsg) Validate() error {
	errs := validateWillID(m.WillID)
	if len(m.Nicknames) != len(m.Beneficiaries) {
		errs = errors.Append(errs, errors.Field("Nicknames", will.ErrTwoArraysLengthMismatch, "%d nicknames, %d beneficiaries", len(m.Nicknames), len(m.Beneficiaries)))
	}
	if len(m.Beneficiaries) == 0 {
		errs = errors.Append(errs, errors.Field("Beneficiaries", will.ErrEmptyArray, "required"))
	}
	return errs
}

func (m *SetBeneficiariesMsg) GetWillID() uint64 {
	return m.WillID
}

var _ willMsg = (*SetConfigMsg)(nil)

func (SetConfigMsg) Path() string {
	return PathSetConfigMsg
}

func (m *SetConfigMsg) Validate() error {
	errs := validateWillID(m.WillID)
	errs = errors.Append(errs, validateMain(m.Main))
	if m.Extra == nil {
		errs = errors.AppendField(errs, "Extra", errors.ErrEmpty)
	}
	return errs
}

func (m *SetConfigMsg) GetWillID() uint64 {
	return m.WillID
}

var _ willMsg = (*SetActivationTriggerMsg)(nil)

func (SetActivationTriggerMsg) Path() string {
	return PathSetActivationTriggerMsg
}

func (m *SetActivationTriggerMsg) Validate() error {
	errs := validateWillID(m.WillID)
	if m.LackOfOutgoingTxRange <= 0 {
		errs = errors.Append(errs, errors.Field("LackOfOutgoingTxRange", will.ErrActivationTriggerInvalid, "must be positive"))
	}
	return errs
}

func (m *SetActivationTriggerMsg) GetWillID() uint64 {
	return m.WillID
}

var _ willMsg = (*SetNameNoteMsg)(nil)

func (SetNameNoteMsg) Path() string {
	return PathSetNameNoteMsg
}

func (m *SetNameNoteMsg) Validate() error {
	return validateWillID(m.WillID)
}

func (m *SetNameNoteMsg) GetWillID() uint64 {
	return m.WillID
}

var _ testament.Msg = (*ActivateWillMsg)(nil)

func (ActivateWillMsg) Path() string {
	return PathActivateWillMsg
}

func (m *ActivateWillMsg) Validate() error {
	return validateWillID(m.WillID)
}

var _ testament.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return PathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	return m.Patch.Validate()
}

var _ testament.Msg = (*SetWillFeeMsg)(nil)

func (SetWillFeeMsg) Path() string {
	return PathSetWillFeeMsg
}

func (m *SetWillFeeMsg) Validate() error {
	if _, err := bank.ParseAmount(m.Fee); err != nil {
		return errors.Field("Fee", err, "")
	}
	return nil
}

var _ testament.Msg = (*SetWillLimitMsg)(nil)

func (SetWillLimitMsg) Path() string {
	return PathSetWillLimitMsg
}

func (m *SetWillLimitMsg) Validate() error {
	return nil
}

var _ testament.Msg = (*SetBeneficiaryLimitMsg)(nil)

func (SetBeneficiaryLimitMsg) Path() string {
	return PathSetBeneficiaryLimitMsg
}

func (m *SetBeneficiaryLimitMsg) Validate() error {
	return nil
}

var _ testament.Msg = (*AddOperatorMsg)(nil)

func (AddOperatorMsg) Path() string {
	return PathAddOperatorMsg
}

func (m *AddOperatorMsg) Validate() error {
	return errors.AppendField(nil, "Operator", m.Operator.Validate())
}

var _ testament.Msg = (*RemoveOperatorMsg)(nil)

func (RemoveOperatorMsg) Path() string {
	return PathRemoveOperatorMsg
}

func (m *RemoveOperatorMsg) Validate() error {
	return errors.AppendField(nil, "Operator", m.Operator.Validate())
}
