package will

import "github.com/iov-one/testament/errors"

var (
	ErrOnlyOwner                    = errors.Register(200, "only owner")
	ErrOnlyRouter                   = errors.Register(201, "only router")
	ErrNotBeneficiary               = errors.Register(202, "not beneficiary")
	ErrSignatureInvalid             = errors.Register(203, "signature invalid")
	ErrTwoArraysLengthMismatch      = errors.Register(204, "two arrays length mismatch")
	ErrEmptyArray                   = errors.Register(205, "empty array")
	ErrBeneficiaryLimitExceeded     = errors.Register(206, "beneficiary limit exceeded")
	ErrInvalidPercent               = errors.Register(207, "invalid percent")
	ErrTotalPercentInvalid          = errors.Register(208, "total percent invalid")
	ErrMinRequiredSignaturesInvalid = errors.Register(209, "min required signatures invalid")
	ErrActivationTriggerInvalid     = errors.Register(210, "activation trigger invalid")
	ErrBeneficiaryInvalid           = errors.Register(211, "beneficiary invalid")
	ErrWillNotActive                = errors.Register(212, "will not active")
	ErrWillAlreadyInitialized       = errors.Register(213, "will already initialized")
	ErrNotEnoughConditionalActive   = errors.Register(214, "not enough conditional active")
	ErrGuardSafeWalletInvalid       = errors.Register(215, "guard of safe wallet invalid")
	ErrModuleSafeWalletInvalid      = errors.Register(216, "module of safe wallet invalid")
	ErrNotEnoughEther               = errors.Register(217, "not enough ether")
	ErrERC20NotInWhitelist          = errors.Register(218, "asset not in whitelist")
)
