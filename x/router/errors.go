package router

import "github.com/iov-one/testament/errors"

var (
	ErrWillNotFound                 = errors.Register(220, "will not found")
	ErrWillLimitExceeded            = errors.Register(221, "will limit exceeded")
	ErrSignerIsNotOwnerOfSafeWallet = errors.Register(222, "signer is not owner of safe wallet")
	ErrExistedGuardInSafeWallet     = errors.Register(223, "guard or module already attached to safe wallet")
)
