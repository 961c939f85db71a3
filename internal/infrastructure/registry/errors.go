package registry

import "errors"

var (
	// ErrTransferNotAllowed is returned when the operator is neither the owner
	// nor approved to move the token.
	ErrTransferNotAllowed = errors.New("operator is not allowed to transfer token")
	// ErrTransferRejected is returned when the recipient refuses the token.
	ErrTransferRejected = errors.New("recipient rejected token")
)
