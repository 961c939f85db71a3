package funds

import "errors"

// ErrPaymentRejected is returned when the recipient refuses a payment.
var ErrPaymentRejected = errors.New("recipient rejected payment")
