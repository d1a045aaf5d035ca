package adaptive

import "errors"

var (
	ErrNoStepSizes           = errors.New("adaptive: empty step size list")
	ErrInvalidStepSize       = errors.New("adaptive: step size must be finite and >= 0")
	ErrNoTaps                = errors.New("adaptive: filter needs at least one tap")
	ErrLengthMismatch        = errors.New("adaptive: buffer length mismatch")
	ErrCoefficientLength     = errors.New("adaptive: coefficient length does not match tap count")
	ErrBlockTooLarge         = errors.New("adaptive: block longer than filter")
	ErrInvalidRegularization = errors.New("adaptive: regularization must be > 0")
	ErrInvalidForgetting     = errors.New("adaptive: forgetting factor must be > 0")
)
