package otp

import "fmt"

// Kind classifies the result of a validation attempt.
type Kind int

const (
	NoPendingOtp Kind = iota
	Empty
	Mismatch
	Expired
	Valid
)

var kindNames = [...]string{
	NoPendingOtp: "no_pending_otp",
	Empty:        "empty",
	Mismatch:     "mismatch",
	Expired:      "expired",
	Valid:        "valid",
}

// String returns a stable snake_case name, used in logs, metrics and API responses.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// State is the state the record reached through this kind of outcome.
func (k Kind) State() State {
	switch k {
	case Valid:
		return StateVerified
	case Expired:
		return StateExpired
	case Mismatch:
		return StateMismatched
	default:
		return StateNoRecord
	}
}

const (
	MsgEmpty        = "Please enter the OTP code."
	MsgNoPendingOtp = "OTP session expired. Please try again."
	MsgExpired      = "OTP has expired. Please request a new code."
	MsgValid        = "OTP validation successful"
)

// Outcome is a validation result with its user-facing message.
// The message never contains the expected code.
type Outcome struct {
	Kind    Kind
	Message string
}

// OK reports whether the submitted code was accepted.
func (o Outcome) OK() bool {
	return o.Kind == Valid
}

func newOutcome(k Kind) Outcome {
	switch k {
	case Empty:
		return Outcome{Kind: Empty, Message: MsgEmpty}
	case Expired:
		return Outcome{Kind: Expired, Message: MsgExpired}
	case Valid:
		return Outcome{Kind: Valid, Message: MsgValid}
	default:
		return Outcome{Kind: NoPendingOtp, Message: MsgNoPendingOtp}
	}
}

func mismatchOutcome(digits int, medium string) Outcome {
	return Outcome{
		Kind:    Mismatch,
		Message: fmt.Sprintf("Invalid OTP code. Please enter the complete %d-digit OTP sent to your %s.", digits, medium),
	}
}
