package otp

// State of a session's code.
//
//	NoRecord -> Pending -> Verified | Expired | Mismatched
//
// Every terminal state deletes the record, so a session observed later is
// back in NoRecord. Issuing again from any state yields a fresh Pending record.
type State string

const (
	StateNoRecord   State = "no_record"
	StatePending    State = "pending"
	StateVerified   State = "verified"
	StateExpired    State = "expired"
	StateMismatched State = "mismatched"
)
