// Package submission hands a validated contact record off to an external
// messaging channel.
//
// The hand-off is local: the record is formatted into a text block, encoded
// into a deep-link URL, and passed to an Opener. Nothing waits for, or can
// observe, delivery. Handler drives the per-form state machine
//
//	Idle -> Submitting -> Success -> (after ResetDelay) Idle
//	Submitting -> Idle (when the Opener fails)
//
// and owns the revert timer, which Close cancels.
package submission
