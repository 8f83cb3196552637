// Package session implements the state machine behind every neckscan view.
//
// A Machine moves through four states:
//
//	Idle --SubmitImage--> Loading --success--> Result
//	                         |     --failure--> Error
//	                         +------Reset-----> Idle
//	Result/Error --Reset--> Idle
//	Result/Error --SubmitImage--> Loading
//
// SubmitImage and Reset are the only mutating calls. Views read through
// Snapshot or Subscribe and never touch the machine's fields.
//
// # Concurrency
//
// One analysis may be in flight per machine; SubmitImage returns ErrBusy
// otherwise. Every submission gets a monotonically increasing request id, and
// an outcome is applied only if its id is current and the machine is still
// Loading. Reset during Loading cancels the call's context.
//
// While Loading, a ticker rotates through the loading messages. It is stopped
// on every exit from Loading, and each tick re-checks the request id under the
// lock, so no rotation is published after the state has changed.
//
// Analyzer failures never escape: they become the Error state with
// analysis.UserMessage(err). A panic in the analyzer is recovered and shown as
// analysis.GenericMessage.
package session
