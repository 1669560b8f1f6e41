// Package smooth converts instantaneous control-value changes into
// artifact-free per-sample trajectories for real-time audio processing.
//
// A Smoother pairs a render-thread-owned current value with an atomic
// target cell written from a control thread. Four smoothing algorithms
// are available; all snap exactly to the target once the residual falls
// below a fixed epsilon, so a settled smoother costs a single load per
// sample.
//
// Bank aggregates a fixed, role-indexed set of pre-tuned smoothers for
// the monitor parameter set, and Policy provides recommended smoothing
// times and audibility thresholds per role.
//
// The render path (Advance, ProcessBlock, Bank.UpdateAll) never
// allocates, locks, or blocks.
package smooth
