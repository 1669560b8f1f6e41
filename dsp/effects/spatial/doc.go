// Package spatial provides stereo image processors for a live voice
// monitoring chain: cross-feed, mid/side balance, modulated chorus and
// Haas widening, plus the StereoEnhancer that runs them in a fixed
// order.
//
// All processors follow the same threading contract. A control thread
// owns the setters, which clamp out-of-range values and publish them
// through lock-free atomics. The render thread owns ProcessBlock and
// every piece of delay, filter and oscillator state. Reset is only
// safe while the render thread is stopped.
package spatial
