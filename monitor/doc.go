// Package monitor assembles the real-time voice monitoring engine:
// gain staging driven by the parameter smoother bank, the stereo
// spatial enhancer chain, soft-clip output protection and lock-free
// level metering.
//
// The engine follows the same split as the leaf DSP packages: the
// control thread configures, the render thread calls ProcessBlock and
// owns all signal state. Logging happens only at lifecycle events,
// never per block.
package monitor
