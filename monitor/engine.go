package monitor

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
	"github.com/tphakala/simd/cpu"

	"github.com/cwbudde/algo-monitor/dsp/core"
	"github.com/cwbudde/algo-monitor/dsp/effects/spatial"
	"github.com/cwbudde/algo-monitor/dsp/smooth"
)

// Engine is the top-level live monitoring processor. The render
// callback drives ProcessBlock (stereo) or ProcessMono; everything
// else is control-thread configuration.
//
// The stereo signal path is input gain, spatial enhancer chain, output
// gain, soft clip. Gains come from the smoother bank and change at
// block rate.
type Engine struct {
	log *logrus.Entry

	sampleRate   float64
	maxBlockSize int

	bypass atomic.Bool

	bank     *smooth.Bank
	enhancer *spatial.StereoEnhancer

	inputMeter  Meter
	outputMeter Meter

	currentPreset smooth.Preset
}

// NewEngine creates a monitoring engine. The vocal booth preset is
// applied as the starting point, without transitions.
func NewEngine(opts ...core.ProcessorOption) (*Engine, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	bank, err := smooth.NewBank(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("monitor engine: %w", err)
	}

	enhancer, err := spatial.NewStereoEnhancer(
		core.WithSampleRate(cfg.SampleRate),
		core.WithMaxBlockSize(cfg.MaxBlockSize),
	)
	if err != nil {
		return nil, fmt.Errorf("monitor engine: %w", err)
	}

	e := &Engine{
		log: logrus.WithFields(logrus.Fields{
			"component": "monitor-engine",
		}),
		sampleRate:    cfg.SampleRate,
		maxBlockSize:  cfg.MaxBlockSize,
		bank:          bank,
		enhancer:      enhancer,
		currentPreset: smooth.PresetVocalBooth,
	}

	e.bank.LoadPresetImmediate(smooth.PresetVocalBooth)

	e.log.WithFields(logrus.Fields{
		"sample_rate":    cfg.SampleRate,
		"max_block_size": cfg.MaxBlockSize,
		"simd":           cpu.Info(),
	}).Info("engine initialized")

	return e, nil
}

// ProcessBlock renders one stereo block in place. A bypassed engine
// leaves the signal untouched; metering always runs.
func (e *Engine) ProcessBlock(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	if n == 0 {
		return
	}

	left = left[:n]
	right = right[:n]

	e.inputMeter.MeasureStereo(left, right)

	if e.bypass.Load() {
		e.outputMeter.MeasureStereo(left, right)
		return
	}

	e.bank.UpdateAll()

	vecmath.ScaleBlockInPlace(left, e.bank.Value(smooth.InputGain))
	vecmath.ScaleBlockInPlace(right, e.bank.Value(smooth.InputGain))

	e.enhancer.ProcessBlock(left, right)

	outputGain := e.bank.Value(smooth.OutputGain)
	vecmath.ScaleBlockInPlace(left, outputGain)
	vecmath.ScaleBlockInPlace(right, outputGain)

	for i := range left {
		left[i] = core.SoftClip(left[i])
		right[i] = core.SoftClip(right[i])
	}

	e.outputMeter.MeasureStereo(left, right)
}

// ProcessMono renders one mono block in place. The spatial chain is
// stereo only, so the mono path is gain staging and clip protection.
func (e *Engine) ProcessMono(buf []float64) {
	if len(buf) == 0 {
		return
	}

	e.inputMeter.MeasureMono(buf)

	if e.bypass.Load() {
		e.outputMeter.MeasureMono(buf)
		return
	}

	e.bank.UpdateAll()

	vecmath.ScaleBlockInPlace(buf, e.bank.Value(smooth.InputGain))
	vecmath.ScaleBlockInPlace(buf, e.bank.Value(smooth.OutputGain))

	for i := range buf {
		buf[i] = core.SoftClip(buf[i])
	}

	e.outputMeter.MeasureMono(buf)
}

// ApplyControlChange routes a control update through the smoothing
// policy: deltas below the audibility threshold apply immediately,
// audible ones are smoothed with the recommended per-role duration.
func (e *Engine) ApplyControlChange(role smooth.Role, value float64, userDriven bool) {
	s := e.bank.Smoother(role)
	if s == nil {
		return
	}

	if !smooth.IsChangeAudible(s.Target(), value, role) {
		e.bank.SetImmediate(role, value)
		return
	}

	if err := s.SetSmoothingTime(smooth.RecommendedTimeMs(role, userDriven)); err != nil {
		return
	}

	e.bank.SetParameter(role, value)
}

// LoadPreset retargets the bank toward the preset's values. Each
// parameter transitions with its own time constant.
func (e *Engine) LoadPreset(preset smooth.Preset) {
	e.bank.LoadPreset(preset)
	e.currentPreset = preset

	e.log.WithField("preset", preset.String()).Info("preset loaded")
}

// Preset returns the most recently loaded preset.
func (e *Engine) Preset() smooth.Preset { return e.currentPreset }

// SetBypass toggles copy-through bypass.
func (e *Engine) SetBypass(bypass bool) { e.bypass.Store(bypass) }

// Bypassed reports whether the engine is bypassed.
func (e *Engine) Bypassed() bool { return e.bypass.Load() }

// Bank exposes the parameter smoother bank.
func (e *Engine) Bank() *smooth.Bank { return e.bank }

// Enhancer exposes the spatial chain for configuration.
func (e *Engine) Enhancer() *spatial.StereoEnhancer { return e.enhancer }

// InputLevels returns the most recent input block measurement.
func (e *Engine) InputLevels() Levels { return e.inputMeter.Levels() }

// OutputLevels returns the most recent output block measurement.
func (e *Engine) OutputLevels() Levels { return e.outputMeter.Levels() }

// SampleRate returns the configured sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlockSize returns the configured maximum block length.
func (e *Engine) MaxBlockSize() int { return e.maxBlockSize }

// SetSampleRate reconfigures the engine for a new sample rate. The
// bank keeps its current values; the spatial chain is rebuilt with its
// settings carried over. Not safe while the render thread is running.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("monitor engine sample rate must be > 0 and finite: %f", sampleRate)
	}

	if err := e.bank.SetSampleRate(sampleRate); err != nil {
		return err
	}

	enhancer, err := spatial.NewStereoEnhancer(
		core.WithSampleRate(sampleRate),
		core.WithMaxBlockSize(e.maxBlockSize),
	)
	if err != nil {
		return err
	}

	copyEnhancerSettings(enhancer, e.enhancer)
	e.enhancer = enhancer
	e.sampleRate = sampleRate

	e.log.WithField("sample_rate", sampleRate).Info("sample rate changed")

	return nil
}

func copyEnhancerSettings(dst, src *spatial.StereoEnhancer) {
	dst.SetEnabled(src.Enabled())
	dst.SetChorusEnabled(src.ChorusEnabled())
	dst.SetHaasEnabled(src.HaasEnabled())
	dst.SetMidSideEnabled(src.MidSideEnabled())

	dst.CrossFeed().SetCrossFeedAmount(src.CrossFeed().CrossFeedAmount())
	dst.CrossFeed().SetStereoWidth(src.CrossFeed().StereoWidth())
	dst.CrossFeed().SetHighFreqRolloff(src.CrossFeed().HighFreqRolloff())
	dst.CrossFeed().SetInterChannelDelay(src.CrossFeed().InterChannelDelay())
	dst.CrossFeed().SetEnabled(src.CrossFeed().Enabled())

	dst.Chorus().SetRate(src.Chorus().Rate())
	dst.Chorus().SetDepth(src.Chorus().Depth())
	dst.Chorus().SetFeedback(src.Chorus().Feedback())
	dst.Chorus().SetWetDryMix(src.Chorus().WetDryMix())
	dst.Chorus().SetStereoOffset(src.Chorus().StereoOffset())

	dst.Haas().SetDelayTime(src.Haas().DelayTime())
	dst.Haas().SetDelayRight(src.Haas().DelayRight())
	dst.Haas().SetDelayedChannelLevel(src.Haas().DelayedChannelLevel())
	dst.Haas().SetWetDryMix(src.Haas().WetDryMix())

	dst.MidSide().SetMidGain(src.MidSide().MidGain())
	dst.MidSide().SetSideGain(src.MidSide().SideGain())
	dst.MidSide().SetMidSideBalance(src.MidSide().MidSideBalance())
}

// Reset clears all signal state and meters. Not safe while the render
// thread is running.
func (e *Engine) Reset() {
	e.enhancer.Reset()
	e.inputMeter.Reset()
	e.outputMeter.Reset()
}
