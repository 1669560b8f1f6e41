package monitor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-monitor/dsp/core"
	"github.com/cwbudde/algo-monitor/dsp/smooth"
)

func newTestEngine(t *testing.T, opts ...core.ProcessorOption) *Engine {
	t.Helper()

	e, err := NewEngine(opts...)
	require.NoError(t, err)

	return e
}

func sineBlock(n int, freq, sampleRate, amplitude float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	return buf
}

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 48000.0, e.SampleRate())
	assert.Equal(t, 512, e.MaxBlockSize())
	assert.Equal(t, smooth.PresetVocalBooth, e.Preset())
	assert.False(t, e.Bypassed())

	// The startup preset is applied without transitions.
	assert.False(t, e.Bank().IsAnyActive())
	assert.InDelta(t, 0.3, e.Bank().Value(smooth.WetDryMix), 1e-12)
}

func TestEngineBypassIsCopyThrough(t *testing.T) {
	e := newTestEngine(t)
	e.SetBypass(true)

	left := sineBlock(256, 440, 48000, 0.8)
	right := sineBlock(256, 330, 48000, 0.8)
	wantLeft := append([]float64(nil), left...)
	wantRight := append([]float64(nil), right...)

	e.ProcessBlock(left, right)

	assert.Equal(t, wantLeft, left)
	assert.Equal(t, wantRight, right)

	// Metering still runs while bypassed.
	assert.Greater(t, e.InputLevels().RMS, 0.0)
	assert.Greater(t, e.OutputLevels().RMS, 0.0)
}

func TestEngineUnityPathIsSoftClipOnly(t *testing.T) {
	// With unity gains and the identity spatial chain, the only
	// nonlinearity left is the output soft clip.
	e := newTestEngine(t)

	left := sineBlock(256, 440, 48000, 0.5)
	right := sineBlock(256, 440, 48000, 0.5)
	input := append([]float64(nil), left...)

	e.ProcessBlock(left, right)

	for i := range left {
		want := core.SoftClip(input[i])
		require.InDelta(t, want, left[i], 1e-12, "sample %d", i)
		require.InDelta(t, want, right[i], 1e-12, "sample %d", i)
	}
}

func TestEngineOutputStaysWithinClipBound(t *testing.T) {
	e := newTestEngine(t)
	e.Bank().SetImmediate(smooth.InputGain, 2)

	left := sineBlock(512, 100, 48000, 1)
	right := sineBlock(512, 100, 48000, 1)

	e.ProcessBlock(left, right)

	for i := range left {
		assert.LessOrEqual(t, math.Abs(left[i]), 2.0/3.0+1e-12)
	}
}

func TestEngineProcessMono(t *testing.T) {
	e := newTestEngine(t)
	e.Bank().SetImmediate(smooth.OutputGain, 0.5)

	buf := sineBlock(256, 440, 48000, 0.5)
	input := append([]float64(nil), buf...)

	e.ProcessMono(buf)

	for i := range buf {
		require.InDelta(t, core.SoftClip(input[i]*0.5), buf[i], 1e-12)
	}
}

func TestEngineZeroLengthBlock(t *testing.T) {
	e := newTestEngine(t)

	e.ProcessBlock(nil, nil)
	e.ProcessMono(nil)
}

func TestEngineApplyControlChange(t *testing.T) {
	e := newTestEngine(t)

	// Below the audibility threshold: immediate, no transition.
	base := e.Bank().Smoother(smooth.WetDryMix).Target()
	e.ApplyControlChange(smooth.WetDryMix, base+0.005, false)
	assert.False(t, e.Bank().Smoother(smooth.WetDryMix).IsActive())
	assert.InDelta(t, base+0.005, e.Bank().Value(smooth.WetDryMix), 1e-12)

	// Audible change: smoothed with the recommended duration.
	e.ApplyControlChange(smooth.ReverbDecay, 0.9, false)
	s := e.Bank().Smoother(smooth.ReverbDecay)
	assert.True(t, s.IsActive())
	assert.InDelta(t, 200.0, s.TimeMs(), 1e-12)

	// User-driven changes run at half the duration.
	e.ApplyControlChange(smooth.ReverbSize, 0.9, true)
	assert.InDelta(t, 150.0, e.Bank().Smoother(smooth.ReverbSize).TimeMs(), 1e-12)

	// Out-of-range roles are ignored.
	e.ApplyControlChange(smooth.Role(99), 1, false)
}

func TestEngineControlChangesDuringRender(t *testing.T) {
	e := newTestEngine(t)

	done := make(chan struct{})
	go func() {
		defer close(done)

		for i := 0; i < 500; i++ {
			// Alternate between jumps the policy smooths and nudges it
			// applies immediately, so both control paths run against a
			// live render loop.
			if i%2 == 0 {
				e.ApplyControlChange(smooth.WetDryMix, 0.2+0.5*float64(i%4)/2, false)
			} else {
				target := e.Bank().Smoother(smooth.WetDryMix).Target()
				e.ApplyControlChange(smooth.WetDryMix, target+0.002, false)
			}

			e.ApplyControlChange(smooth.OutputGain, 0.5+0.001*float64(i%3), true)
		}
	}()

	left := sineBlock(256, 440, 48000, 0.5)
	right := sineBlock(256, 330, 48000, 0.5)

	for rendering := true; rendering; {
		select {
		case <-done:
			rendering = false
		default:
		}

		e.ProcessBlock(left, right)
	}

	for i := range left {
		require.False(t, math.IsNaN(left[i]) || math.IsInf(left[i], 0), "sample %d", i)
		require.False(t, math.IsNaN(right[i]) || math.IsInf(right[i], 0), "sample %d", i)
	}
	assert.GreaterOrEqual(t, e.Bank().Value(smooth.WetDryMix), 0.0)
	assert.LessOrEqual(t, e.Bank().Value(smooth.WetDryMix), 1.0)
}

func TestEngineLoadPreset(t *testing.T) {
	e := newTestEngine(t)

	e.LoadPreset(smooth.PresetCathedral)

	assert.Equal(t, smooth.PresetCathedral, e.Preset())
	assert.True(t, e.Bank().IsAnyActive())
	assert.InDelta(t, 0.6, e.Bank().Smoother(smooth.WetDryMix).Target(), 1e-12)
}

func TestEngineSetSampleRateCarriesSettings(t *testing.T) {
	e := newTestEngine(t)

	e.Enhancer().SetHaasEnabled(true)
	e.Enhancer().Haas().SetDelayTime(20)
	e.Enhancer().CrossFeed().SetCrossFeedAmount(0.4)

	require.NoError(t, e.SetSampleRate(96000))

	assert.Equal(t, 96000.0, e.SampleRate())
	assert.True(t, e.Enhancer().HaasEnabled())
	assert.InDelta(t, 20.0, e.Enhancer().Haas().DelayTime(), 1e-12)
	assert.InDelta(t, 0.4, e.Enhancer().CrossFeed().CrossFeedAmount(), 1e-12)

	require.Error(t, e.SetSampleRate(0))
	require.Error(t, e.SetSampleRate(math.NaN()))
}

func TestEngineReset(t *testing.T) {
	e := newTestEngine(t)

	left := sineBlock(128, 440, 48000, 0.5)
	right := sineBlock(128, 440, 48000, 0.5)
	e.ProcessBlock(left, right)

	e.Reset()

	assert.Zero(t, e.InputLevels().RMS)
	assert.Zero(t, e.OutputLevels().Peak)
}

func BenchmarkEngineProcessBlock(b *testing.B) {
	e, err := NewEngine()
	if err != nil {
		b.Fatal(err)
	}

	e.Enhancer().SetChorusEnabled(true)
	e.Enhancer().SetHaasEnabled(true)

	left := sineBlock(512, 440, 48000, 0.5)
	right := sineBlock(512, 330, 48000, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ProcessBlock(left, right)
	}
}
