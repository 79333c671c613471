package sensor

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/light-alert/internal/logic"
)

// Config holds the sampler's timing and calibration.
type Config struct {
	Interval     time.Duration // minimum time between light measurements
	PulseTimeout time.Duration
	MaxPulse     time.Duration
	KnobMax      int
}

// DefaultConfig returns the stock sampler settings.
func DefaultConfig() Config {
	return Config{
		Interval:     DefaultSampleInterval,
		PulseTimeout: DefaultPulseTimeout,
		MaxPulse:     DefaultMaxPulse,
		KnobMax:      DefaultKnobMax,
	}
}

// Sampler produces the illumination and threshold percentages.
// The light measurement is slow, so its result is cached and refreshed at
// most once per Interval. The knob is read on every call.
type Sampler struct {
	pulse PulseMeter
	knob  Knob
	cfg   Config

	illum     logic.SampledValue
	measured  bool
	threshold logic.SampledValue
}

// NewSampler creates a sampler over the given hardware.
func NewSampler(pulse PulseMeter, knob Knob, cfg Config) *Sampler {
	return &Sampler{pulse: pulse, knob: knob, cfg: cfg}
}

// Illumination returns the light percentage, measuring only if Interval has
// elapsed since the last measurement. A pulse timeout reads as 0%.
// On a hardware error the cached value is returned with the error, and the
// next call measures again.
func (s *Sampler) Illumination(now logic.Ticks) (int, error) {
	if s.measured && logic.Elapsed(s.illum.SampledAt, now) < s.cfg.Interval {
		return s.illum.Value, nil
	}

	width, err := s.pulse.Measure(s.cfg.PulseTimeout)
	switch {
	case errors.Is(err, ErrNoPulse):
		s.store(0, now)
	case err != nil:
		return s.illum.Value, fmt.Errorf("measure light pulse: %w", err)
	default:
		s.store(PulsePercent(width, s.cfg.MaxPulse), now)
	}
	return s.illum.Value, nil
}

func (s *Sampler) store(pct int, now logic.Ticks) {
	s.illum = logic.SampledValue{Value: pct, SampledAt: now}
	s.measured = true
}

// Threshold reads the knob and returns the threshold percentage.
// On error the last good value is returned with the error.
func (s *Sampler) Threshold(now logic.Ticks) (int, error) {
	raw, err := s.knob.Raw()
	if err != nil {
		return s.threshold.Value, fmt.Errorf("read knob: %w", err)
	}
	s.threshold = logic.SampledValue{Value: KnobPercent(raw, s.cfg.KnobMax), SampledAt: now}
	return s.threshold.Value, nil
}
