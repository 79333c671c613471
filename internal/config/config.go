// Package config loads the controller's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/light-alert/internal/clock"
	"github.com/sweeney/light-alert/internal/gpio"
	"github.com/sweeney/light-alert/internal/logic"
	"github.com/sweeney/light-alert/internal/sensor"
)

// Config is the full file layout. Every field has a default.
type Config struct {
	GPIO    GPIO    `yaml:"gpio"`
	Buttons Buttons `yaml:"buttons"`
	Light   Light   `yaml:"light"`
	Knob    Knob    `yaml:"knob"`
	Alert   Alert   `yaml:"alert"`
	Timeset Timeset `yaml:"timeset"`
	Loop    Loop    `yaml:"loop"`
	Clock   Clock   `yaml:"clock"`
	Log     Log     `yaml:"log"`
}

// GPIO selects the chip and the line of every peripheral.
type GPIO struct {
	Chip string `yaml:"chip"`
	Pins Pins   `yaml:"pins"`
	LCD  LCD    `yaml:"lcd"`
}

// Pins are the line offsets of the switches, light sensor and outputs.
type Pins struct {
	Mode   int `yaml:"mode"`
	Up     int `yaml:"up"`
	Down   int `yaml:"down"`
	Action int `yaml:"action"`
	Light  int `yaml:"light"`
	Buzzer int `yaml:"buzzer"`
	LED    int `yaml:"led"`
}

// LCD holds the display bus lines; RS < 0 disables the LCD.
type LCD struct {
	RS int `yaml:"rs"`
	E  int `yaml:"e"`
	D4 int `yaml:"d4"`
	D5 int `yaml:"d5"`
	D6 int `yaml:"d6"`
	D7 int `yaml:"d7"`
}

// Buttons tunes switch debouncing and double-press detection.
type Buttons struct {
	Debounce    time.Duration `yaml:"debounce"`
	DoublePress time.Duration `yaml:"double_press"`
}

// Light configures the pulse-width light sensor.
type Light struct {
	SampleInterval time.Duration `yaml:"sample_interval"`
	PulseTimeout   time.Duration `yaml:"pulse_timeout"`
	MaxPulse       time.Duration `yaml:"max_pulse"`
}

// Knob is the threshold potentiometer behind an IIO ADC channel.
type Knob struct {
	Device        string `yaml:"device"`
	CalibratedMax int    `yaml:"calibrated_max"`
}

// Alert holds the two daily window minutes (HHMM) and the alarm timeout.
type Alert struct {
	Timeout    time.Duration `yaml:"timeout"`
	LightOffAt int           `yaml:"light_off_at"`
	LightOnAt  int           `yaml:"light_on_at"`
}

// Timeset configures clock editing.
type Timeset struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Loop sets the control-loop period and the heartbeat interval.
type Loop struct {
	Poll      time.Duration `yaml:"poll"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// Clock selects the wall clock device and its timezone.
type Clock struct {
	RTC      string `yaml:"rtc"`
	Timezone string `yaml:"timezone"`
}

// Log configures the diagnostics logger and its optional rotating file.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default configuration values not owned by another package.
const (
	DefaultChip      = "gpiochip0"
	DefaultPoll      = 50 * time.Millisecond
	DefaultHeartbeat = 15 * time.Minute
	DefaultTimezone  = "Local"
	DefaultLogLevel  = "info"
)

// Default returns the stock configuration.
func Default() Config {
	pins := gpio.DefaultPins()
	sw := gpio.DefaultSwitchConfig()
	sc := sensor.DefaultConfig()
	lc := logic.DefaultConfig()

	return Config{
		GPIO: GPIO{
			Chip: DefaultChip,
			Pins: Pins{
				Mode:   pins.Mode,
				Up:     pins.Up,
				Down:   pins.Down,
				Action: pins.Action,
				Light:  pins.Light,
				Buzzer: pins.Buzzer,
				LED:    pins.LED,
			},
			LCD: LCD(pins.LCD),
		},
		Buttons: Buttons{Debounce: sw.Debounce, DoublePress: sw.DoublePress},
		Light: Light{
			SampleInterval: sc.Interval,
			PulseTimeout:   sc.PulseTimeout,
			MaxPulse:       sc.MaxPulse,
		},
		Knob:  Knob{Device: sensor.DefaultKnobDevice, CalibratedMax: sc.KnobMax},
		Alert: Alert{Timeout: lc.AlertTimeout, LightOffAt: lc.LightOffAt, LightOnAt: lc.LightOnAt},
		Loop:  Loop{Poll: DefaultPoll, Heartbeat: DefaultHeartbeat},
		Clock: Clock{RTC: clock.DefaultRTC, Timezone: DefaultTimezone},
		Log: Log{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML onto cfg, leaving absent keys untouched.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks the values the controller cannot run with.
func (c Config) Validate() error {
	var err error

	if !logic.ValidHourMinute(c.Alert.LightOffAt) {
		err = multierr.Append(err, fmt.Errorf("alert.light_off_at: %04d is not a valid HHMM time", c.Alert.LightOffAt))
	}
	if !logic.ValidHourMinute(c.Alert.LightOnAt) {
		err = multierr.Append(err, fmt.Errorf("alert.light_on_at: %04d is not a valid HHMM time", c.Alert.LightOnAt))
	}
	if c.Loop.Poll <= 0 {
		err = multierr.Append(err, fmt.Errorf("loop.poll: must be positive, got %v", c.Loop.Poll))
	}
	if c.Light.SampleInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("light.sample_interval: must be positive, got %v", c.Light.SampleInterval))
	}
	if c.Light.MaxPulse <= 0 {
		err = multierr.Append(err, fmt.Errorf("light.max_pulse: must be positive, got %v", c.Light.MaxPulse))
	}
	switch {
	case c.Light.PulseTimeout <= 0:
		err = multierr.Append(err, fmt.Errorf("light.pulse_timeout: must be positive, got %v", c.Light.PulseTimeout))
	case c.Light.PulseTimeout < c.Light.MaxPulse:
		err = multierr.Append(err, fmt.Errorf("light.pulse_timeout: %v is shorter than light.max_pulse %v", c.Light.PulseTimeout, c.Light.MaxPulse))
	}
	if c.Knob.CalibratedMax <= 0 {
		err = multierr.Append(err, fmt.Errorf("knob.calibrated_max: must be positive, got %d", c.Knob.CalibratedMax))
	}

	seen := make(map[int]bool)
	for _, pin := range c.GPIOPins().All() {
		if seen[pin] {
			err = multierr.Append(err, fmt.Errorf("gpio: pin %d assigned more than once", pin))
		}
		seen[pin] = true
	}

	if _, lerr := c.Location(); lerr != nil {
		err = multierr.Append(err, lerr)
	}

	return err
}

// Location resolves clock.timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return nil, fmt.Errorf("clock.timezone: %w", err)
	}
	return loc, nil
}

// GPIOPins returns the line offsets in gpio form.
func (c Config) GPIOPins() gpio.Pins {
	p := c.GPIO.Pins
	return gpio.Pins{
		Mode:   p.Mode,
		Up:     p.Up,
		Down:   p.Down,
		Action: p.Action,
		Light:  p.Light,
		Buzzer: p.Buzzer,
		LED:    p.LED,
		LCD:    gpio.LCDPins(c.GPIO.LCD),
	}
}

// SwitchConfig returns the switch timing.
func (c Config) SwitchConfig() gpio.SwitchConfig {
	return gpio.SwitchConfig{Debounce: c.Buttons.Debounce, DoublePress: c.Buttons.DoublePress}
}

// SensorConfig returns the sampler settings.
func (c Config) SensorConfig() sensor.Config {
	return sensor.Config{
		Interval:     c.Light.SampleInterval,
		PulseTimeout: c.Light.PulseTimeout,
		MaxPulse:     c.Light.MaxPulse,
		KnobMax:      c.Knob.CalibratedMax,
	}
}

// LogicConfig returns the controller settings.
func (c Config) LogicConfig() logic.Config {
	return logic.Config{
		AlertTimeout: c.Alert.Timeout,
		LightOffAt:   c.Alert.LightOffAt,
		LightOnAt:    c.Alert.LightOnAt,
		TimesetIdle:  c.Timeset.IdleTimeout,
	}
}
