package sensor

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultKnobDevice is the raw channel file of the first IIO ADC.
const DefaultKnobDevice = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"

// IIOKnob reads the knob through a Linux Industrial I/O ADC channel.
type IIOKnob struct {
	path string
}

// NewIIOKnob creates a knob reader for the given in_voltageN_raw file.
func NewIIOKnob(path string) (*IIOKnob, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open adc channel: %w", err)
	}
	return &IIOKnob{path: path}, nil
}

// Raw returns the current ADC count.
func (k *IIOKnob) Raw() (int, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", k.path, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k.path, err)
	}
	return v, nil
}
