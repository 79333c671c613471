package logic

// Press is the decoded event of one switch for one control-loop iteration.
type Press int

const (
	PressNone Press = iota
	PressSingle
	PressDouble
)

func (p Press) String() string {
	switch p {
	case PressSingle:
		return "single"
	case PressDouble:
		return "double"
	default:
		return "none"
	}
}

// Clicker reports single presses of a momentary switch.
// Debounce and edge detection happen behind this interface.
type Clicker interface {
	// Poll returns at most one press per call.
	Poll() (Press, error)
}

// Input holds the decoded events of all four switches for one iteration.
type Input struct {
	Mode   Press // the only switch that can report PressDouble
	Up     Press
	Down   Press
	Action Press
}

// Any reports whether any switch produced an event.
func (in Input) Any() bool {
	return in.Mode != PressNone || in.Up != PressNone || in.Down != PressNone || in.Action != PressNone
}

// Decoder polls the four switches once per iteration.
type Decoder struct {
	mode, up, down, action Clicker
}

// NewDecoder creates a decoder over the mode, increment, decrement and action switches.
func NewDecoder(mode, up, down, action Clicker) *Decoder {
	return &Decoder{mode: mode, up: up, down: down, action: action}
}

// Decode polls every switch once. Only the mode switch has double-press
// capability; a double press reported by any other switch counts as single.
// On error the returned Input holds the events decoded before the failure.
func (d *Decoder) Decode() (Input, error) {
	var in Input
	var err error

	if in.Mode, err = d.mode.Poll(); err != nil {
		return Input{}, err
	}
	if in.Up, err = pollSingle(d.up); err != nil {
		return in, err
	}
	if in.Down, err = pollSingle(d.down); err != nil {
		return in, err
	}
	if in.Action, err = pollSingle(d.action); err != nil {
		return in, err
	}
	return in, nil
}

func pollSingle(c Clicker) (Press, error) {
	p, err := c.Poll()
	if err != nil {
		return PressNone, err
	}
	if p == PressDouble {
		return PressSingle, nil
	}
	return p, nil
}
