package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sweeney/light-alert/internal/logic"
	"github.com/sweeney/light-alert/internal/sensor"
)

// Tuesday, just under half a second before the light-off window.
var tuesday = time.Date(2026, 3, 3, 12, 0, 59, 600*int(time.Millisecond), time.UTC)

const (
	knob60    = 270                    // 60% threshold
	bright90  = 400 * time.Microsecond // 90% light
	dim30     = 2800 * time.Microsecond
	dark      = time.Duration(-1) // pulse timeout
	sampleGap = sensor.DefaultSampleInterval + time.Millisecond
)

type harness struct {
	*Fakes
	app  *App
	logs *observer.ObservedLogs
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	f := NewFakes(tuesday)
	f.Knob.Value = knob60
	core, logs := observer.New(zapcore.DebugLevel)
	a, err := New(f.Hardware(), cfg, zap.New(core))
	require.NoError(t, err)
	return &harness{Fakes: f, app: a, logs: logs}
}

func defaultConfig() Config {
	return Config{
		Logic:     logic.DefaultConfig(),
		Sensor:    sensor.DefaultConfig(),
		Heartbeat: 15 * time.Minute,
	}
}

func (h *harness) events(name string) []observer.LoggedEntry {
	return h.logs.FilterField(zap.String("event", name)).All()
}

// step advances past the sample interval and runs one iteration.
func (h *harness) step(t *testing.T) {
	t.Helper()
	h.Advance(sampleGap)
	require.NoError(t, h.app.Iterate())
}

func TestNewSilencesAlarm(t *testing.T) {
	h := newHarness(t, defaultConfig())
	assert.Equal(t, []bool{false}, h.Alarm.Levels)
	assert.Equal(t, logic.ModeNormal, h.app.Snapshot().Mode)
	assert.True(t, h.app.Snapshot().StartTime.Equal(tuesday))
	assert.Equal(t, logic.NewScreen("", ""), h.app.Snapshot().Screen)
	assert.Zero(t, h.app.Snapshot().Uptime())
}

func TestNewClockError(t *testing.T) {
	f := NewFakes(tuesday)
	f.Clock.NowError = errors.New("rtc gone")
	_, err := New(f.Hardware(), defaultConfig(), zap.NewNop())
	assert.ErrorContains(t, err, "rtc gone")
}

func TestIterateRendersStatus(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Light.SetWidth(dim30)

	require.NoError(t, h.app.Iterate())

	assert.Equal(t, logic.NewScreen("Tue12:00", "N   30%"), h.Display.Last())
	snap := h.app.Snapshot()
	assert.Equal(t, 30, snap.Illumination)
	assert.Equal(t, 60, snap.Threshold)
	assert.False(t, snap.Alerting)
	assert.Equal(t, []bool{false, false}, h.Alarm.Levels)
}

func TestAlertRaisedAndClearedManually(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Light.SetWidth(bright90)

	h.step(t) // 12:01:00, lit at the light-off window

	assert.True(t, h.Alarm.On)
	assert.True(t, h.app.Snapshot().Alerting)
	require.Len(t, h.events("ALERT_RAISED"), 1)

	h.Action.Push(logic.PressSingle)
	h.step(t)

	assert.False(t, h.Alarm.On)
	cleared := h.events("ALERT_CLEARED")
	require.Len(t, cleared, 1)
	assert.Equal(t, "MANUAL", cleared[0].ContextMap()["reason"])

	// Still inside the window minute: no re-raise.
	h.step(t)
	assert.False(t, h.Alarm.On)
	assert.Len(t, h.events("ALERT_RAISED"), 1)
	assert.Equal(t, 1, h.app.Snapshot().Counts.ClearedManual)
}

func TestAlertClearedByTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logic.AlertTimeout = 10 * time.Second
	h := newHarness(t, cfg)
	h.Light.SetWidth(bright90)

	h.step(t)
	require.True(t, h.Alarm.On)

	h.Advance(11 * time.Second)
	require.NoError(t, h.app.Iterate())

	assert.False(t, h.Alarm.On)
	cleared := h.events("ALERT_CLEARED")
	require.Len(t, cleared, 1)
	assert.Equal(t, "TIMEOUT", cleared[0].ContextMap()["reason"])
}

func TestDarkRoomAtLightOffWindowIsQuiet(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Light.SetWidth(dark)

	h.step(t)

	assert.False(t, h.Alarm.On)
	assert.Empty(t, h.events("ALERT_RAISED"))
	assert.Equal(t, 0, h.app.Snapshot().Illumination)
}

func TestTimesetCommitSetsClock(t *testing.T) {
	h := newHarness(t, defaultConfig())

	h.Mode.Push(logic.PressDouble)
	h.step(t)
	assert.Equal(t, logic.ModeTimeset, h.app.Snapshot().Mode)
	assert.Equal(t, logic.NewScreen("Year", "2026"), h.Display.Last())

	h.Up.Push(logic.PressSingle)
	h.step(t)
	assert.Equal(t, logic.NewScreen("Year", "2027"), h.Display.Last())

	h.Mode.Push(logic.PressDouble)
	h.step(t)

	require.Len(t, h.Clock.Sets, 1)
	assert.Equal(t, 2027, h.Clock.Sets[0].Year())
	assert.Equal(t, logic.ModeNormal, h.app.Snapshot().Mode)
	assert.Len(t, h.events("CLOCK_SET"), 1)
	snap := h.app.Snapshot()
	assert.Equal(t, 1, snap.Counts.ClockSets)
	assert.Equal(t, 2027, snap.Now.Year())
	assert.Equal(t, 3*sampleGap, snap.Uptime(), "uptime carries over the clock set")
}

func TestTimesetClockSetFailure(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Clock.SetError = errors.New("rtc write")

	h.Mode.Push(logic.PressDouble)
	h.step(t)
	h.Mode.Push(logic.PressDouble)
	h.Advance(sampleGap)
	err := h.app.Iterate()

	assert.ErrorContains(t, err, "set clock")
	assert.Empty(t, h.events("CLOCK_SET"))
	snap := h.app.Snapshot()
	assert.Equal(t, 0, snap.Counts.ClockSets)
	assert.Equal(t, logic.ModeNormal, snap.Mode)
	assert.Equal(t, 2*sampleGap, snap.Uptime())
}

func TestModeCycleLogged(t *testing.T) {
	h := newHarness(t, defaultConfig())

	h.Mode.Push(logic.PressSingle)
	h.step(t)
	assert.Equal(t, logic.ModeCalibration, h.app.Snapshot().Mode)
	assert.Equal(t, logic.NewScreen("Thr 60%", "Lux 0%"), h.Display.Last())

	changes := h.events("MODE_CHANGED")
	require.Len(t, changes, 1)
	assert.Equal(t, "NORMAL", changes[0].ContextMap()["from"])
	assert.Equal(t, "CALIBRATION", changes[0].ContextMap()["mode"])
}

func TestIterateClockErrorSkips(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Clock.NowError = errors.New("rtc read failed")

	err := h.app.Iterate()
	assert.ErrorContains(t, err, "read clock")
	assert.Empty(t, h.Display.Screens)
	assert.Len(t, h.Alarm.Levels, 1, "only the initial silence")
}

func TestIterateContinuesOnSensorErrors(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Knob.Err = errors.New("adc busy")
	h.Light.Err = errors.New("line busy")

	err := h.app.Iterate()
	assert.ErrorContains(t, err, "read knob")
	assert.ErrorContains(t, err, "measure light pulse")
	assert.Len(t, h.Display.Screens, 1, "iteration still renders")
	assert.Len(t, h.Alarm.Levels, 2, "iteration still drives the alarm")
}

func TestIterateReportsOutputErrors(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Alarm.SetError = errors.New("buzzer line")
	h.Display.RenderError = errors.New("lcd line")
	h.Mode.PollError = errors.New("mode line")

	err := h.app.Iterate()
	assert.ErrorContains(t, err, "read switches")
	assert.ErrorContains(t, err, "drive alarm")
	assert.ErrorContains(t, err, "render")
}

func TestHeartbeat(t *testing.T) {
	h := newHarness(t, defaultConfig())

	h.step(t)
	assert.Empty(t, h.events("HEARTBEAT"))

	h.Advance(15 * time.Minute)
	require.NoError(t, h.app.Iterate())

	hb := h.events("HEARTBEAT")
	require.Len(t, hb, 1)
	assert.Equal(t, "NORMAL", hb[0].ContextMap()["mode"])
	assert.Equal(t, int64(60), hb[0].ContextMap()["threshold"])
}

func TestShutdownAbortsTimeset(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Mode.Push(logic.PressSingle) // Calibration
	h.step(t)
	h.Mode.Push(logic.PressDouble)
	h.step(t)
	require.Equal(t, logic.ModeTimeset, h.app.Snapshot().Mode)

	require.NoError(t, h.app.Shutdown())

	assert.Empty(t, h.Clock.Sets)
	assert.Len(t, h.events("TIMESET_ABANDONED"), 1)
	assert.Equal(t, logic.ModeCalibration, h.app.Snapshot().Mode)
	assert.False(t, h.Alarm.On)
	assert.Equal(t, false, h.Alarm.Levels[len(h.Alarm.Levels)-1])
}

func TestShutdownSilencesActiveAlarm(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.Light.SetWidth(bright90)
	h.step(t)
	require.True(t, h.Alarm.On)

	require.NoError(t, h.app.Shutdown())
	assert.False(t, h.Alarm.On)
	assert.Empty(t, h.events("TIMESET_ABANDONED"))
}

func TestClose(t *testing.T) {
	h := newHarness(t, defaultConfig())
	require.NoError(t, h.app.Close())
	assert.True(t, h.Display.Closed)
	assert.True(t, h.Alarm.Closed)
	assert.True(t, h.Clock.Closed)
}
