package as5048a

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/moffa90/go-as5048a/protocol"
)

// MockTransport replays canned responses, one per Tx call, and records what
// was written.
type MockTransport struct {
	responses [][]byte
	errs      map[int]error
	writes    [][]byte
	events    *[]string
}

func NewMockTransport(responses ...[]byte) *MockTransport {
	return &MockTransport{
		responses: responses,
		errs:      make(map[int]error),
	}
}

func (m *MockTransport) Tx(w, r []byte) error {
	call := len(m.writes)
	m.writes = append(m.writes, append([]byte(nil), w...))
	if m.events != nil {
		*m.events = append(*m.events, "tx")
	}

	if err, ok := m.errs[call]; ok {
		return err
	}
	if call < len(m.responses) {
		copy(r, m.responses[call])
	}
	return nil
}

// FailOn makes the call with the given zero-based index fail with err.
func (m *MockTransport) FailOn(call int, err error) {
	m.errs[call] = err
}

// MockChipSelect records line transitions into a shared event log.
type MockChipSelect struct {
	events  *[]string
	lowErr  error
	highErr error

	// lowOK is the number of Low calls that succeed before lowErr applies
	lowOK    int
	lowCalls int
}

func (c *MockChipSelect) Low() error {
	*c.events = append(*c.events, "low")
	c.lowCalls++
	if c.lowCalls <= c.lowOK {
		return nil
	}
	return c.lowErr
}

func (c *MockChipSelect) High() error {
	*c.events = append(*c.events, "high")
	return c.highErr
}

// Mock logger for testing
type MockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.debugMsgs = append(l.debugMsgs, msg)
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.infoMsgs = append(l.infoMsgs, msg)
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.errorMsgs = append(l.errorMsgs, msg)
}

func TestNew(t *testing.T) {
	transport := NewMockTransport()
	events := []string{}

	tests := []struct {
		name    string
		options []Option
	}{
		{
			name:    "with no options",
			options: nil,
		},
		{
			name: "with all options",
			options: []Option{
				WithChipSelect(&MockChipSelect{events: &events}),
				WithLogger(&MockLogger{}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := New(transport, tt.options...)
			if dev == nil {
				t.Fatal("New() returned nil")
			}
			if dev.t != transport {
				t.Error("transport not set correctly")
			}
		})
	}

	if len(transport.writes) != 0 {
		t.Errorf("New() performed %d transfers, want 0", len(transport.writes))
	}
	if len(events) != 0 {
		t.Errorf("New() toggled chip select: %v", events)
	}
}

func TestNewNilTransportPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(nil) did not panic")
		}
	}()
	New(nil)
}

func TestMagnitude(t *testing.T) {
	transport := NewMockTransport(
		[]byte{0xAB, 0xCD}, // answer to some earlier command
		[]byte{0x12, 0x34},
	)

	dev := New(transport)
	mag, err := dev.Magnitude()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mag != 0x1234 {
		t.Errorf("Magnitude() = 0x%04X, want 0x1234", mag)
	}

	wantWrites := [][]byte{{0x7F, 0xFE}, {0x00, 0x00}}
	if diff := cmp.Diff(wantWrites, transport.writes); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name     string
		response []byte
		expected uint16
	}{
		{
			name:     "plain value",
			response: []byte{0x2A, 0xBC},
			expected: 0x2ABC,
		},
		{
			name:     "parity and error flag discarded",
			response: []byte{0xFF, 0xFF},
			expected: 0x3FFF,
		},
		{
			name:     "error flag only",
			response: []byte{0x40, 0x00},
			expected: 0x0000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := NewMockTransport([]byte{0x00, 0x00}, tt.response)

			dev := New(transport)
			angle, err := dev.Angle()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if angle != tt.expected {
				t.Errorf("Angle() = 0x%04X, want 0x%04X", angle, tt.expected)
			}

			wantWrites := [][]byte{{0xFF, 0xFF}, {0x00, 0x00}}
			if diff := cmp.Diff(wantWrites, transport.writes); diff != "" {
				t.Errorf("writes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAngleDegrees(t *testing.T) {
	transport := NewMockTransport([]byte{0x00, 0x00}, []byte{0x20, 0x00})

	dev := New(transport)
	deg, err := dev.AngleDegrees()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(deg-180) > 1e-9 {
		t.Errorf("AngleDegrees() = %f, want 180", deg)
	}
}

func TestDiagGain(t *testing.T) {
	transport := NewMockTransport([]byte{0x00, 0x00}, []byte{0xF3, 0x55})

	dev := New(transport)
	diag, gain, err := dev.DiagGain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diag != 0x03 {
		t.Errorf("diag = 0x%02X, want 0x03", uint8(diag))
	}
	if gain != 0x55 {
		t.Errorf("gain = 0x%02X, want 0x55", gain)
	}

	wantWrites := [][]byte{{0x7F, 0xFD}, {0x00, 0x00}}
	if diff := cmp.Diff(wantWrites, transport.writes); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestReadUsesSecondTransfer(t *testing.T) {
	transport := NewMockTransport(
		[]byte{0x11, 0x11},
		[]byte{0x22, 0x22},
		[]byte{0x33, 0x33},
	)

	dev := New(transport)
	v, err := dev.ReadRegister(protocol.RegAngle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transport.writes) != 2 {
		t.Fatalf("performed %d transfers, want 2", len(transport.writes))
	}
	if v != 0x2222 {
		t.Errorf("ReadRegister() = 0x%04X, want 0x2222 from the NOP transfer", v)
	}
}

func TestTransportFailure(t *testing.T) {
	busErr := errors.New("spi: device unplugged")

	tests := []struct {
		name      string
		failCall  int
		wantPhase Phase
		wantCalls int
	}{
		{
			name:      "command transfer fails",
			failCall:  0,
			wantPhase: PhaseCommand,
			wantCalls: 1,
		},
		{
			name:      "nop transfer fails",
			failCall:  1,
			wantPhase: PhaseNop,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := NewMockTransport([]byte{0x12, 0x34}, []byte{0x12, 0x34})
			transport.FailOn(tt.failCall, busErr)
			logger := &MockLogger{}

			dev := New(transport, WithLogger(logger))
			mag, err := dev.Magnitude()

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if mag != 0 {
				t.Errorf("Magnitude() = 0x%04X on failure, want 0", mag)
			}
			if !errors.Is(err, busErr) {
				t.Errorf("error = %v, want it to wrap %v", err, busErr)
			}

			var be *BusError
			if !errors.As(err, &be) {
				t.Fatalf("error = %T, want *BusError", err)
			}
			if be.Kind != KindTransport {
				t.Errorf("Kind = %s, want transport", be.Kind)
			}
			if be.Phase != tt.wantPhase {
				t.Errorf("Phase = %s, want %s", be.Phase, tt.wantPhase)
			}
			if be.Register != protocol.RegMagnitude {
				t.Errorf("Register = %s, want MAGNITUDE", be.Register)
			}

			if len(transport.writes) != tt.wantCalls {
				t.Errorf("performed %d transfers, want %d", len(transport.writes), tt.wantCalls)
			}
			if len(logger.errorMsgs) != 0 {
				t.Errorf("logged %d errors, want none from the driver", len(logger.errorMsgs))
			}
			if diff := cmp.Diff([]string{"read failed"}, logger.debugMsgs); diff != "" {
				t.Errorf("debug messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiagGainTransportFailure(t *testing.T) {
	transport := NewMockTransport()
	transport.FailOn(1, errors.New("timeout"))

	dev := New(transport)
	diag, gain, err := dev.DiagGain()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if diag != 0 || gain != 0 {
		t.Errorf("DiagGain() = (0x%X, 0x%X) on failure, want zero values", uint8(diag), gain)
	}
	if !IsBusError(err) {
		t.Errorf("error = %v, want BusError", err)
	}
}

func TestChipSelectBracketsEachTransfer(t *testing.T) {
	events := []string{}
	transport := NewMockTransport([]byte{0x00, 0x00}, []byte{0x01, 0x00})
	transport.events = &events

	dev := New(transport, WithChipSelect(&MockChipSelect{events: &events}))
	if _, err := dev.Angle(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"low", "tx", "high", "low", "tx", "high"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("bus events mismatch (-want +got):\n%s", diff)
	}
}

func TestChipSelectFailure(t *testing.T) {
	csErr := errors.New("gpio: write failed")

	tests := []struct {
		name       string
		lowErr     error
		lowOK      int
		highErr    error
		wantPhase  Phase
		wantEvents []string
	}{
		{
			name:       "assert fails",
			lowErr:     csErr,
			wantPhase:  PhaseCommand,
			wantEvents: []string{"low"},
		},
		{
			name:       "release fails",
			highErr:    csErr,
			wantPhase:  PhaseCommand,
			wantEvents: []string{"low", "tx", "high"},
		},
		{
			name:       "assert fails on nop transfer",
			lowErr:     csErr,
			lowOK:      1,
			wantPhase:  PhaseNop,
			wantEvents: []string{"low", "tx", "high", "low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []string{}
			transport := NewMockTransport()
			transport.events = &events
			cs := &MockChipSelect{events: &events, lowErr: tt.lowErr, lowOK: tt.lowOK, highErr: tt.highErr}

			dev := New(transport, WithChipSelect(cs))
			angle, err := dev.Angle()

			if angle != 0 {
				t.Errorf("Angle() = 0x%04X on failure, want 0", angle)
			}
			var be *BusError
			if !errors.As(err, &be) {
				t.Fatalf("error = %v, want *BusError", err)
			}
			if be.Kind != KindChipSelect {
				t.Errorf("Kind = %s, want chip select", be.Kind)
			}
			if be.Phase != tt.wantPhase {
				t.Errorf("Phase = %s, want %s", be.Phase, tt.wantPhase)
			}
			if !errors.Is(err, csErr) {
				t.Errorf("error = %v, want it to wrap %v", err, csErr)
			}
			if diff := cmp.Diff(tt.wantEvents, events); diff != "" {
				t.Errorf("bus events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChipSelectReleasedOnTransportFailure(t *testing.T) {
	events := []string{}
	txErr := errors.New("spi: transfer failed")
	transport := NewMockTransport()
	transport.events = &events
	transport.FailOn(0, txErr)
	cs := &MockChipSelect{events: &events, highErr: errors.New("gpio: write failed")}

	dev := New(transport, WithChipSelect(cs))
	_, err := dev.Magnitude()

	var be *BusError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BusError", err)
	}
	if be.Kind != KindTransport || !errors.Is(err, txErr) {
		t.Errorf("error = %v, want the transport failure", err)
	}

	want := []string{"low", "tx", "high"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("bus events mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorFlags(t *testing.T) {
	transport := NewMockTransport([]byte{0x00, 0x00}, []byte{0x40, 0x02})

	dev := New(transport)
	flags, err := dev.ErrorFlags()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !flags.InvalidCommand() || flags.Framing() || flags.Parity() {
		t.Errorf("ErrorFlags() = %s, want INVALID_COMMAND", flags)
	}

	wantWrites := [][]byte{{0x40, 0x01}, {0x00, 0x00}}
	if diff := cmp.Diff(wantWrites, transport.writes); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorFlagsLogsWhenSet(t *testing.T) {
	tests := []struct {
		name     string
		resp     []byte
		wantInfo []string
	}{
		{
			name:     "flags set",
			resp:     []byte{0x40, 0x04},
			wantInfo: []string{"sensor error flags cleared"},
		},
		{
			name: "no flags",
			resp: []byte{0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := NewMockTransport([]byte{0x00, 0x00}, tt.resp)
			logger := &MockLogger{}

			dev := New(transport, WithLogger(logger))
			if _, err := dev.ErrorFlags(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantInfo, logger.infoMsgs); diff != "" {
				t.Errorf("info messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSample(t *testing.T) {
	transport := NewMockTransport(
		[]byte{0x00, 0x00}, []byte{0x01, 0x80}, // diag/agc
		[]byte{0x00, 0x00}, []byte{0x0F, 0xA0}, // magnitude
		[]byte{0x00, 0x00}, []byte{0x90, 0x00}, // angle, error flag set
	)
	logger := &MockLogger{}

	dev := New(transport, WithLogger(logger))
	s, err := dev.Sample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Sample{
		Diagnostics: protocol.DiagOCF,
		Gain:        0x80,
		Magnitude:   0x0FA0,
		Angle:       0x1000,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Sample() mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(s.Degrees()-90) > 1e-9 {
		t.Errorf("Degrees() = %f, want 90", s.Degrees())
	}
	if len(logger.debugMsgs) != 3 {
		t.Errorf("logged %d debug messages, want 3", len(logger.debugMsgs))
	}
}

func TestSampleAbortsOnFailure(t *testing.T) {
	transport := NewMockTransport()
	transport.FailOn(2, errors.New("spi: transfer failed"))

	dev := New(transport)
	s, err := dev.Sample()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "magnitude") {
		t.Errorf("error = %v, want it to name the magnitude read", err)
	}
	if s != (Sample{}) {
		t.Errorf("Sample() = %+v on failure, want zero value", s)
	}
	if len(transport.writes) != 3 {
		t.Errorf("performed %d transfers, want 3", len(transport.writes))
	}
}

func TestString(t *testing.T) {
	dev := New(NewMockTransport())
	if dev.String() != "AS5048A" {
		t.Errorf("String() = %q, want AS5048A", dev.String())
	}
}
