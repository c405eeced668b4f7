package gpio

import "sync"

// FakeBoard is a test double that records output writes and lets tests
// deliver button presses. Safe for concurrent use: the control core's tick
// and button producers run on separate goroutines.
type FakeBoard struct {
	mu sync.Mutex

	fan bool
	led bool

	// FanWrites and LEDWrites record every write in order.
	fanWrites []bool
	ledWrites []bool

	// onPress is the press handler, as wired for a real board.
	onPress func()

	// Closed tracks if Close was called.
	closed bool
}

// NewFakeBoard creates a FakeBoard. onPress may be nil and set later with
// SetPressHandler.
func NewFakeBoard(onPress func()) *FakeBoard {
	return &FakeBoard{onPress: onPress}
}

// SetPressHandler wires the press handler after construction.
func (f *FakeBoard) SetPressHandler(onPress func()) {
	f.mu.Lock()
	f.onPress = onPress
	f.mu.Unlock()
}

// Press simulates one debounced button press.
func (f *FakeBoard) Press() {
	f.mu.Lock()
	h := f.onPress
	f.mu.Unlock()
	if h != nil {
		h()
	}
}

// SetFan records the fan write.
func (f *FakeBoard) SetFan(on bool) {
	f.mu.Lock()
	f.fan = on
	f.fanWrites = append(f.fanWrites, on)
	f.mu.Unlock()
}

// SetLED records the LED write.
func (f *FakeBoard) SetLED(on bool) {
	f.mu.Lock()
	f.led = on
	f.ledWrites = append(f.ledWrites, on)
	f.mu.Unlock()
}

// Fan returns the current fan state.
func (f *FakeBoard) Fan() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fan
}

// LED returns the current LED state.
func (f *FakeBoard) LED() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.led
}

// FanWrites returns a copy of the fan write log.
func (f *FakeBoard) FanWrites() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.fanWrites...)
}

// LEDWrites returns a copy of the LED write log.
func (f *FakeBoard) LEDWrites() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.ledWrites...)
}

// ResetWrites clears the write logs, keeping current output states.
func (f *FakeBoard) ResetWrites() {
	f.mu.Lock()
	f.fanWrites = nil
	f.ledWrites = nil
	f.mu.Unlock()
}

// Close marks the board as closed.
func (f *FakeBoard) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeBoard) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
