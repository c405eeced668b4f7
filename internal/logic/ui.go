package logic

// UIMachine turns a burst of clicks into a run-level selection. It cycles
// Off → Input → Timeout → Off; the first click only opens the window, each
// further click raises the level by one, saturating at MaxLevels.
type UIMachine struct {
	state     UIState
	maxLevels int

	clicks  *clickCounter
	timer   *UITimer
	request *runRequest
	pulser  *Pulser
	board   Board
	emit    func(EventType, int)
}

// State returns the current UI state.
func (m *UIMachine) State() UIState {
	return m.state
}

// Step advances the machine one iteration and reports whether it did
// anything. Called from the main loop only.
func (m *UIMachine) Step() bool {
	switch m.state {
	case UIOff:
		// A pending acknowledgment still owns the LED; let it drain
		// before opening a new window. Clicks keep accumulating.
		if m.clicks.Peek() > 0 && m.pulser.Idle() {
			m.state = UIInput
			m.board.SetLED(true)
			m.timer.Arm()
			m.emit(EventInputOpen, 0)
			return true
		}
		return false

	case UIInput:
		if m.timer.Expired() {
			m.state = UITimeout
			m.timer.Disarm()
			return true
		}
		return false

	case UITimeout:
		// One-shot: always falls through to Off.
		m.board.SetLED(false)

		// Read-and-zero in one step. A click landing after the swap
		// belongs to the next cycle; nothing is lost or double-counted.
		clicks := m.clicks.TakeAll()
		level := ClampLevel(int(clicks)-1, m.maxLevels)
		if level > 0 {
			m.request.Set(StateForLevel(level))
		} else {
			// The user woke the device but chose not to start it.
			m.request.Set(RunOff)
		}
		m.pulser.Request(level)
		m.emit(EventSelect, level)

		m.state = UIOff
		return true
	}
	return false
}
