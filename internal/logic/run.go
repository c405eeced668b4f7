package logic

// RunMachine drives the fan from run-state requests. It is level-triggered:
// with no request pending it only reports whether the fan is on, so the
// system stays active for the whole run without any per-tick work. Consuming
// a request is the one edge, and Take guarantees it happens exactly once.
type RunMachine struct {
	current RunState

	request *runRequest
	timer   *RunTimer
	board   Board
	emit    func(EventType, int)
}

// State returns the current run state.
func (m *RunMachine) State() RunState {
	return m.current
}

// Step consumes a pending request, if any, and reports activity.
// Called from the main loop only.
func (m *RunMachine) Step() bool {
	req, ok := m.request.Take()
	if !ok {
		return m.current != RunOff
	}

	prev := m.current
	m.current = req
	if req == RunOff {
		m.timer.Stop()
		// The off write always goes to the hardware; the event only
		// reports an actual stop.
		m.board.SetFan(false)
		if prev != RunOff {
			m.emit(EventFanOff, 0)
		}
		return false
	}

	m.board.SetFan(true)
	m.timer.Arm(req.Level())
	m.emit(EventFanOn, req.Level())
	return true
}
