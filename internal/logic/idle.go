package logic

// IdleTracker counts consecutive inactive loop iterations and invokes the
// sleep function once the count strictly exceeds the threshold. Any active
// iteration resets the count; so does waking up.
type IdleTracker struct {
	inactive  int
	threshold int
	sleep     func()
}

func newIdleTracker(threshold int, sleep func()) *IdleTracker {
	return &IdleTracker{threshold: threshold, sleep: sleep}
}

// Observe feeds one iteration's activity signal. Returns true if the
// observation put the device to sleep (in which case the call blocked until
// wakeup).
func (t *IdleTracker) Observe(active bool) bool {
	if active {
		t.inactive = 0
		return false
	}

	t.inactive++
	if t.inactive > t.threshold {
		t.sleep()
		t.inactive = 0
		return true
	}
	return false
}
