package mqtt

import "log"

// queuedMsg stores a serialized MQTT message for replay after reconnection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayQueue is a fixed-capacity FIFO holding messages published while the
// broker is unreachable. When full it drops the oldest message.
// Not safe for concurrent use; the caller synchronizes.
type replayQueue struct {
	buf     []queuedMsg
	next    int // next write position
	size    int
	dropped int // messages overwritten since the last drain
}

func newReplayQueue(capacity int) *replayQueue {
	return &replayQueue{buf: make([]queuedMsg, capacity)}
}

func (q *replayQueue) add(msg queuedMsg) {
	if q.size == len(q.buf) {
		if q.dropped == 0 {
			log.Printf("mqtt: replay queue full (%d messages), dropping oldest", len(q.buf))
		}
		q.dropped++
		// next already points at the oldest entry; overwrite it.
		q.buf[q.next] = msg
		q.next = (q.next + 1) % len(q.buf)
		return
	}
	q.buf[q.next] = msg
	q.next = (q.next + 1) % len(q.buf)
	q.size++
}

// drain returns the queued messages oldest-first and empties the queue.
func (q *replayQueue) drain() []queuedMsg {
	if q.size == 0 {
		return nil
	}

	out := make([]queuedMsg, q.size)
	oldest := (q.next - q.size + len(q.buf)) % len(q.buf)
	for i := range out {
		out[i] = q.buf[(oldest+i)%len(q.buf)]
	}

	q.size = 0
	q.next = 0
	q.dropped = 0
	return out
}

func (q *replayQueue) pending() int {
	return q.size
}
