package mqtt

import "log"

// pendingMsg is a serialized MQTT message held for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps the most recent messages published while disconnected.
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type ringBuffer struct {
	slots   []pendingMsg
	start   int // index of the oldest message
	size    int
	dropped int // messages overwritten since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{slots: make([]pendingMsg, capacity)}
}

func (r *ringBuffer) push(msg pendingMsg) {
	end := (r.start + r.size) % len(r.slots)
	if r.size < len(r.slots) {
		r.slots[end] = msg
		r.size++
		return
	}
	if r.dropped == 0 {
		log.Printf("mqtt: buffer full (%d messages), dropping oldest", len(r.slots))
	}
	// Full: end == start, overwrite the oldest and move start past it.
	r.slots[end] = msg
	r.start = (r.start + 1) % len(r.slots)
	r.dropped++
}

// drain returns buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drain() []pendingMsg {
	if r.size == 0 {
		return nil
	}
	out := make([]pendingMsg, r.size)
	for i := range out {
		out[i] = r.slots[(r.start+i)%len(r.slots)]
	}
	r.start, r.size, r.dropped = 0, 0, 0
	return out
}

func (r *ringBuffer) len() int {
	return r.size
}
