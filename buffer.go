package dblog

// buffer is a fixed-capacity append-only byte block
// A buffer has exactly one owner at a time: the current slot, the standby slot,
// the pending queue, the writer's batch or one of the writer's spare slots
type buffer struct {
	data []byte // len(data) is the capacity, never resliced
	used int
	next *buffer
}

// newBuffer allocates a zeroed buffer of the given capacity in bytes
func newBuffer(capacity int) *buffer {
	return &buffer{data: make([]byte, capacity)}
}

// available returns the free space left in the buffer
func (b *buffer) available() int {
	return len(b.data) - b.used
}

// fits reports whether n more bytes can be appended without overflow
func (b *buffer) fits(n int) bool {
	return n <= b.available()
}

// write copies p into the buffer. Caller must check fits first.
func (b *buffer) write(p []byte) {
	b.used += copy(b.data[b.used:], p)
}

// bytes returns the used portion of the block
func (b *buffer) bytes() []byte {
	return b.data[:b.used]
}

// reset clears the buffer for reuse. Old contents are not zeroed, used marks validity.
func (b *buffer) reset() {
	b.used = 0
	b.next = nil
}

// bufferList is a singly linked FIFO of buffers
type bufferList struct {
	head  *buffer
	tail  *buffer
	count int
}

// empty reports whether the list holds no buffers
func (bl *bufferList) empty() bool {
	return bl.head == nil
}

// pushBack appends b at the tail, taking ownership of it
func (bl *bufferList) pushBack(b *buffer) {
	b.next = nil
	if bl.head == nil {
		bl.head = b
	} else {
		bl.tail.next = b
	}
	bl.tail = b
	bl.count++
}

// popFront detaches and returns the head, nil when empty
func (bl *bufferList) popFront() *buffer {
	b := bl.head
	if b == nil {
		return nil
	}
	bl.head = b.next
	if bl.head == nil {
		bl.tail = nil
	}
	bl.count--
	b.next = nil
	return b
}

// takeAll moves the whole list out in O(1), leaving bl empty
func (bl *bufferList) takeAll() bufferList {
	out := *bl
	*bl = bufferList{}
	return out
}

// keepNewest drops all but the last n buffers, returning how many were dropped
// Dropped buffers are unlinked and left to the garbage collector
func (bl *bufferList) keepNewest(n int) int {
	dropped := 0
	for bl.count > n {
		bl.popFront()
		dropped++
	}
	return dropped
}
