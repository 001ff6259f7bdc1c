package detection

// pixelQueue is a fixed-capacity FIFO of pixel indices.
//
// A pixel is enqueued at most once per labeling pass, so capacity W×H can
// never be exceeded. Overflow means the visited bookkeeping is broken and
// panics instead of growing.
type pixelQueue struct {
	buf  []int
	head int
	tail int
	size int
}

func newPixelQueue(capacity int) *pixelQueue {
	return &pixelQueue{buf: make([]int, capacity)}
}

func (q *pixelQueue) push(idx int) {
	if q.size == len(q.buf) {
		panic("detection: pixel queue overflow")
	}
	q.buf[q.tail] = idx
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
}

func (q *pixelQueue) pop() int {
	idx := q.buf[q.head]
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--
	return idx
}

func (q *pixelQueue) empty() bool { return q.size == 0 }

func (q *pixelQueue) reset() {
	q.head, q.tail, q.size = 0, 0, 0
}
