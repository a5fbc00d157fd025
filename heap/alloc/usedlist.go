package alloc

// usedList is the intrusive LIFO list of used blocks. It is never searched
// on the allocation path; it exists for bookkeeping and reporting.
type usedList struct {
	r    region
	head uint32
}

// pushFront makes off the most recently used block.
func (l *usedList) pushFront(off uint32) {
	r := l.r
	r.setPrev(off, nilOff)
	r.setNext(off, l.head)
	if l.head != nilOff {
		r.setPrev(l.head, off)
	}
	l.head = off
}

// remove unlinks off using its own links.
func (l *usedList) remove(off uint32) {
	r := l.r
	prev, next := r.prev(off), r.next(off)
	if prev == nilOff {
		l.head = next
	} else {
		r.setNext(prev, next)
	}
	if next != nilOff {
		r.setPrev(next, prev)
	}
	r.setNext(off, nilOff)
	r.setPrev(off, nilOff)
}

func (l *usedList) each(limit int, fn func(off uint32) bool) {
	for off, n := l.head, 0; off != nilOff && n < limit; off, n = l.r.next(off), n+1 {
		if !fn(off) {
			return
		}
	}
}
