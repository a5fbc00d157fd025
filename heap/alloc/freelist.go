package alloc

// freeList is the intrusive, address-ordered, doubly-linked list of free
// blocks. Links live in the block headers; the list itself only holds the
// head.
//
// Invariant: for consecutive members a and b with next(a) == b, a < b.
type freeList struct {
	r    region
	head uint32
}

// insert links off at its address-ordered position. Linear in the number of
// free blocks below off, which makes it the dominant cost of Free.
func (l *freeList) insert(off uint32) {
	r := l.r
	if l.head == nilOff || off < l.head {
		r.setPrev(off, nilOff)
		r.setNext(off, l.head)
		if l.head != nilOff {
			r.setPrev(l.head, off)
		}
		l.head = off
		return
	}

	cur := l.head
	for {
		nxt := r.next(cur)
		if nxt == nilOff || nxt > off {
			break
		}
		cur = nxt
	}

	nxt := r.next(cur)
	r.setPrev(off, cur)
	r.setNext(off, nxt)
	r.setNext(cur, off)
	if nxt != nilOff {
		r.setPrev(nxt, off)
	}
}

// remove unlinks off from wherever it sits.
func (l *freeList) remove(off uint32) {
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

// replace puts repl at old's list position. The caller guarantees that
// doing so keeps address order: repl must lie strictly between old's
// neighbours. old's header must still be intact when replace runs.
func (l *freeList) replace(old, repl uint32) {
	r := l.r
	prev, next := r.prev(old), r.next(old)
	r.setPrev(repl, prev)
	r.setNext(repl, next)
	if prev == nilOff {
		l.head = repl
	} else {
		r.setNext(prev, repl)
	}
	if next != nilOff {
		r.setPrev(next, repl)
	}
}

// each calls fn for every member in list order until fn returns false.
// limit bounds the walk so a corrupted list cannot loop forever.
func (l *freeList) each(limit int, fn func(off uint32) bool) {
	for off, n := l.head, 0; off != nilOff && n < limit; off, n = l.r.next(off), n+1 {
		if !fn(off) {
			return
		}
	}
}
