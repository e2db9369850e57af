package store

// Notifier delivers events to subscribers in subscription order.
// The zero value is ready to use.
type Notifier[E any] struct {
	next int
	subs []subscriber[E]
}

type subscriber[E any] struct {
	id int
	fn func(E)
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (n *Notifier[E]) Subscribe(fn func(E)) (cancel func()) {
	n.next++
	id := n.next
	n.subs = append(n.subs, subscriber[E]{id: id, fn: fn})
	return func() {
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (n *Notifier[E]) Len() int { return len(n.subs) }

// Notify calls every subscriber with e. Subscribers added or removed while
// notifying take effect from the next event.
func (n *Notifier[E]) Notify(e E) {
	for _, s := range n.subs[:len(n.subs):len(n.subs)] {
		s.fn(e)
	}
}
