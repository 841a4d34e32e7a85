package state

import "sync"

// notifier delivers snapshots to subscribers from a single goroutine, so a
// subscriber may call back into its hook without deadlocking.
type notifier[S any] struct {
	snapshot func() S

	mu      sync.Mutex
	fns     map[int]func(S)
	next    int
	started bool
	kick    chan struct{}
	stop    chan struct{}
	once    sync.Once
}

func newNotifier[S any](snapshot func() S) *notifier[S] {
	return &notifier[S]{
		snapshot: snapshot,
		fns:      make(map[int]func(S)),
		kick:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

func (n *notifier[S]) subscribe(fn func(S)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.fns[id] = fn
	if !n.started {
		n.started = true
		go n.loop()
	}
	n.mu.Unlock()
	n.changed()

	return func() {
		n.mu.Lock()
		delete(n.fns, id)
		n.mu.Unlock()
	}
}

func (n *notifier[S]) changed() {
	select {
	case n.kick <- struct{}{}:
	default:
	}
}

func (n *notifier[S]) loop() {
	for {
		select {
		case <-n.stop:
			return
		case <-n.kick:
		}
		s := n.snapshot()

		n.mu.Lock()
		fns := make([]func(S), 0, len(n.fns))
		for _, fn := range n.fns {
			fns = append(fns, fn)
		}
		n.mu.Unlock()

		for _, fn := range fns {
			select {
			case <-n.stop:
				return
			default:
			}
			fn(s)
		}
	}
}

func (n *notifier[S]) close() {
	n.once.Do(func() { close(n.stop) })
}
