package nanoblocks

// Listener receives a custom event.
type Listener func(name string, payload any)

// ListenerID identifies a subscription for removal. Go funcs are not
// comparable, so On hands out an ID instead.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Emitter is a minimal synchronous pub/sub.
//
// Listeners run in subscription order on the goroutine calling Trigger. The
// zero value is ready to use. An Emitter is not safe for concurrent use.
type Emitter struct {
	handlers map[string][]listenerEntry
	nextID   ListenerID
}

// On subscribes fn to the event name.
func (em *Emitter) On(name string, fn Listener) ListenerID {
	if em.handlers == nil {
		em.handlers = make(map[string][]listenerEntry)
	}
	em.nextID++
	id := em.nextID
	em.handlers[name] = append(em.handlers[name], listenerEntry{id: id, fn: fn})
	return id
}

// Once subscribes fn for the next occurrence of name only.
func (em *Emitter) Once(name string, fn Listener) ListenerID {
	var id ListenerID
	id = em.On(name, func(n string, payload any) {
		em.Off(name, id)
		fn(n, payload)
	})
	return id
}

// Off unsubscribes the given listeners from name.
// With no ids, every listener of name is removed.
func (em *Emitter) Off(name string, ids ...ListenerID) {
	if len(ids) == 0 {
		delete(em.handlers, name)
		return
	}

	current := em.handlers[name]
	kept := make([]listenerEntry, 0, len(current))
	for _, l := range current {
		drop := false
		for _, id := range ids {
			if l.id == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(em.handlers, name)
		return
	}
	em.handlers[name] = kept
}

// Trigger calls the listeners of name with (name, payload).
// The listener list is copied first: subscribing or unsubscribing from inside
// a listener takes effect from the next Trigger.
func (em *Emitter) Trigger(name string, payload any) {
	current := em.handlers[name]
	if len(current) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(current))
	copy(snapshot, current)

	for _, l := range snapshot {
		l.fn(name, payload)
	}
}

// Listeners returns how many listeners are subscribed to name.
func (em *Emitter) Listeners(name string) int {
	return len(em.handlers[name])
}
