package unit

// FanOut is an ordered, duplicate-free list of event subscribers.
type FanOut[T comparable] struct {
	targets []T
}

// Add appends t unless it is already subscribed. It reports whether t was added.
func (f *FanOut[T]) Add(t T) bool {
	if f.Contains(t) {
		return false
	}

	f.targets = append(f.targets, t)

	return true
}

// Remove drops t and reports whether it was subscribed.
func (f *FanOut[T]) Remove(t T) bool {
	for i, x := range f.targets {
		if x == t {
			next := make([]T, 0, len(f.targets)-1)
			next = append(next, f.targets[:i]...)
			f.targets = append(next, f.targets[i+1:]...)

			return true
		}
	}

	return false
}

// Contains reports whether t is subscribed.
func (f *FanOut[T]) Contains(t T) bool {
	for _, x := range f.targets {
		if x == t {
			return true
		}
	}

	return false
}

// Len returns the number of subscribers.
func (f *FanOut[T]) Len() int { return len(f.targets) }

// Each calls fn for every subscriber in subscription order. Subscribers
// added or removed by fn take effect on the next dispatch.
func (f *FanOut[T]) Each(fn func(T)) {
	snapshot := f.targets
	for _, t := range snapshot {
		fn(t)
	}
}

// Clear drops every subscriber.
func (f *FanOut[T]) Clear() { f.targets = nil }
