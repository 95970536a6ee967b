package testutil

import "sync"

// Notifications records every error passed to Notify.
//
// Implements engine.Notifier without importing the engine package.
type Notifications struct {
	mu   sync.Mutex
	errs []error
}

// Notify appends err.
func (n *Notifications) Notify(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

// Count returns how many notifications were recorded.
func (n *Notifications) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errs)
}

// Errors returns a copy of the recorded errors.
func (n *Notifications) Errors() []error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]error(nil), n.errs...)
}
