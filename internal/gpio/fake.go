package gpio

import "sync"

// FakeButton is a test double pressed by calling Press.
type FakeButton struct {
	mu      sync.Mutex
	onPress func()
	presses int
	closed  bool
}

// NewFakeButton creates a FakeButton that calls onPress on every Press.
func NewFakeButton(onPress func()) *FakeButton {
	return &FakeButton{onPress: onPress}
}

// Press simulates one debounced press. Presses after Close are ignored.
func (f *FakeButton) Press() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.presses++
	f.mu.Unlock()
	f.onPress()
}

// Presses returns the number of delivered presses.
func (f *FakeButton) Presses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presses
}

// Closed reports whether Close was called.
func (f *FakeButton) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close stops delivering presses.
func (f *FakeButton) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}
