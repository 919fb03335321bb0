package gpio

import "testing"

var (
	_ Button = (*FakeButton)(nil)
	_ Button = (*RealButton)(nil)
)

func TestFakeButtonPress(t *testing.T) {
	n := 0
	b := NewFakeButton(func() { n++ })

	b.Press()
	b.Press()
	if n != 2 || b.Presses() != 2 {
		t.Errorf("presses: got callback=%d count=%d, want 2", n, b.Presses())
	}
}

func TestFakeButtonClose(t *testing.T) {
	n := 0
	b := NewFakeButton(func() { n++ })

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !b.Closed() {
		t.Error("expected Closed")
	}
	b.Press()
	if n != 0 {
		t.Errorf("press after close delivered: got %d", n)
	}
}
