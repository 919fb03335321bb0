package logic

import "testing"

func TestReadingInRange(t *testing.T) {
	tests := []struct {
		in   Reading
		want bool
	}{
		{Reading{0, 0, 0}, true},
		{Reading{65535, 65535, 65535}, true},
		{Reading{30, 22, 25}, true},
		{Reading{-1, 22, 25}, false},
		{Reading{30, 65536, 25}, false},
		{Reading{30, 22, -5}, false},
	}
	for _, tt := range tests {
		if got := tt.in.InRange(); got != tt.want {
			t.Errorf("%+v.InRange(): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadingValid(t *testing.T) {
	tests := []struct {
		in   Reading
		want bool
	}{
		{Reading{1, 1, 1}, true},
		{Reading{0, 22, 25}, false},
		{Reading{30, 0, 25}, false},
		{Reading{30, 22, 0}, false},
		{Reading{30, 22, 65536}, false},
		{Reading{65535, 65535, 65535}, true},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.want {
			t.Errorf("%+v.Valid(): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadingValue(t *testing.T) {
	r := Reading{Finger: 1, Environment: 2, Object: 3}
	for i, ch := range Channels {
		if got := r.Value(ch); got != i+1 {
			t.Errorf("Value(%s): got %d, want %d", ch, got, i+1)
		}
	}
}

func TestChannelNames(t *testing.T) {
	want := map[Channel][2]string{
		ChannelFinger:      {"Finger", "finger"},
		ChannelEnvironment: {"Environment", "environment"},
		ChannelObject:      {"Object", "object"},
	}
	for ch, names := range want {
		if ch.String() != names[0] {
			t.Errorf("String(): got %q, want %q", ch.String(), names[0])
		}
		if ch.Key() != names[1] {
			t.Errorf("Key(): got %q, want %q", ch.Key(), names[1])
		}
	}
}
