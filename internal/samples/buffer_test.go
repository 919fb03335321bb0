package samples

import (
	"testing"

	"github.com/partheniadis/r-node-nRF/internal/logic"
)

func TestAppendParallelSeries(t *testing.T) {
	b := NewBuffer()
	b.Append(1, logic.Reading{Finger: 30, Environment: 22, Object: 25})
	b.Append(2, logic.Reading{Finger: 31, Environment: 23, Object: 26})

	if b.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", b.Len())
	}

	want := map[logic.Channel][]Point{
		logic.ChannelFinger:      {{1, 30}, {2, 31}},
		logic.ChannelEnvironment: {{1, 22}, {2, 23}},
		logic.ChannelObject:      {{1, 25}, {2, 26}},
	}
	for ch, pts := range want {
		got := b.Series(ch)
		if len(got) != len(pts) {
			t.Fatalf("%s: got %d points, want %d", ch, len(got), len(pts))
		}
		for i := range pts {
			if got[i] != pts[i] {
				t.Errorf("%s[%d]: got %+v, want %+v", ch, i, got[i], pts[i])
			}
		}
	}
}

func TestAppendNoEviction(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 5000; i++ {
		b.Append(i, logic.Reading{Finger: 1, Environment: 1, Object: 1})
	}
	if b.Len() != 5000 {
		t.Errorf("Len: got %d, want 5000", b.Len())
	}
}

func TestClear(t *testing.T) {
	b := NewBuffer()
	b.Append(1, logic.Reading{Finger: 30, Environment: 22, Object: 25})
	b.Clear()

	for i := 0; i < 3; i++ {
		for _, ch := range logic.Channels {
			if got := b.Series(ch); len(got) != 0 {
				t.Errorf("%s after Clear: got %d points, want 0", ch, len(got))
			}
		}
	}
	if _, _, ok := b.Last(); ok {
		t.Error("Last after Clear: expected ok=false")
	}
}

func TestSeriesReturnsCopy(t *testing.T) {
	b := NewBuffer()
	b.Append(1, logic.Reading{Finger: 30, Environment: 22, Object: 25})

	pts := b.Series(logic.ChannelFinger)
	pts[0].Value = 99

	if got := b.Series(logic.ChannelFinger)[0].Value; got != 30 {
		t.Errorf("buffer mutated through copy: got %d, want 30", got)
	}
}

func TestLastN(t *testing.T) {
	b := NewBuffer()
	for i := 1; i <= 10; i++ {
		b.Append(i, logic.Reading{Finger: i, Environment: i * 2, Object: i * 3})
	}

	got := b.LastN(3)
	for _, ch := range logic.Channels {
		if len(got[ch]) != 3 {
			t.Fatalf("%s: got %d points, want 3", ch, len(got[ch]))
		}
		if got[ch][0].Index != 8 || got[ch][2].Index != 10 {
			t.Errorf("%s: got indexes %d..%d, want 8..10", ch, got[ch][0].Index, got[ch][2].Index)
		}
	}

	all := b.LastN(100)
	if len(all[logic.ChannelObject]) != 10 {
		t.Errorf("LastN(100): got %d points, want 10", len(all[logic.ChannelObject]))
	}

	none := b.LastN(0)
	if none[logic.ChannelFinger] != nil {
		t.Error("LastN(0): expected nil series")
	}
}

func TestLast(t *testing.T) {
	b := NewBuffer()
	b.Append(7, logic.Reading{Finger: 30, Environment: 22, Object: 25})

	idx, r, ok := b.Last()
	if !ok {
		t.Fatal("expected ok=true")
	}
	if idx != 7 {
		t.Errorf("index: got %d, want 7", idx)
	}
	if r != (logic.Reading{Finger: 30, Environment: 22, Object: 25}) {
		t.Errorf("reading: got %+v", r)
	}
}
