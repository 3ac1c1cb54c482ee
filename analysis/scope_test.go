package analysis

import "testing"

func TestScopeEvictsOldestFrame(t *testing.T) {
	s := NewScope(2, 8)

	s.Push([]float64{1}, []float64{1})
	s.Push([]float64{2}, []float64{2})
	s.Push([]float64{3}, []float64{3})

	frames := s.Frames()
	if len(frames) != 2 {
		t.Fatalf("len(Frames()) = %d, want 2", len(frames))
	}

	if frames[0][0].Y != 2 || frames[1][0].Y != 3 {
		t.Fatalf("frames = %v, want mids 2 then 3", frames)
	}
}

func TestScopeMidSidePoints(t *testing.T) {
	s := NewScope(0, 0)

	s.Push([]float64{1, 0, 1}, []float64{0, 1, 1})

	got := s.Frames()[0]
	want := []Point{{X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}, {X: 0, Y: 1}}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScopeDecimates(t *testing.T) {
	s := NewScope(4, 100)

	left := make([]float64, 1000)
	right := make([]float64, 1000)
	s.Push(left, right)

	if n := len(s.Frames()[0]); n != 100 {
		t.Fatalf("points = %d, want 100", n)
	}
}

func TestScopeIgnoresDegenerateInput(t *testing.T) {
	s := NewScope(4, 16)

	s.Push(nil, nil)
	s.Push([]float64{1, 2}, []float64{1})

	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
}

func TestScopeFramesAreCopies(t *testing.T) {
	s := NewScope(1, 4)
	s.Push([]float64{1}, []float64{1})

	frames := s.Frames()
	frames[0][0].Y = 42

	if s.Frames()[0][0].Y != 1 {
		t.Fatal("Frames() exposed internal storage")
	}
}
