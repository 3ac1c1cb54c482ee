package beepstream

import (
	"errors"
	"io"
	"testing"

	"github.com/cwbudde/imagination"
	"github.com/cwbudde/imagination/param"
	"github.com/sirupsen/logrus"
)

type sliceStreamer struct {
	frames [][2]float64
	pos    int
	err    error
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.frames) {
		return 0, false
	}

	n := copy(samples, s.frames[s.pos:])
	s.pos += n

	return n, true
}

func (s *sliceStreamer) Err() error { return s.err }

func newProcessor(t *testing.T, channels, blockSize int) *imagination.Processor {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p, err := imagination.New(imagination.WithLogger(logrus.NewEntry(logger)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := p.Prepare(48000, blockSize, channels); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return p
}

func ramp(n int) [][2]float64 {
	frames := make([][2]float64, n)
	for i := range frames {
		v := float64(i) / float64(n)
		frames[i] = [2]float64{v, -v}
	}

	return frames
}

func drain(t *testing.T, s *Streamer, chunk int) [][2]float64 {
	t.Helper()

	var out [][2]float64

	buf := make([][2]float64, chunk)

	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)

		if !ok {
			return out
		}
	}
}

func TestStreamerPassesThroughAtIdentity(t *testing.T) {
	p := newProcessor(t, 2, 64)
	in := ramp(1000)

	s, err := New(&sliceStreamer{frames: in}, p, 64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := drain(t, s, 300)
	if len(out) != len(in) {
		t.Fatalf("streamed %d frames, want %d", len(out), len(in))
	}

	for i := range in {
		for c := range 2 {
			if d := out[i][c] - in[i][c]; d > 1e-12 || d < -1e-12 {
				t.Fatalf("frame %d ch %d = %v, want %v", i, c, out[i][c], in[i][c])
			}
		}
	}

	if s.Err() != nil {
		t.Fatalf("Err() = %v", s.Err())
	}

	if p.Snapshots().Published() == 0 {
		t.Fatal("processor published nothing")
	}
}

func TestStreamerAppliesParameters(t *testing.T) {
	p := newProcessor(t, 2, 32)
	if err := p.Store().Set(param.Width, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	s, err := New(&sliceStreamer{frames: [][2]float64{{2, 0}, {0, 2}}}, p, 32)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := drain(t, s, 8)
	for i, f := range out {
		if f != [2]float64{1, 1} {
			t.Fatalf("frame %d = %v, want [1 1]", i, f)
		}
	}
}

func TestStreamerMonoDuplicates(t *testing.T) {
	p := newProcessor(t, 1, 16)

	s, err := New(&sliceStreamer{frames: [][2]float64{{0.5, 0.9}, {-0.25, 0}}}, p, 16)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := drain(t, s, 4)
	want := [][2]float64{{0.5, 0.5}, {-0.25, -0.25}}

	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("frame %d = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestStreamerSurfacesSourceError(t *testing.T) {
	p := newProcessor(t, 2, 16)
	srcErr := errors.New("decode failed")

	s, err := New(&sliceStreamer{err: srcErr}, p, 16)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if n, ok := s.Stream(make([][2]float64, 4)); n != 0 || ok {
		t.Fatalf("Stream() = %d, %v, want 0, false", n, ok)
	}

	if !errors.Is(s.Err(), srcErr) {
		t.Fatalf("Err() = %v, want %v", s.Err(), srcErr)
	}
}

func TestNewValidates(t *testing.T) {
	p := newProcessor(t, 2, 16)
	src := &sliceStreamer{}

	if _, err := New(src, p, 32); err == nil {
		t.Fatal("expected error for block size above prepared size")
	}

	if _, err := New(src, p, 0); err == nil {
		t.Fatal("expected error for zero block size")
	}

	unprepared, err := imagination.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := New(src, unprepared, 16); !errors.Is(err, imagination.ErrNotPrepared) {
		t.Fatalf("err = %v, want ErrNotPrepared", err)
	}
}
