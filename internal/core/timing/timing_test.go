package timing

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestFixedTimeouts(t *testing.T) {
	tm := New(Params{
		SuspicionTimeout: 2 * time.Second,
		DepartureTimeout: 3 * time.Second,
		SweepInterval:    500 * time.Millisecond,
	})

	if got := tm.SuspicionTimeout(); got != 2*time.Second {
		t.Errorf("SuspicionTimeout() = %v, want 2s", got)
	}
	if got := tm.DepartureTimeout(); got != 3*time.Second {
		t.Errorf("DepartureTimeout() = %v, want 3s", got)
	}
	if got := tm.SweepInterval(); got != 500*time.Millisecond {
		t.Errorf("SweepInterval() = %v, want 500ms", got)
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.SuspicionTimeout != DefaultSuspicionTimeout ||
		p.DepartureTimeout != DefaultDepartureTimeout ||
		p.SweepInterval != DefaultSweepInterval {
		t.Errorf("DefaultParams() = %+v", p)
	}
	if p.ScaleWithClusterSize {
		t.Error("scaling should be off by default")
	}
}

func TestScaleWithClusterSize(t *testing.T) {
	tests := []struct {
		size int
		want time.Duration
	}{
		{0, 10 * time.Second},   // clamped to 1
		{1, 10 * time.Second},   // log10(2) rounds up to 1
		{9, 10 * time.Second},   // log10(10) = 1
		{10, 20 * time.Second},  // log10(11) rounds up to 2
		{99, 20 * time.Second},  // log10(100) = 2
		{100, 30 * time.Second}, // log10(101) rounds up to 3
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("size=%d", tt.size), func(t *testing.T) {
			size := tt.size
			tm := New(Params{
				SuspicionTimeout:     10 * time.Second,
				DepartureTimeout:     10 * time.Second,
				ScaleWithClusterSize: true,
			}, WithClusterSize(func() int { return size }))

			if got := tm.SuspicionTimeout(); got != tt.want {
				t.Errorf("SuspicionTimeout() = %v, want %v", got, tt.want)
			}
			if got := tm.DepartureTimeout(); got != tt.want {
				t.Errorf("DepartureTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateSwapsSnapshot(t *testing.T) {
	tm := New(Params{SuspicionTimeout: time.Second})

	tm.Update(Params{SuspicionTimeout: 5 * time.Second})

	if got := tm.SuspicionTimeout(); got != 5*time.Second {
		t.Errorf("SuspicionTimeout() after Update = %v, want 5s", got)
	}
	if got := tm.Current().SuspicionTimeout; got != 5*time.Second {
		t.Errorf("Current().SuspicionTimeout = %v, want 5s", got)
	}
}

func TestConcurrentUpdateAndRead(t *testing.T) {
	tm := New(DefaultParams())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tm.Update(Params{
				SuspicionTimeout: time.Duration(i+1) * time.Millisecond,
				DepartureTimeout: time.Duration(i+1) * time.Millisecond,
				SweepInterval:    time.Millisecond,
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if tm.SuspicionTimeout() <= 0 {
				t.Error("reader observed a non-positive timeout")
				return
			}
		}
	}()
	wg.Wait()
}
