package fn

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestResultUnwrap(t *testing.T) {
	v, err := Ok(42).Unwrap()
	if v != 42 || err != nil {
		t.Errorf("Ok.Unwrap = (%d, %v)", v, err)
	}

	boom := errors.New("boom")
	_, err = Err[int](boom).Unwrap()
	if !errors.Is(err, boom) {
		t.Errorf("Err.Unwrap err = %v", err)
	}

	if got := Err[int](boom).UnwrapOr(7); got != 7 {
		t.Errorf("UnwrapOr = %d, want 7", got)
	}
}

func TestFromPair(t *testing.T) {
	if r := FromPair(1, nil); r.IsErr() {
		t.Error("FromPair(1, nil) is err")
	}
	if r := FromPair(0, errors.New("x")); r.IsOk() {
		t.Error("FromPair(_, err) is ok")
	}
}

func TestCollect(t *testing.T) {
	boom := errors.New("boom")
	r := Collect([]Result[int]{Ok(1), Err[int](boom), Ok(3)})
	if _, err := r.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("Collect err = %v, want boom", err)
	}

	vals, err := Collect([]Result[int]{Ok(1), Ok(2)}).Unwrap()
	if err != nil || len(vals) != 2 || vals[0] != 1 || vals[1] != 2 {
		t.Errorf("Collect = (%v, %v)", vals, err)
	}
}

func TestRetrySucceedsOnSecondAttempt(t *testing.T) {
	var calls atomic.Int32
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	r := Retry(context.Background(), opts, func(context.Context) Result[string] {
		if calls.Add(1) == 1 {
			return Err[string](errors.New("transient"))
		}
		return Ok("done")
	})
	if v, err := r.Unwrap(); err != nil || v != "done" {
		t.Errorf("Retry = (%q, %v)", v, err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	perm := errors.New("permanent")
	var calls atomic.Int32
	opts := RetryOpts{
		MaxAttempts: 5,
		InitialWait: time.Millisecond,
		MaxWait:     time.Millisecond,
		ShouldRetry: func(err error) bool { return !errors.Is(err, perm) },
	}
	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		calls.Add(1)
		return Err[int](perm)
	})
	if _, err := r.Unwrap(); !errors.Is(err, perm) {
		t.Errorf("err = %v, want permanent", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent)", calls.Load())
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour}
	r := Retry(ctx, opts, func(context.Context) Result[int] {
		return Err[int](errors.New("transient"))
	})
	if _, err := r.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFanOutOrder(t *testing.T) {
	out := FanOut(
		func() int { time.Sleep(10 * time.Millisecond); return 1 },
		func() int { return 2 },
		func() int { return 3 },
	)
	if out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Errorf("FanOut = %v", out)
	}
}

func TestParMap(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	out := ParMap(in, 2, func(v int) int { return v * v })
	for i, v := range in {
		if out[i] != v*v {
			t.Errorf("out[%d] = %d, want %d", i, out[i], v*v)
		}
	}
	if got := ParMap(nil, 2, func(v int) int { return v }); len(got) != 0 {
		t.Errorf("ParMap(nil) = %v", got)
	}
}

func TestSliceHelpers(t *testing.T) {
	doubled := Map([]int{1, 2}, func(v int) int { return v * 2 })
	if doubled[0] != 2 || doubled[1] != 4 {
		t.Errorf("Map = %v", doubled)
	}

	evens := Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	if len(evens) != 2 || evens[0] != 2 || evens[1] != 4 {
		t.Errorf("Filter = %v", evens)
	}

	kept := FilterMap([]int{1, 2, 3}, func(v int) (int, bool) { return v * 10, v != 2 })
	if len(kept) != 2 || kept[0] != 10 || kept[1] != 30 {
		t.Errorf("FilterMap = %v", kept)
	}
}
