package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestFingerprintCallerDeterministic(t *testing.T) {
	a := FingerprintCaller("10.0.0.1")
	b := FingerprintCaller("10.0.0.1")
	if a != b {
		t.Errorf("FingerprintCaller not deterministic")
	}
	if a == FingerprintCaller("10.0.0.2") {
		t.Errorf("FingerprintCaller collided for distinct callers")
	}
}

func TestAllowUnderLimit(t *testing.T) {
	rdb := testClient(t)
	l := New(rdb, 10, time.Minute)
	fp := FingerprintCaller("TestAllowUnderLimit")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, fp)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("Allow() returned false on attempt %d, want true (max=10)", i+1)
		}
	}
}

func TestAllowRejectsOverLimit(t *testing.T) {
	rdb := testClient(t)
	l := New(rdb, 3, time.Minute)
	fp := FingerprintCaller("TestAllowRejectsOverLimit")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, fp)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("Allow() returned false within budget on attempt %d", i+1)
		}
	}
	ok, err := l.Allow(ctx, fp)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Error("Allow() returned true after exceeding max, want false")
	}
}

func TestMaxAndWindowAccessors(t *testing.T) {
	l := New(nil, 10, 60*time.Second)
	if l.Max() != 10 {
		t.Errorf("Max() = %d, want 10", l.Max())
	}
	if l.WindowSeconds() != 60 {
		t.Errorf("WindowSeconds() = %d, want 60", l.WindowSeconds())
	}
}
