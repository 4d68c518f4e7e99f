package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow_EnforcesLimitPerWindow(t *testing.T) {
	limiter := NewRateLimiter()
	for i := 0; i < 3; i++ {
		if !limiter.Allow("k", 3, time.Minute) {
			t.Fatalf("expected call %d to be allowed", i+1)
		}
	}
	if limiter.Allow("k", 3, time.Minute) {
		t.Fatal("expected the fourth call to be rejected")
	}
	if !limiter.Allow("other", 3, time.Minute) {
		t.Fatal("expected keys to be counted separately")
	}
}

func TestRateLimiterAllow_ResetsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter()
	if !limiter.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("expected the first call to be allowed")
	}
	if limiter.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("expected the second call to be rejected")
	}
	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("expected a fresh window after expiry")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:42000"
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Fatalf("expected host part of remote addr, got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("expected forwarded address, got %q", got)
	}
}
