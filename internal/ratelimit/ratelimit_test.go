package ratelimit

import "testing"

func TestAllow(t *testing.T) {
	// 1 rps with burst 2: two immediate requests pass, the third is refused.
	krl := New(1, 2)

	if !krl.Allow("key-1") {
		t.Error("first request refused")
	}
	if !krl.Allow("key-1") {
		t.Error("second request refused within burst")
	}
	if krl.Allow("key-1") {
		t.Error("third request allowed past burst")
	}
}

func TestKeysIndependent(t *testing.T) {
	krl := New(1, 1)

	if !krl.Allow("key-1") {
		t.Error("key-1 first request refused")
	}
	if krl.Allow("key-1") {
		t.Error("key-1 second request allowed past burst")
	}
	// A different key has its own bucket.
	if !krl.Allow("key-2") {
		t.Error("key-2 throttled by key-1's bucket")
	}
}
