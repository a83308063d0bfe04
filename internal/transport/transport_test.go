package transport

import (
	"testing"
	"time"
)

func TestIDPoolAcquireRelease(t *testing.T) {
	p := newIDPool(3)
	ids := map[uint8]bool{}
	for i := 0; i < 3; i++ {
		id, err := p.Acquire()
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		ids[id] = true
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 distinct ids, got %v", ids)
	}
	if _, err := p.Acquire(); err == nil {
		t.Fatalf("expected pool exhaustion error")
	}
	p.Release(1)
	if _, err := p.Acquire(); err != nil {
		t.Fatalf("expected reuse after release: %v", err)
	}
}

func TestPeerDuplicateSuppression(t *testing.T) {
	peer := newPeer(0, nil)
	if peer.duplicate(1) {
		t.Fatalf("first sight of seq 1 should not be a duplicate")
	}
	if !peer.duplicate(1) {
		t.Fatalf("repeat of seq 1 should be a duplicate")
	}
	if peer.duplicate(2) {
		t.Fatalf("new seq 2 should not be a duplicate")
	}
}

func TestPeerRetransmitQueue(t *testing.T) {
	peer := newPeer(0, nil)
	peer.track(1, []byte("hello"))

	resend, expired := peer.dueRetransmits(time.Hour, 8)
	if len(resend) != 0 || len(expired) != 0 {
		t.Fatalf("nothing should be due yet")
	}

	resend, expired = peer.dueRetransmits(0, 8)
	if len(resend) != 1 || len(expired) != 0 {
		t.Fatalf("expected one resend, got resend=%d expired=%d", len(resend), len(expired))
	}

	peer.ack(1)
	resend, _ = peer.dueRetransmits(0, 8)
	if len(resend) != 0 {
		t.Fatalf("acked message should not be resent")
	}
}

func TestPeerRetransmitExpiresAfterMaxRetries(t *testing.T) {
	peer := newPeer(0, nil)
	peer.track(1, []byte("hello"))

	for i := 0; i < 2; i++ {
		peer.dueRetransmits(0, 2)
	}
	_, expired := peer.dueRetransmits(0, 2)
	if len(expired) != 1 {
		t.Fatalf("expected message to expire after max retries, got %v", expired)
	}
}

func TestPeerAllowInboundEnforcesBurst(t *testing.T) {
	peer := newPeer(0, nil)
	allowed := 0
	for i := 0; i < inboundBurst+10; i++ {
		if peer.AllowInbound() {
			allowed++
		}
	}
	if allowed > inboundBurst {
		t.Fatalf("expected burst to cap admitted datagrams at %d, got %d", inboundBurst, allowed)
	}
	if allowed == 0 {
		t.Fatalf("expected at least the initial burst to be admitted")
	}
}

func TestBigEndianSeqRoundTrip(t *testing.T) {
	b := make([]byte, 4)
	putBeUint32(b, 0xCAFEBABE)
	if got := beUint32(b); got != 0xCAFEBABE {
		t.Fatalf("got %x, want %x", got, 0xCAFEBABE)
	}
}
