package transport

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// inboundRateLimit and inboundBurst bound how many datagrams per
// second a single peer's socket may push into the worker pool before
// the host starts dropping them, independent of any per-tool rate
// limit internal/weapon or internal/conn enforce on the decoded
// packets themselves (§7: "Rate-limit / authority rejection").
const (
	inboundRateLimit = 120.0
	inboundBurst     = 240
)

// reliableMessage is one outstanding reliable send awaiting ack,
// grounded on the teacher's ReliableMessage retransmit bookkeeping.
type reliableMessage struct {
	seq      uint32
	data     []byte
	sentAt   time.Time
	retries  int
}

// Peer is one connected client. It owns sequence/ack state for the
// reliable channel and the retransmit queue for unacked sends.
type Peer struct {
	ID      uint8
	Addr    *net.UDPAddr
	LastSeen time.Time

	limiter *rate.Limiter

	mu              sync.Mutex
	sendSeq         uint32
	recvSeq         uint32
	pendingReliable map[uint32]*reliableMessage
	closed          bool
}

func newPeer(id uint8, addr *net.UDPAddr) *Peer {
	return &Peer{
		ID:              id,
		Addr:            addr,
		LastSeen:        time.Now(),
		limiter:         rate.NewLimiter(rate.Limit(inboundRateLimit), inboundBurst),
		pendingReliable: make(map[uint32]*reliableMessage),
	}
}

// AllowInbound reports whether another inbound datagram from this peer
// fits within its flood-control budget this instant. Rejected datagrams
// are dropped silently by the caller — no disconnect, no error sent
// back, matching the "silently drop; no kick" rate-limit posture.
func (p *Peer) AllowInbound() bool {
	return p.limiter.Allow()
}

// nextSeq allocates the next reliable-channel sequence number.
func (p *Peer) nextSeq() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendSeq++
	return p.sendSeq
}

// track records a reliable send for retransmission until acked.
func (p *Peer) track(seq uint32, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingReliable[seq] = &reliableMessage{seq: seq, data: data, sentAt: time.Now()}
}

// ack removes a sequence number from the retransmit queue.
func (p *Peer) ack(seq uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pendingReliable, seq)
}

// duplicate reports whether seq has already been seen on the recv
// side, so the caller can drop a retransmitted duplicate instead of
// re-dispatching it.
func (p *Peer) duplicate(seq uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.recvSeq && p.recvSeq != 0 {
		return true
	}
	p.recvSeq = seq
	return false
}

// dueRetransmits returns pending reliable sends older than after,
// incrementing their retry count, for the maintenance loop to resend.
func (p *Peer) dueRetransmits(after time.Duration, maxRetries int) (resend [][]byte, expired []uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	for seq, m := range p.pendingReliable {
		if now.Sub(m.sentAt) < after {
			continue
		}
		if m.retries >= maxRetries {
			expired = append(expired, seq)
			delete(p.pendingReliable, seq)
			continue
		}
		m.retries++
		m.sentAt = now
		resend = append(resend, m.data)
	}
	return resend, expired
}
