// Package transport implements the reliable-UDP host: peer accept and
// disconnect, one-byte envelope framing with sequence/ack bookkeeping
// and a retransmit queue, an unsequenced broadcast mode for
// WorldUpdate, and the two out-of-band discovery probes (§4.2).
//
// Grounded on the worker-pool/message-queue shape of a raw UDP
// listener loop: a single goroutine reads datagrams and hands them to
// a bounded pool of workers so a slow handler never blocks the socket.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/stormcoast/voxelwar/internal/protocol"
)

// maxUDPPayload is the conservative safe datagram size that avoids IP
// fragmentation on the public internet.
const maxUDPPayload = 1472

const (
	retransmitInterval = 200 * time.Millisecond
	maxRetries         = 8
)

type envelopeKind uint8

const (
	envelopeUnsequenced envelopeKind = 0
	envelopeReliable    envelopeKind = 1
	envelopeAck         envelopeKind = 2
)

// ServerInfo is the payload answered to a HELLOLAN discovery probe.
type ServerInfo struct {
	Name        string `json:"name"`
	Players     int    `json:"players"`
	MaxPlayers  int    `json:"max_players"`
	Protocol    int    `json:"protocol"`
	GameMode    string `json:"game_mode"`
}

// Handlers are the callbacks the owning server wires up to react to
// transport events. Packet runs on a worker goroutine, never on the
// network read loop.
type Handlers struct {
	OnConnect    func(p *Peer)
	OnPacket     func(p *Peer, pkt protocol.Packet)
	OnBadPacket  func(p *Peer, err error)
	OnDisconnect func(p *Peer, reason protocol.DisconnectReason)
}

// Host owns the UDP socket and every connected Peer.
type Host struct {
	conn *net.UDPConn
	info ServerInfo

	pool       *idPool
	maxConns   int
	workers    chan func()
	log        zerolog.Logger
	handlers   Handlers

	mu        sync.RWMutex
	byAddr    map[string]*Peer
	byID      map[uint8]*Peer

	ctx     context.Context
	cancel  context.CancelFunc
	running int32
	wg      sync.WaitGroup
}

// New builds a Host bound to no socket yet; call Listen to start it.
func New(maxConns int, workerCount int, info ServerInfo, handlers Handlers, log zerolog.Logger) *Host {
	ctx, cancel := context.WithCancel(context.Background())
	return &Host{
		info:     info,
		pool:     newIDPool(maxConns),
		maxConns: maxConns,
		workers:  make(chan func(), workerCount*8),
		log:      log,
		handlers: handlers,
		byAddr:   make(map[string]*Peer),
		byID:     make(map[uint8]*Peer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Listen opens the UDP socket on port and starts the network loop and
// worker pool.
func (h *Host) Listen(port int, workerCount int) error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("transport: resolve addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("transport: listen: %w", err)
	}
	h.conn = conn
	atomic.StoreInt32(&h.running, 1)

	for i := 0; i < workerCount; i++ {
		h.wg.Add(1)
		go h.worker()
	}
	h.wg.Add(2)
	go h.networkLoop()
	go h.maintenanceLoop()

	h.log.Info().Int("port", port).Msg("transport listening")
	return nil
}

// Close stops all loops and releases the socket.
func (h *Host) Close() {
	if !atomic.CompareAndSwapInt32(&h.running, 1, 0) {
		return
	}
	h.cancel()
	if h.conn != nil {
		h.conn.Close()
	}
	h.wg.Wait()
}

func (h *Host) worker() {
	defer h.wg.Done()
	for {
		select {
		case fn := <-h.workers:
			fn()
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Host) networkLoop() {
	defer h.wg.Done()
	buf := make([]byte, maxUDPPayload)
	for atomic.LoadInt32(&h.running) == 1 {
		h.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, addr, err := h.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])

		if h.handleProbe(addr, data) {
			continue
		}

		peer := h.getOrCreatePeer(addr)
		select {
		case h.workers <- func() { h.dispatch(peer, data) }:
		default:
			h.log.Warn().Msg("worker queue full, dropping datagram")
		}
	}
}

// handleProbe answers the two well-known out-of-band discovery
// queries without going through envelope framing or peer creation.
func (h *Host) handleProbe(addr *net.UDPAddr, data []byte) bool {
	switch string(data) {
	case "HELLO":
		h.conn.WriteToUDP([]byte("HI"), addr)
		return true
	case "HELLOLAN":
		h.mu.RLock()
		h.info.Players = len(h.byID)
		h.info.MaxPlayers = h.maxConns
		info := h.info
		h.mu.RUnlock()
		info.Protocol = protocol.Version
		payload, err := json.Marshal(info)
		if err != nil {
			return true
		}
		h.conn.WriteToUDP(payload, addr)
		return true
	}
	return false
}

func (h *Host) getOrCreatePeer(addr *net.UDPAddr) *Peer {
	key := addr.String()

	h.mu.RLock()
	peer, ok := h.byAddr[key]
	h.mu.RUnlock()
	if ok {
		peer.LastSeen = time.Now()
		return peer
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if peer, ok = h.byAddr[key]; ok {
		return peer
	}
	id, err := h.pool.Acquire()
	if err != nil {
		h.log.Warn().Str("addr", key).Msg("server full, rejecting connection")
		// Caller still gets an unregistered *Peer sentinel with id
		// 0xFF. dispatch hands it to Disconnect with
		// DisconnectServerFull, which finds no registered peer and
		// returns: the datagram is dropped, OnDisconnect does not run,
		// and nothing is sent back to the rejected address.
		return &Peer{Addr: addr, ID: 0xFF}
	}
	peer = newPeer(id, addr)
	h.byAddr[key] = peer
	h.byID[id] = peer
	if h.handlers.OnConnect != nil {
		h.handlers.OnConnect(peer)
	}
	return peer
}

// dispatch strips the envelope, acks reliable sends, drops duplicates,
// and forwards the decoded packet to the handler.
func (h *Host) dispatch(peer *Peer, data []byte) {
	if peer.ID == 0xFF {
		h.Disconnect(peer, protocol.DisconnectServerFull)
		return
	}
	if !peer.AllowInbound() {
		return
	}
	if len(data) < 1 {
		return
	}
	kind := envelopeKind(data[0])
	body := data[1:]

	switch kind {
	case envelopeAck:
		if len(body) < 4 {
			return
		}
		peer.ack(beUint32(body))
	case envelopeReliable:
		if len(body) < 4 {
			return
		}
		seq := beUint32(body)
		payload := body[4:]
		h.sendAck(peer, seq)
		if peer.duplicate(seq) {
			return
		}
		h.decodeAndForward(peer, payload)
	case envelopeUnsequenced:
		h.decodeAndForward(peer, body)
	}
}

func (h *Host) decodeAndForward(peer *Peer, payload []byte) {
	pkt, err := protocol.Decode(payload)
	if err != nil {
		if h.handlers.OnBadPacket != nil {
			h.handlers.OnBadPacket(peer, err)
		}
		h.Disconnect(peer, protocol.DisconnectUndefined)
		return
	}
	if h.handlers.OnPacket != nil {
		h.handlers.OnPacket(peer, pkt)
	}
}

func (h *Host) sendAck(peer *Peer, seq uint32) {
	frame := make([]byte, 5)
	frame[0] = byte(envelopeAck)
	putBeUint32(frame[1:], seq)
	h.conn.WriteToUDP(frame, peer.Addr)
}

// SendReliable frames pkt on the reliable channel and tracks it for
// retransmission until acked.
func (h *Host) SendReliable(peer *Peer, pkt protocol.Packet) {
	payload := protocol.Encode(pkt)
	seq := peer.nextSeq()
	frame := make([]byte, 5+len(payload))
	frame[0] = byte(envelopeReliable)
	putBeUint32(frame[1:5], seq)
	copy(frame[5:], payload)
	peer.track(seq, frame)
	h.conn.WriteToUDP(frame, peer.Addr)
}

// SendUnsequenced frames pkt on the unsequenced channel (WorldUpdate):
// no ack, no retransmit, latest-wins at the receiver (§4.2, §5).
func (h *Host) SendUnsequenced(peer *Peer, pkt protocol.Packet) {
	payload := protocol.Encode(pkt)
	frame := make([]byte, 1+len(payload))
	frame[0] = byte(envelopeUnsequenced)
	copy(frame[1:], payload)
	h.conn.WriteToUDP(frame, peer.Addr)
}

// BroadcastReliable sends pkt reliably to every connected peer except
// skip (pass nil to include everyone).
func (h *Host) BroadcastReliable(pkt protocol.Packet, skip *Peer) {
	for _, peer := range h.Peers() {
		if skip != nil && peer.ID == skip.ID {
			continue
		}
		h.SendReliable(peer, pkt)
	}
}

// BroadcastUnsequenced sends pkt unsequenced to every connected peer.
func (h *Host) BroadcastUnsequenced(pkt protocol.Packet) {
	for _, peer := range h.Peers() {
		h.SendUnsequenced(peer, pkt)
	}
}

// PeerByID returns the connected peer with id, or nil if none.
func (h *Host) PeerByID(id uint8) *Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byID[id]
}

// Peers returns a snapshot of currently connected peers.
func (h *Host) Peers() []*Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Peer, 0, len(h.byID))
	for _, p := range h.byID {
		out = append(out, p)
	}
	return out
}

// Disconnect removes peer from the host and releases its id back to
// the pool, notifying the handler with reason.
func (h *Host) Disconnect(peer *Peer, reason protocol.DisconnectReason) {
	h.mu.Lock()
	if _, ok := h.byID[peer.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.byID, peer.ID)
	delete(h.byAddr, peer.Addr.String())
	h.pool.Release(peer.ID)
	h.mu.Unlock()

	if h.handlers.OnDisconnect != nil {
		h.handlers.OnDisconnect(peer, reason)
	}
}

func (h *Host) maintenanceLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(retransmitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			for _, peer := range h.Peers() {
				resend, expired := peer.dueRetransmits(retransmitInterval, maxRetries)
				for _, frame := range resend {
					h.conn.WriteToUDP(frame, peer.Addr)
				}
				if len(expired) > 0 {
					h.Disconnect(peer, protocol.DisconnectUndefined)
				}
			}
		case <-h.ctx.Done():
			return
		}
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBeUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
