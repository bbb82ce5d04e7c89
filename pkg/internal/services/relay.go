package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/voiceconnect/backend/pkg/internal/models"
)

// RelayEndpoint is one connected client of the signal relay. The websocket
// gateway passes its connections in; tests pass fakes.
type RelayEndpoint interface {
	WriteMessage(messageType int, data []byte) error
}

func UserChannel(userId string) string {
	return "user:" + userId
}

func CallChannel(callId string) string {
	return "call:" + callId
}

type relayChannel struct {
	mu      sync.Mutex
	members map[RelayEndpoint]struct{}
}

func (v *relayChannel) snapshot() []RelayEndpoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]RelayEndpoint, 0, len(v.members))
	for member := range v.members {
		out = append(out, member)
	}
	return out
}

// relayConn tracks which channels an endpoint joined and serializes its
// writes. Websocket connections do not tolerate concurrent writers.
type relayConn struct {
	writeMu sync.Mutex
	joined  map[string]struct{}
}

// SignalRelay fans signaling payloads and call lifecycle notifications out
// to the endpoints currently subscribed to a channel. Delivery is best
// effort to the membership at the moment of delivery; nothing is stored,
// nothing is retried. Every write to an endpoint goes through that
// endpoint's write lock, so overlapping fan-outs never interleave on one
// connection.
type SignalRelay struct {
	mu       sync.RWMutex
	channels map[string]*relayChannel

	connMu sync.Mutex
	conns  map[RelayEndpoint]*relayConn
}

var relayValidation = validator.New()

func NewSignalRelay() *SignalRelay {
	return &SignalRelay{
		channels: make(map[string]*relayChannel),
		conns:    make(map[RelayEndpoint]*relayConn),
	}
}

// Register makes a freshly connected endpoint eligible for broadcast
// delivery before it joins any scoped channel.
func (v *SignalRelay) Register(conn RelayEndpoint) {
	v.connMu.Lock()
	defer v.connMu.Unlock()
	if _, ok := v.conns[conn]; !ok {
		v.conns[conn] = &relayConn{joined: make(map[string]struct{})}
	}
}

func (v *SignalRelay) JoinUserChannel(conn RelayEndpoint, userId string) error {
	if len(userId) == 0 {
		return fmt.Errorf("user id is required to join a user channel: %w", ErrValidation)
	}
	v.join(conn, UserChannel(userId))
	return nil
}

func (v *SignalRelay) LeaveUserChannel(conn RelayEndpoint, userId string) error {
	if len(userId) == 0 {
		return fmt.Errorf("user id is required to leave a user channel: %w", ErrValidation)
	}
	v.leave(conn, UserChannel(userId))
	return nil
}

func (v *SignalRelay) JoinCallChannel(conn RelayEndpoint, callId string) error {
	if len(callId) == 0 {
		return fmt.Errorf("call id is required to join a call channel: %w", ErrValidation)
	}
	v.join(conn, CallChannel(callId))
	return nil
}

func (v *SignalRelay) LeaveCallChannel(conn RelayEndpoint, callId string) error {
	if len(callId) == 0 {
		return fmt.Errorf("call id is required to leave a call channel: %w", ErrValidation)
	}
	v.leave(conn, CallChannel(callId))
	return nil
}

// OnDisconnect drops the endpoint from every channel it belongs to.
// Safe to call more than once for the same endpoint.
func (v *SignalRelay) OnDisconnect(conn RelayEndpoint) {
	v.connMu.Lock()
	state := v.conns[conn]
	delete(v.conns, conn)
	v.connMu.Unlock()
	if state == nil {
		return
	}

	for name := range state.joined {
		v.dropMember(conn, name)
	}
}

// SendSignal delivers a session negotiation payload to everyone on the
// target user's channel and, redundantly, to everyone on the call channel.
// One side may not have joined both yet; consumers de-duplicate if they
// need exactly-once.
func (v *SignalRelay) SendSignal(signal models.SignalMessage) error {
	if err := relayValidation.Struct(signal); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	pkt := models.WebSocketPackage{
		Action:  models.PacketSignalReceived,
		Payload: signal,
	}

	v.deliver(UserChannel(signal.ToUserID), pkt)
	v.deliver(CallChannel(signal.CallID), pkt)
	return nil
}

// NotifyCallCreated goes to every connected endpoint, since candidate
// responders have not joined any scoped channel at this point.
func (v *SignalRelay) NotifyCallCreated(request models.CallRequest) {
	v.broadcast(models.WebSocketPackage{
		Action:  models.PacketCallRequestNew,
		Payload: request,
	})
}

func (v *SignalRelay) NotifyCallResolved(request models.CallRequest) {
	v.deliver(UserChannel(request.RequesterID), models.WebSocketPackage{
		Action:  models.PacketCallRequestResolved,
		Payload: request,
	})
}

func (v *SignalRelay) EndCall(callId, endedByUserId string) error {
	if len(callId) == 0 || len(endedByUserId) == 0 {
		return fmt.Errorf("call id and user id are required to end a call: %w", ErrValidation)
	}

	v.deliver(CallChannel(callId), models.WebSocketPackage{
		Action: models.PacketCallEnded,
		Payload: map[string]any{
			"call_id":  callId,
			"ended_by": endedByUserId,
			"ended_at": time.Now(),
		},
	})
	return nil
}

// PushToUser hands an arbitrary packet to every endpoint on a user channel.
func (v *SignalRelay) PushToUser(userId string, pkt models.WebSocketPackage) {
	v.deliver(UserChannel(userId), pkt)
}

// WriteDirect sends one packet to a single endpoint through the same
// per-endpoint write lock the fan-out uses, so direct replies never race
// channel deliveries on the wire.
func (v *SignalRelay) WriteDirect(conn RelayEndpoint, pkt models.WebSocketPackage) error {
	return v.writeTo(conn, pkt.Marshal())
}

func (v *SignalRelay) getChannel(name string) *relayChannel {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.channels[name]
}

func (v *SignalRelay) join(conn RelayEndpoint, name string) {
	v.mu.Lock()
	channel, ok := v.channels[name]
	if !ok {
		channel = &relayChannel{members: make(map[RelayEndpoint]struct{})}
		v.channels[name] = channel
	}
	channel.mu.Lock()
	channel.members[conn] = struct{}{}
	channel.mu.Unlock()
	v.mu.Unlock()

	v.connMu.Lock()
	state, ok := v.conns[conn]
	if !ok {
		state = &relayConn{joined: make(map[string]struct{})}
		v.conns[conn] = state
	}
	state.joined[name] = struct{}{}
	v.connMu.Unlock()
}

func (v *SignalRelay) leave(conn RelayEndpoint, name string) {
	v.dropMember(conn, name)

	v.connMu.Lock()
	if state, ok := v.conns[conn]; ok {
		delete(state.joined, name)
	}
	v.connMu.Unlock()
}

// dropMember removes the endpoint from a channel and prunes the channel
// once its member set drains, so dead call channels do not pile up over
// the life of the process.
func (v *SignalRelay) dropMember(conn RelayEndpoint, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	channel, ok := v.channels[name]
	if !ok {
		return
	}

	channel.mu.Lock()
	delete(channel.members, conn)
	empty := len(channel.members) == 0
	channel.mu.Unlock()

	if empty {
		delete(v.channels, name)
	}
}

// writeTo funnels every write to an endpoint through its write lock.
// Endpoints that already disconnected are skipped.
func (v *SignalRelay) writeTo(conn RelayEndpoint, raw []byte) error {
	v.connMu.Lock()
	state := v.conns[conn]
	v.connMu.Unlock()
	if state == nil {
		return nil
	}

	state.writeMu.Lock()
	defer state.writeMu.Unlock()
	return conn.WriteMessage(1, raw)
}

// deliver writes to each member on its own goroutine; a slow or dead
// endpoint must not stall the rest. An empty channel is a no-op.
func (v *SignalRelay) deliver(name string, pkt models.WebSocketPackage) {
	channel := v.getChannel(name)
	if channel == nil {
		return
	}

	raw := pkt.Marshal()
	for _, member := range channel.snapshot() {
		go func(conn RelayEndpoint) {
			_ = v.writeTo(conn, raw)
		}(member)
	}
}

func (v *SignalRelay) broadcast(pkt models.WebSocketPackage) {
	v.connMu.Lock()
	targets := make([]RelayEndpoint, 0, len(v.conns))
	for conn := range v.conns {
		targets = append(targets, conn)
	}
	v.connMu.Unlock()

	raw := pkt.Marshal()
	for _, member := range targets {
		go func(conn RelayEndpoint) {
			_ = v.writeTo(conn, raw)
		}(member)
	}
}
