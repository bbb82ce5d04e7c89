package models

import jsoniter "github.com/json-iterator/go"

// Actions pushed to connected clients.
const (
	PacketCallRequestNew      = "calls.request.new"
	PacketCallRequestResolved = "calls.request.resolved"
	PacketSignalReceived      = "signal.received"
	PacketCallEnded           = "calls.ended"
	PacketMessageNew          = "messages.new"
)

type WebSocketPackage struct {
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

func (v WebSocketPackage) Marshal() []byte {
	data, _ := jsoniter.Marshal(v)
	return data
}

func WebSocketPackageFromError(err error) WebSocketPackage {
	return WebSocketPackage{
		Action:  "error",
		Message: err.Error(),
	}
}

type SignalKind = string

const (
	SignalKindOffer     = SignalKind("offer")
	SignalKindAnswer    = SignalKind("answer")
	SignalKindCandidate = SignalKind("ice-candidate")
)

// SignalMessage is a session negotiation payload relayed verbatim between
// two endpoints. It is never persisted.
type SignalMessage struct {
	CallID     string     `json:"call_id" validate:"required"`
	FromUserID string     `json:"from_user_id" validate:"required"`
	ToUserID   string     `json:"to_user_id" validate:"required"`
	Kind       SignalKind `json:"kind" validate:"required,oneof=offer answer ice-candidate"`
	Payload    any        `json:"payload"`
}

func FitStruct(src any, out any) {
	raw, _ := jsoniter.Marshal(src)
	_ = jsoniter.Unmarshal(raw, out)
}
