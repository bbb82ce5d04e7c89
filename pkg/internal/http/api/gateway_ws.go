package api

import (
	"github.com/gofiber/contrib/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func gateway(c *websocket.Conn) {
	user := c.Locals("user").(models.Account)

	// Eligible for broadcasts right away, scoped channels are joined
	// explicitly by the client.
	services.Relay.Register(c)
	defer services.Relay.OnDisconnect(c)

	var pkt models.WebSocketPackage

	var packet []byte
	var err error

	for {
		if _, packet, err = c.ReadMessage(); err != nil {
			break
		} else if err := jsoniter.Unmarshal(packet, &pkt); err != nil {
			// Replies go through the relay's per-endpoint write lock so
			// they never race a concurrent fan-out on this connection.
			_ = services.Relay.WriteDirect(c, models.WebSocketPackage{
				Action:  "error",
				Message: "unable to unmarshal your command, requires json request",
			})
			continue
		}

		reply := dealGatewayCommand(c, pkt, user)

		if reply != nil {
			if err = services.Relay.WriteDirect(c, *reply); err != nil {
				break
			}
		}
	}
}

func dealGatewayCommand(conn *websocket.Conn, pkt models.WebSocketPackage, user models.Account) *models.WebSocketPackage {
	switch pkt.Action {
	case "channels.join.user":
		var req struct {
			UserID string `json:"user_id"`
		}
		models.FitStruct(pkt.Payload, &req)
		if len(req.UserID) == 0 {
			req.UserID = user.ID
		}
		if err := services.Relay.JoinUserChannel(conn, req.UserID); err != nil {
			return lo.ToPtr(models.WebSocketPackageFromError(err))
		}
	case "channels.leave.user":
		var req struct {
			UserID string `json:"user_id"`
		}
		models.FitStruct(pkt.Payload, &req)
		if len(req.UserID) == 0 {
			req.UserID = user.ID
		}
		if err := services.Relay.LeaveUserChannel(conn, req.UserID); err != nil {
			return lo.ToPtr(models.WebSocketPackageFromError(err))
		}
	case "channels.join.call":
		var req struct {
			CallID string `json:"call_id"`
		}
		models.FitStruct(pkt.Payload, &req)
		if err := services.Relay.JoinCallChannel(conn, req.CallID); err != nil {
			return lo.ToPtr(models.WebSocketPackageFromError(err))
		}
	case "channels.leave.call":
		var req struct {
			CallID string `json:"call_id"`
		}
		models.FitStruct(pkt.Payload, &req)
		if err := services.Relay.LeaveCallChannel(conn, req.CallID); err != nil {
			return lo.ToPtr(models.WebSocketPackageFromError(err))
		}
	case "signal.send":
		var signal models.SignalMessage
		models.FitStruct(pkt.Payload, &signal)
		signal.FromUserID = user.ID
		if err := services.Relay.SendSignal(signal); err != nil {
			return lo.ToPtr(models.WebSocketPackageFromError(err))
		}
	case "calls.end":
		var req struct {
			CallID string `json:"call_id"`
		}
		models.FitStruct(pkt.Payload, &req)
		if err := services.Relay.EndCall(req.CallID, user.ID); err != nil {
			return lo.ToPtr(models.WebSocketPackageFromError(err))
		}
	default:
		return &models.WebSocketPackage{
			Action:  "error",
			Message: "command not found",
		}
	}

	return nil
}
