package http

import (
	"encoding/json"
	"strings"

	"github.com/sohbetapp/sohbet-server/internal/core"
	"github.com/sohbetapp/sohbet-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. fallbackName is
// the authenticated username, used when a join omits the display identity.
// A non-nil proto.Error is sent back to the client without touching the
// core; a non-nil error tears down the connection.
func inboundToCommand(inbound proto.Inbound, fallbackName string) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return nil, nil, err
			}
		}
		name := strings.TrimSpace(join.User)
		if name == "" {
			name = fallbackName
		}
		return &core.Command{
			Kind: core.CommandJoin,
			Name: name,
		}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		// Blank messages are filtered here; the core relays whatever the
		// boundary lets through.
		if strings.TrimSpace(msg.Text) == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "text is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Text: msg.Text,
		}, nil, nil
	case proto.InboundTypeLogout:
		var logout proto.LogoutData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &logout); err != nil {
				return nil, nil, err
			}
		}
		return &core.Command{
			Kind: core.CommandLogout,
			Name: strings.TrimSpace(logout.User),
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  messageToWire(event.Message),
		}
	case core.EventSystem:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameSystem,
			Data: proto.EventSystem{
				Text:   event.Text,
				TS:     event.At.Unix(),
				System: true,
			},
		}
	case core.EventHistory:
		messages := make([]proto.EventMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageToWire(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameHistory,
			Data:  proto.EventHistory{Messages: messages},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func messageToWire(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		ID:   msg.ID,
		User: msg.From,
		Text: msg.Text,
		TS:   msg.CreatedAt.Unix(),
	}
}
