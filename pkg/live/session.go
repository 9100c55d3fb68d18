package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/formvalidator/internal/errors"
	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

// clientEvents are the event types a client may send.
var clientEvents = map[string]bool{
	dom.EventBlur:   true,
	dom.EventFocus:  true,
	dom.EventInput:  true,
	dom.EventChange: true,
	dom.EventSubmit: true,
	dom.EventReset:  true,
	dom.EventClick:  true,
	EventSync:       true,
}

// eventLabel is the event type used in span names and metric labels.
// Unsupported types collapse into one value.
func eventLabel(eventType string) string {
	if clientEvents[eventType] {
		return eventType
	}
	return "unknown"
}

// Session is one connected page. It owns a document and a validator and
// handles the events of its connection one at a time.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	doc    *dom.Document
	v      *validator.Validator
	logger *slog.Logger

	// result is the outcome of a submit that ran during the current event.
	result *validator.Result
}

// generateSessionID generates a random session ID.
func generateSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession builds the document and validator of a connection. conn may
// be nil for sessions driven in process.
func (srv *Server) newSession(conn *websocket.Conn) (*Session, error) {
	id := generateSessionID()
	logger := srv.logger.With("session_id", id)

	doc, err := dom.ParseString(srv.markup, dom.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	doc.AssignIDs()

	s := &Session{
		ID:     id,
		server: srv,
		conn:   conn,
		doc:    doc,
		logger: logger,
	}

	s.v, err = validator.New(doc, srv.cfg.Validator,
		validator.WithLogger(logger),
		validator.WithObserver(s),
	)
	if err != nil {
		return nil, err
	}
	doc.TakeMutations()

	return s, nil
}

// FieldValidated implements validator.Observer.
func (s *Session) FieldValidated(selector string, ok bool) {
	if m := s.server.metrics; m != nil {
		m.FieldValidated(selector, ok)
	}
}

// SubmitFinished implements validator.Observer.
func (s *Session) SubmitFinished(res validator.Result) {
	s.result = &res
	if m := s.server.metrics; m != nil {
		m.SubmitFinished(res)
	}
}

// Document returns the session's document.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// ReadLoop reads client events until the connection closes, answering
// each with one ServerMessage.
func (s *Session) ReadLoop(ctx context.Context) {
	cfg := s.server.cfg
	s.conn.SetReadLimit(cfg.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go s.heartbeat(done)

	for {
		s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.server.recordWebSocketError("read")
			}
			return
		}

		var ev ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			fe := errors.New("E161").Wrap(err)
			s.logger.Warn("malformed client message", "error", err)
			s.server.recordWebSocketError("decode")
			if err := s.send(ServerMessage{Type: MessageError, Patches: []Patch{}, Error: fe.Error()}); err != nil {
				return
			}
			continue
		}

		if err := s.send(s.Handle(ctx, ev)); err != nil {
			return
		}
	}
}

// heartbeat pings the client every HeartbeatInterval until done is closed.
// Pongs extend the read deadline, so a page left idle keeps its session.
func (s *Session) heartbeat(done <-chan struct{}) {
	ticker := time.NewTicker(s.server.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// sendPing sends a heartbeat ping. WriteControl may run concurrently with
// the replies written by ReadLoop.
func (s *Session) sendPing() error {
	deadline := time.Now().Add(s.server.cfg.WriteTimeout)
	if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
		s.logger.Debug("ping error", "error", err)
		s.server.recordWebSocketError("ping")
		return err
	}
	return nil
}

func (s *Session) send(msg ServerMessage) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.server.cfg.WriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Error("write error", "error", err)
		s.server.recordWebSocketError("write")
		return err
	}
	return nil
}

// Handle applies ev to the session's document and returns the reply.
func (s *Session) Handle(ctx context.Context, ev ClientEvent) ServerMessage {
	start := time.Now()
	label := eventLabel(ev.Type)

	_, span := s.server.tracer.Start(ctx,
		"formvalidator."+label,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("formvalidator.session_id", s.ID),
			attribute.String("formvalidator.event_type", label),
			attribute.String("formvalidator.event_target", ev.ID),
		),
	)
	defer span.End()

	msg, err := s.apply(ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("event rejected", "type", ev.Type, "id", ev.ID, "error", err)
		msg = ServerMessage{Type: MessageError, Patches: []Patch{}, Error: err.Error()}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Int("formvalidator.patch_count", len(msg.Patches)))

	if m := s.server.metrics; m != nil {
		m.RecordEvent(label, time.Since(start), err)
		m.RecordPatches(len(msg.Patches))
	}
	return msg
}

func (s *Session) apply(ev ClientEvent) (ServerMessage, error) {
	if !clientEvents[ev.Type] {
		return ServerMessage{}, errors.New("E161").
			WithDetail(fmt.Sprintf("Event type %q is not supported", ev.Type))
	}
	el := s.doc.ByID(ev.ID)
	if el == nil {
		return ServerMessage{}, errors.New("E162").
			WithDetail(fmt.Sprintf("No element with %s=%q", dom.IDAttr, ev.ID))
	}

	if ev.Value != nil {
		el.SetValue(*ev.Value)
	}
	if ev.Checked != nil {
		el.SetChecked(*ev.Checked)
	}
	if ev.Files != nil {
		el.SetFiles(ev.Files)
	}

	s.result = nil
	native := false
	switch ev.Type {
	case EventSync:
		// State only.
	case dom.EventSubmit:
		// Nothing prevented the submission: no validator is bound to the form.
		native = el.RequestSubmit() && s.result == nil
	default:
		el.Dispatch(dom.NewEvent(ev.Type))
	}

	msg := ServerMessage{Type: MessagePatch, Patches: patches(s.doc.TakeMutations())}
	if native {
		msg.Type = MessageNativeSubmit
		msg.Data = validator.Collect(el.Form())
	}
	if res := s.result; res != nil {
		switch {
		case !res.Valid:
			msg.Type = MessageBlocked
			msg.Failures = res.Failures
		case res.NativeSubmitted:
			msg.Type = MessageNativeSubmit
			msg.Data = res.Data
		default:
			msg.Type = MessageSubmitted
			msg.Data = res.Data
		}
		s.result = nil
	}
	return msg, nil
}
