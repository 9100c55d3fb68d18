// Package live validates a form server-side for a browser page.
//
// A Server serves the page with a small client script. The script opens a
// WebSocket and forwards blur, input, change and submit events, tagged with
// the data-vid identifier of their target. Each connection gets a Session
// that owns its own document and validator: the event's value state is
// applied, the event is dispatched, and the resulting DOM mutations are
// sent back as patches.
//
// # Protocol
//
// Client to server:
//
//	{"type": "blur", "id": "v12", "value": "a@b"}
//
// Server to client, one message per event:
//
//	{"type": "patch", "patches": [{"op": "text", "target": "v14", "value": "This field must be an email"}]}
//
// Submit events answer with type "blocked" (with failures), "submitted"
// (with the collected data) or "native-submit". A form that no validator
// is bound to is answered with "native-submit" as well.
//
// The server pings every HeartbeatInterval and each pong extends the read
// deadline, so a page may sit idle while the user reads. When the
// connection drops anyway, the client reconnects to a fresh session,
// reverts the patches it applied and sends a "sync" event for every field
// to restore its value state.
//
// # Usage
//
//	srv, err := live.New(live.Config{
//	    Page:      page,
//	    Validator: vcfg,
//	    Metrics:   metrics.New(),
//	    Gatherer:  prometheus.DefaultGatherer,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.ListenAndServe(ctx, ":3000")
//
// Each event runs inside an OpenTelemetry span from the global tracer
// provider.
package live
