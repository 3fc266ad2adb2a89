package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

// eventBuffer bounds the per-client queue between the ledger callback and the
// SSE writer. A client that cannot keep up has events dropped rather than
// stalling mutations.
const eventBuffer = 16

// events streams ledger changes as server-sent events. The first event is a
// snapshot of the current cart, then one event per mutation until the client
// disconnects.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	lg := zctx.From(r.Context())
	ch := make(chan cart.Event, eventBuffer)
	sub := h.ledger.Subscribe(func(evt cart.Event) {
		select {
		case ch <- evt:
		default:
			lg.Warn("dropping cart event, slow consumer",
				zap.String("action", string(evt.Action)),
			)
		}
	})
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeSSE(w, "snapshot", encodeEvent(cart.Event{Items: h.ledger.Items()}))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			writeSSE(w, string(evt.Action), encodeEvent(evt))
			flusher.Flush()
		}
	}
}

// writeSSE emits one event frame. The payload is a single JSON document, so
// it never contains a bare newline and needs no data-line splitting.
func writeSSE(w http.ResponseWriter, event string, data []byte) {
	_, _ = w.Write([]byte("event: " + event + "\ndata: "))
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n\n"))
}

// encodeEvent serializes a ledger event for the stream.
func encodeEvent(evt cart.Event) []byte {
	var e jx.Encoder
	e.ObjStart()
	if evt.Action != "" {
		e.FieldStart("action")
		e.Str(string(evt.Action))
	}
	if evt.Item != nil {
		e.FieldStart("item")
		cart.EncodeItem(&e, *evt.Item)
	}
	e.FieldStart("items")
	e.Raw(cart.EncodeItems(evt.Items))
	e.FieldStart("totalQuantity")
	total := 0
	for i := range evt.Items {
		total += evt.Items[i].Quantity
	}
	e.Int(total)
	e.FieldStart("subtotal")
	e.Raw([]byte(cart.SubtotalOf(evt.Items).String()))
	e.ObjEnd()
	return e.Bytes()
}
