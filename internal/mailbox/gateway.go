// Package mailbox receives notification emails from external mail
// infrastructure and hands each one to the extraction pipeline.
package mailbox

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/cardwatch/backend/internal/logger"
)

// EmailFunc is invoked once per delivered email with the raw message
// text. A non-nil error marks the delivery as undeliverable; deliveries
// are never retried.
type EmailFunc func(ctx context.Context, mailbox, emailText string) error

// Gateway connects named mailboxes to an email callback. Implementations
// decide how mail arrives (webhook push, polling, pipe).
type Gateway interface {
	Connect(mailbox string, onEmail EmailFunc) error
}

// WebhookGateway accepts emails pushed over HTTP. Each connected mailbox
// is addressable at POST /mail/{mailbox} with the raw message as the
// request body.
type WebhookGateway struct {
	mu        sync.RWMutex
	mailboxes map[string]EmailFunc
	maxBytes  int64
}

// NewWebhookGateway creates a WebhookGateway with the given per-message
// size limit in bytes.
func NewWebhookGateway(maxBytes int64) *WebhookGateway {
	return &WebhookGateway{
		mailboxes: make(map[string]EmailFunc),
		maxBytes:  maxBytes,
	}
}

// Connect registers a mailbox. Reconnecting an existing mailbox replaces
// its callback.
func (g *WebhookGateway) Connect(mailbox string, onEmail EmailFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mailboxes[mailbox] = onEmail
	return nil
}

// ServeHTTP delivers one email to the mailbox named in the URL. An
// extraction failure answers 422 so the sender can route the message to
// manual review.
func (g *WebhookGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "mailbox")

	g.mu.RLock()
	onEmail, ok := g.mailboxes[name]
	g.mu.RUnlock()
	if !ok {
		http.Error(w, "unknown mailbox", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, g.maxBytes))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	}

	ctx := logger.WithMailbox(r.Context(), name)
	if err := onEmail(ctx, name, string(body)); err != nil {
		logger.FromContext(ctx).Warn("email delivery not processed", "mailbox", name, "error", err.Error())
		http.Error(w, "message could not be processed", http.StatusUnprocessableEntity)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
