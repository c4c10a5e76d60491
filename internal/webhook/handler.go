package webhook

import (
	"net/http"

	"oakmart-be/internal/logger"

	"go.uber.org/zap"
)

// Handler is the inbound notification endpoint. It always answers 200 so
// the provider never retries: a notification that failed verification will
// fail it again on redelivery, and processing errors are recovered from
// the provider's transaction log, not from retries.
type Handler struct {
	verifier   *Verifier
	dispatcher *Dispatcher
}

func NewHandler(verifier *Verifier, dispatcher *Dispatcher) *Handler {
	return &Handler{verifier: verifier, dispatcher: dispatcher}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	event, err := h.verifier.Verify(r)
	if err != nil {
		log.Warn("webhook rejected", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		log.Error("webhook processing failed",
			zap.String("event", event.Event),
			zap.Error(err),
		)
	}

	w.WriteHeader(http.StatusOK)
}
