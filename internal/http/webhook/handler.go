package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/levy/internal/gateway"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
	"github.com/MrJamesThe3rd/levy/internal/payment"
)

const maxBody = 1 << 20

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=webhook
type Payments interface {
	GetByRRR(ctx context.Context, rrr string) (*payment.Payment, error)
	GatewayConfirm(ctx context.Context, reference string, reported decimal.Decimal) (*payment.Payment, error)
	Fail(ctx context.Context, reference, reason string) (*payment.Payment, error)
	Flag(ctx context.Context, reference, note string) (*payment.Payment, error)
}

// Handler receives gateway callbacks. Deliveries are acknowledged once the
// outcome is recorded, including outcomes the payment rejects, so providers
// only retry on internal failures.
type Handler struct {
	payments       Payments
	paystackSecret string
}

func NewHandler(payments Payments, paystackSecret string) *Handler {
	return &Handler{payments: payments, paystackSecret: paystackSecret}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/paystack", h.paystack)
	r.Post("/remita", h.remita)
}

func (h *Handler) paystack(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		api.Error(w, api.BadRequest("reading body: %v", err))
		return
	}

	if !gateway.VerifyPaystackSignature(h.paystackSecret, body, r.Header.Get(gateway.SignatureHeader)) {
		api.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	var ev gateway.PaystackEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		api.Error(w, api.BadRequest("invalid event: %v", err))
		return
	}

	if ev.Data.Reference == "" {
		api.Error(w, api.BadRequest("event has no reference"))
		return
	}

	switch ev.Event {
	case "charge.success":
		_, err = h.payments.GatewayConfirm(r.Context(), ev.Data.Reference, ev.Amount())
	case "charge.failed":
		_, err = h.payments.Fail(r.Context(), ev.Data.Reference, "paystack: "+ev.Data.Status)
	default:
		slog.Info("ignoring paystack event", "event", ev.Event, "reference", ev.Data.Reference)
	}

	h.acknowledge(w, "paystack", ev.Data.Reference, err)
}

func (h *Handler) remita(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		api.Error(w, api.BadRequest("reading body: %v", err))
		return
	}

	notifications, err := decodeRemita(body)
	if err != nil {
		api.Error(w, api.BadRequest("invalid notification: %v", err))
		return
	}

	for _, n := range notifications {
		reference, err := h.remitaReference(r.Context(), n)
		if err == nil {
			err = h.applyRemita(r.Context(), reference, n)
		}

		if !h.tolerable(err) {
			h.acknowledge(w, "remita", n.RRR, err)
			return
		}

		if err != nil {
			slog.Warn("remita notification not applied", "rrr", n.RRR, "error", err)
		}
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Remita posts either a single notification or an array of them.
func decodeRemita(body []byte) ([]gateway.RemitaNotification, error) {
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '[' {
		var ns []gateway.RemitaNotification
		if err := json.Unmarshal(body, &ns); err != nil {
			return nil, err
		}

		return ns, nil
	}

	var n gateway.RemitaNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, err
	}

	return []gateway.RemitaNotification{n}, nil
}

func (h *Handler) remitaReference(ctx context.Context, n gateway.RemitaNotification) (string, error) {
	if n.RRR != "" {
		p, err := h.payments.GetByRRR(ctx, n.RRR)
		if err == nil {
			return p.Reference, nil
		}

		if !errors.Is(err, payment.ErrNotFound) {
			return "", err
		}
	}

	for _, ref := range []string{n.OrderRef, n.TransactionRef} {
		if ref != "" {
			return ref, nil
		}
	}

	return "", fmt.Errorf("%w: notification carries no reference", payment.ErrNotFound)
}

func (h *Handler) applyRemita(ctx context.Context, reference string, n gateway.RemitaNotification) error {
	switch n.Outcome() {
	case gateway.StatusSuccess:
		amount, err := n.ParsedAmount()
		if err != nil {
			_, err = h.payments.Flag(ctx, reference, fmt.Sprintf("remita reported unreadable amount %q", n.Amount))
			return err
		}

		_, err = h.payments.GatewayConfirm(ctx, reference, amount)

		return err
	case gateway.StatusFailed:
		_, err := h.payments.Fail(ctx, reference, fmt.Sprintf("remita: %s %s", n.Status, n.ResponseCode))
		return err
	case gateway.StatusPending:
		return nil
	default:
		_, err := h.payments.Flag(ctx, reference, fmt.Sprintf("unrecognised remita status %q code %q", n.Status, n.ResponseCode))
		return err
	}
}

// tolerable reports whether err is an outcome the payment itself settled,
// which the provider must not retry.
func (h *Handler) tolerable(err error) bool {
	return err == nil ||
		errors.Is(err, payment.ErrNotFound) ||
		errors.Is(err, payment.ErrAmountMismatch) ||
		errors.Is(err, payment.ErrInvalidTransition)
}

func (h *Handler) acknowledge(w http.ResponseWriter, provider, reference string, err error) {
	if !h.tolerable(err) {
		slog.Error("webhook processing failed", "provider", provider, "reference", reference, "error", err)
		api.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})

		return
	}

	if err != nil {
		slog.Warn("webhook not applied", "provider", provider, "reference", reference, "error", err)
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
