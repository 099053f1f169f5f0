// Package payments connects donation flows to the external card processor.
// An intent is created at the processor and recorded locally; a donation is
// only recorded against a recorded, unconsumed intent of the same amount.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

var (
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrMissingIntent        = errors.New("paymentIntentId is required")
	ErrUnknownIntent        = errors.New("payment intent not found")
	ErrIntentConsumed       = errors.New("payment intent already used")
	ErrAmountMismatch       = errors.New("amount does not match the payment intent")
	ErrProcessorRejected    = errors.New("payment processor rejected the request")
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
)

// Handle identifies a payment attempt at the processor.
type Handle struct {
	ID           string
	ClientSecret string
}

// Processor creates payment intents for an amount in minor units.
type Processor interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (Handle, error)
}

// releaseTimeout bounds the compensating release after a failed donation insert.
const releaseTimeout = 5 * time.Second

type Bridge struct {
	processor Processor
	payments  store.PaymentStore
	currency  string
	now       func() time.Time
}

func NewBridge(p Processor, payments store.PaymentStore, currency string) *Bridge {
	return &Bridge{processor: p, payments: payments, currency: strings.ToLower(currency), now: time.Now}
}

// IntentResult is returned to the client so it can complete the payment.
type IntentResult struct {
	ClientSecret    string              `json:"clientSecret"`
	PaymentIntentID string              `json:"paymentIntentId"`
	DBResult        models.InsertResult `json:"dbResult"`
}

// CreateIntent asks the processor for an intent and records it.
func (b *Bridge) CreateIntent(ctx context.Context, amount float64) (IntentResult, error) {
	if !validAmount(amount) {
		intentsTotal.WithLabelValues("invalid").Inc()
		return IntentResult{}, ErrInvalidAmount
	}

	h, err := b.processor.CreateIntent(ctx, models.MinorUnits(amount), b.currency)
	if err != nil {
		intentsTotal.WithLabelValues("processor_error").Inc()
		return IntentResult{}, err
	}

	rec := &models.Payment{
		Kind:            models.PaymentKindIntent,
		Amount:          amount,
		Currency:        b.currency,
		PaymentIntentID: h.ID,
		ClientSecret:    h.ClientSecret,
		CreatedAt:       b.now().UTC(),
	}
	res, err := b.payments.Insert(ctx, rec)
	if err != nil {
		intentsTotal.WithLabelValues("store_error").Inc()
		return IntentResult{}, fmt.Errorf("record intent: %w", err)
	}

	intentsTotal.WithLabelValues("created").Inc()
	return IntentResult{ClientSecret: h.ClientSecret, PaymentIntentID: h.ID, DBResult: res}, nil
}

// Donation is what the client submits after the processor confirmed payment.
type Donation struct {
	Amount          float64
	DonationID      string
	PaymentIntentID string
	PetImage        string
	PetName         string
	UserName        string
	UserEmail       string
	Date            time.Time
}

// ConfirmDonation consumes the referenced intent and records the donation.
// The intent is released again if the donation cannot be written.
func (b *Bridge) ConfirmDonation(ctx context.Context, d Donation) (res models.InsertResult, err error) {
	defer func() { donationsTotal.WithLabelValues(outcome(err)).Inc() }()

	if !validAmount(d.Amount) {
		return res, ErrInvalidAmount
	}
	handle := strings.TrimSpace(d.PaymentIntentID)
	if handle == "" {
		return res, ErrMissingIntent
	}

	intent, err := b.payments.FindIntent(ctx, handle)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return res, ErrUnknownIntent
	case err != nil:
		return res, fmt.Errorf("find intent: %w", err)
	case intent.Consumed:
		return res, ErrIntentConsumed
	case models.MinorUnits(intent.Amount) != models.MinorUnits(d.Amount):
		return res, ErrAmountMismatch
	}

	if _, err = b.payments.ConsumeIntent(ctx, handle); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return res, ErrIntentConsumed
		}
		return res, fmt.Errorf("consume intent: %w", err)
	}

	date := d.Date
	if date.IsZero() {
		date = b.now().UTC()
	}
	res, err = b.payments.Insert(ctx, &models.Payment{
		Kind:            models.PaymentKindDonation,
		Amount:          d.Amount,
		Currency:        intent.Currency,
		PaymentIntentID: handle,
		DonationID:      d.DonationID,
		PetImage:        d.PetImage,
		PetName:         d.PetName,
		UserName:        d.UserName,
		UserEmail:       d.UserEmail,
		Date:            date,
		CreatedAt:       b.now().UTC(),
	})
	if err != nil {
		// The request context may be the reason the insert failed.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		rerr := b.payments.ReleaseIntent(rctx, handle)
		cancel()
		if rerr != nil {
			log.Error().Err(rerr).Str("payment_intent", handle).Msg("release intent after failed donation insert")
		}
		return models.InsertResult{}, fmt.Errorf("record donation: %w", err)
	}
	return res, nil
}

func validAmount(a float64) bool {
	return a > 0 && !math.IsInf(a, 0) && !math.IsNaN(a) && models.MinorUnits(a) > 0
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "recorded"
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingIntent):
		return "invalid"
	case errors.Is(err, ErrUnknownIntent):
		return "unknown_intent"
	case errors.Is(err, ErrIntentConsumed):
		return "replayed"
	case errors.Is(err, ErrAmountMismatch):
		return "amount_mismatch"
	}
	return "error"
}
