package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/store/memory"
)

type fakeProcessor struct {
	calls    int
	amounts  []int64
	currency string
	err      error
}

func (f *fakeProcessor) CreateIntent(_ context.Context, amountMinor int64, currency string) (Handle, error) {
	f.calls++
	if f.err != nil {
		return Handle{}, f.err
	}
	f.amounts = append(f.amounts, amountMinor)
	f.currency = currency
	id := fmt.Sprintf("pi_%d", f.calls)
	return Handle{ID: id, ClientSecret: id + "_secret"}, nil
}

// failingInsert fails donation inserts but lets intent records through.
type failingInsert struct {
	store.PaymentStore
}

func (f failingInsert) Insert(ctx context.Context, p *models.Payment) (models.InsertResult, error) {
	if p.Kind == models.PaymentKindDonation {
		return models.InsertResult{}, errors.New("disk full")
	}
	return f.PaymentStore.Insert(ctx, p)
}

// releaseRecorder keeps the context each release ran under.
type releaseRecorder struct {
	failingInsert
	deadlines []time.Time
}

func (r *releaseRecorder) ReleaseIntent(ctx context.Context, id string) error {
	dl, ok := ctx.Deadline()
	if !ok {
		return errors.New("release without deadline")
	}
	r.deadlines = append(r.deadlines, dl)
	return r.failingInsert.ReleaseIntent(ctx, id)
}

func newBridge(t *testing.T) (*Bridge, *fakeProcessor, store.PaymentStore) {
	t.Helper()
	proc := &fakeProcessor{}
	ps := memory.New().Payments
	return NewBridge(proc, ps, "USD"), proc, ps
}

func TestCreateIntent(t *testing.T) {
	b, proc, ps := newBridge(t)
	ctx := context.Background()

	res, err := b.CreateIntent(ctx, 12.34)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", res.ClientSecret)
	assert.Equal(t, "pi_1", res.PaymentIntentID)
	assert.True(t, res.DBResult.Acknowledged)
	assert.Equal(t, []int64{1234}, proc.amounts)
	assert.Equal(t, "usd", proc.currency)

	rec, err := ps.FindIntent(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, 12.34, rec.Amount)
	assert.False(t, rec.Consumed)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestCreateIntent_Errors(t *testing.T) {
	b, proc, _ := newBridge(t)
	ctx := context.Background()

	for _, amount := range []float64{0, -5, 0.001} {
		_, err := b.CreateIntent(ctx, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "%v", amount)
	}
	assert.Zero(t, proc.calls)

	proc.err = fmt.Errorf("%w: timeout", ErrProcessorUnavailable)
	_, err := b.CreateIntent(ctx, 10)
	assert.ErrorIs(t, err, ErrProcessorUnavailable)
}

func TestConfirmDonation(t *testing.T) {
	b, _, ps := newBridge(t)
	ctx := context.Background()

	intent, err := b.CreateIntent(ctx, 25)
	require.NoError(t, err)

	d := Donation{
		Amount:          25,
		DonationID:      "665f1c2e9b1d4c3a2f0e1a11",
		PaymentIntentID: intent.PaymentIntentID,
		UserEmail:       "donor@example.com",
		UserName:        "Donor",
	}
	res, err := b.ConfirmDonation(ctx, d)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	list, err := ps.ListDonations(ctx, store.PaymentQuery{UserEmail: "donor@example.com"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 25.0, list[0].Amount)
	assert.Equal(t, intent.PaymentIntentID, list[0].PaymentIntentID)
	assert.False(t, list[0].Date.IsZero())

	_, err = b.ConfirmDonation(ctx, d)
	assert.ErrorIs(t, err, ErrIntentConsumed)
}

func TestConfirmDonation_Rejections(t *testing.T) {
	b, _, ps := newBridge(t)
	ctx := context.Background()

	intent, err := b.CreateIntent(ctx, 25)
	require.NoError(t, err)

	cases := map[string]struct {
		d    Donation
		want error
	}{
		"no amount":      {Donation{PaymentIntentID: intent.PaymentIntentID}, ErrInvalidAmount},
		"no intent":      {Donation{Amount: 25}, ErrMissingIntent},
		"unknown intent": {Donation{Amount: 25, PaymentIntentID: "pi_nope"}, ErrUnknownIntent},
		"wrong amount":   {Donation{Amount: 250, PaymentIntentID: intent.PaymentIntentID}, ErrAmountMismatch},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := b.ConfirmDonation(ctx, tc.d)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	list, err := ps.ListDonations(ctx, store.PaymentQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)

	rec, err := ps.FindIntent(ctx, intent.PaymentIntentID)
	require.NoError(t, err)
	assert.False(t, rec.Consumed)
}

func TestConfirmDonation_ReleasesIntentOnInsertFailure(t *testing.T) {
	ps := failingInsert{memory.New().Payments}
	b := NewBridge(&fakeProcessor{}, ps, "usd")
	ctx := context.Background()

	intent, err := b.CreateIntent(ctx, 5)
	require.NoError(t, err)

	_, err = b.ConfirmDonation(ctx, Donation{Amount: 5, PaymentIntentID: intent.PaymentIntentID})
	require.Error(t, err)

	rec, err := ps.FindIntent(ctx, intent.PaymentIntentID)
	require.NoError(t, err)
	assert.False(t, rec.Consumed)
}

func TestConfirmDonation_ReleaseIsBoundedAfterCancel(t *testing.T) {
	ps := &releaseRecorder{failingInsert: failingInsert{memory.New().Payments}}
	b := NewBridge(&fakeProcessor{}, ps, "usd")

	intent, err := b.CreateIntent(context.Background(), 5)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	_, err = b.ConfirmDonation(ctx, Donation{Amount: 5, PaymentIntentID: intent.PaymentIntentID})
	require.Error(t, err)

	require.Len(t, ps.deadlines, 1)
	assert.WithinDuration(t, start.Add(releaseTimeout), ps.deadlines[0], time.Second)

	rec, err := ps.FindIntent(context.Background(), intent.PaymentIntentID)
	require.NoError(t, err)
	assert.False(t, rec.Consumed)
}

func TestStripeProcessor_Unconfigured(t *testing.T) {
	_, err := NewStripeProcessor("").CreateIntent(context.Background(), 100, "usd")
	assert.ErrorIs(t, err, ErrProcessorUnavailable)
}
