package payment_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
	"github.com/MrJamesThe3rd/wandura/internal/payment"
	"github.com/MrJamesThe3rd/wandura/internal/transaction"
)

type balance struct {
	Earnings int64
	Wallet   int64
}

type state struct {
	bookings  map[uuid.UUID]booking.Booking
	txns      []transaction.Transaction
	balances  map[uuid.UUID]balance
	notices   []notification.Notification
	processed map[string]string
}

func (s state) clone() state {
	return state{
		bookings:  maps.Clone(s.bookings),
		txns:      slices.Clone(s.txns),
		balances:  maps.Clone(s.balances),
		notices:   slices.Clone(s.notices),
		processed: maps.Clone(s.processed),
	}
}

// memStore is an in-memory Repository. A settlement holds the store lock
// from begin to commit or rollback, which mirrors the booking row lock, and
// only committed work becomes visible.
type memStore struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	state   state
	commits int
}

func newMemStore() *memStore {
	return &memStore{state: state{
		bookings:  map[uuid.UUID]booking.Booking{},
		balances:  map[uuid.UUID]balance{},
		processed: map[string]string{},
	}}
}

func (m *memStore) snapshot() state {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.clone()
}

func (m *memStore) addBooking(b booking.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.bookings[b.ID] = b
	if _, ok := m.state.balances[b.WorkerID]; !ok {
		m.state.balances[b.WorkerID] = balance{}
	}
}

func (m *memStore) addTransaction(tx transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.txns = append(m.state.txns, tx)
}

func (m *memStore) GetBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.state.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}

	return &b, nil
}

func (m *memStore) RecordIntent(_ context.Context, bookingID uuid.UUID, ref string, entry *transaction.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.state.bookings[bookingID]
	if !ok {
		return booking.ErrNotFound
	}

	if b.PaymentStatus == booking.PaymentCompleted {
		return payment.ErrAlreadyPaid
	}

	b.PaymentRef = ref
	m.state.bookings[bookingID] = b

	entry.ID = uuid.New()
	m.state.txns = append(m.state.txns, *entry)
	m.commits++

	return nil
}

func (m *memStore) BeginSettlement(context.Context) (payment.SettlementTx, error) {
	m.txMu.Lock()

	return &memTx{store: m, staged: m.snapshot()}, nil
}

type memTx struct {
	store  *memStore
	staged state
	done   bool
}

func (t *memTx) finish(commit bool) error {
	if t.done {
		return errors.New("transaction already finished")
	}

	t.done = true

	if commit {
		t.store.mu.Lock()
		t.store.state = t.staged
		t.store.commits++
		t.store.mu.Unlock()
	}

	t.store.txMu.Unlock()

	return nil
}

func (t *memTx) Commit() error   { return t.finish(true) }
func (t *memTx) Rollback() error { return t.finish(false) }

func (t *memTx) LockBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := t.staged.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}

	return &b, nil
}

func (t *memTx) MarkEventProcessed(_ context.Context, eventID, eventType string) (bool, error) {
	if _, ok := t.staged.processed[eventID]; ok {
		return false, nil
	}

	t.staged.processed[eventID] = eventType

	return true, nil
}

func (t *memTx) SetPaymentStatus(_ context.Context, id uuid.UUID, status booking.PaymentStatus, ref string) error {
	b := t.staged.bookings[id]
	b.PaymentStatus = status
	b.PaymentRef = ref
	t.staged.bookings[id] = b

	return nil
}

func (t *memTx) UpdatePaymentTransaction(_ context.Context, ref string, status transaction.Status) (int64, error) {
	var n int64

	for i, tx := range t.staged.txns {
		if tx.ExternalRef == ref && tx.Type == transaction.TypeBookingPayment && tx.Status != transaction.StatusCompleted {
			t.staged.txns[i].Status = status
			n++
		}
	}

	return n, nil
}

func (t *memTx) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	tx.ID = uuid.New()
	t.staged.txns = append(t.staged.txns, *tx)

	return nil
}

func (t *memTx) CreditWorker(_ context.Context, workerID uuid.UUID, earning int64) error {
	bal, ok := t.staged.balances[workerID]
	if !ok {
		return fmt.Errorf("no worker profile for %s", workerID)
	}

	bal.Earnings += earning
	bal.Wallet += earning
	t.staged.balances[workerID] = bal

	return nil
}

func (t *memTx) CreateNotification(_ context.Context, n *notification.Notification) error {
	t.staged.notices = append(t.staged.notices, *n)
	return nil
}

// fakeGateway accepts a payload only when the signature names an event it
// was primed with.
type fakeGateway struct {
	mu      sync.Mutex
	events  map[string]*payment.Event
	intents map[string]*payment.Intent
	created []payment.IntentParams
	block   bool
	// onCreate runs before an intent is returned, standing in for work that
	// happens while the gateway call is in flight.
	onCreate func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{events: map[string]*payment.Event{}, intents: map[string]*payment.Intent{}}
}

func (g *fakeGateway) prime(signature string, ev *payment.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.events[signature] = ev
}

func (g *fakeGateway) CreateIntent(_ context.Context, p payment.IntentParams) (*payment.Intent, error) {
	if g.onCreate != nil {
		g.onCreate()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.created = append(g.created, p)
	intent := &payment.Intent{ID: "pi_" + p.BookingID.String()[:8], ClientSecret: "secret", Amount: p.Amount}
	g.intents[intent.ID] = intent

	return intent, nil
}

func (g *fakeGateway) GetIntent(ctx context.Context, id string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", id)
	}

	return intent, nil
}

func (g *fakeGateway) ParseEvent(ctx context.Context, _ []byte, signature string) (*payment.Event, error) {
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ev, ok := g.events[signature]
	if !ok {
		return nil, errors.New("no signatures found matching the expected signature for payload")
	}

	cp := *ev

	return &cp, nil
}
