package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTransactor struct{}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ledger keeps profiles and transactions together so the fakes agree on balances.
type ledger struct {
	profiles     map[string]profile.Profile
	transactions []wallet.Transaction
	resets       int
}

type fakeProfileRepo struct {
	profile.ProfileRepository
	*ledger
}

func (f fakeProfileRepo) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f fakeProfileRepo) GetByIDForUpdate(ctx context.Context, id string) (profile.Profile, error) {
	return f.GetByID(ctx, id)
}

func (f fakeProfileRepo) ListByRole(_ context.Context, role profile.Role) ([]profile.Profile, error) {
	var out []profile.Profile
	for _, p := range f.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeProfileRepo) IncrementWalletBalance(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	p := f.profiles[id]
	p.WalletBalance = p.WalletBalance.Add(delta)
	f.profiles[id] = p
	return p.WalletBalance, nil
}

func (f fakeProfileRepo) ResetWalletBalanceToLedger(_ context.Context, id string) (decimal.Decimal, error) {
	p := f.profiles[id]
	p.WalletBalance = f.sum(id)
	f.profiles[id] = p
	f.resets++
	return p.WalletBalance, nil
}

func (l *ledger) sum(userID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.transactions {
		if t.UserID == userID {
			total = total.Add(t.Signed())
		}
	}
	return total
}

type fakeTransactionRepo struct {
	*ledger
}

func (f fakeTransactionRepo) Create(_ context.Context, t wallet.Transaction) (wallet.Transaction, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Date(2024, time.June, 3, 6, 0, 0, 0, time.UTC)
	f.transactions = append(f.transactions, t)
	return t, nil
}

func (f fakeTransactionRepo) ListByUser(_ context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	var out []wallet.Transaction
	for i := len(f.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if f.transactions[i].UserID == userID {
			out = append(out, f.transactions[i])
		}
	}
	return out, nil
}

func (f fakeTransactionRepo) LedgerBalance(_ context.Context, userID string) (decimal.Decimal, error) {
	return f.sum(userID), nil
}

type fixture struct {
	svc          wallet.WalletService
	ledger       *ledger
	adminID      string
	freelancerID string
	employeeID   string
}

// setup gives the freelancer two credits of 1500 and 500 with a matching cached balance.
func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		adminID:      uuid.NewString(),
		freelancerID: uuid.NewString(),
		employeeID:   uuid.NewString(),
	}
	f.ledger = &ledger{
		profiles: map[string]profile.Profile{
			f.adminID:      {ID: f.adminID, Role: profile.RoleAdmin},
			f.employeeID:   {ID: f.employeeID, Role: profile.RoleEmployee},
			f.freelancerID: {ID: f.freelancerID, Role: profile.RoleFreelancer, FullName: "Mira", WalletBalance: decimal.NewFromInt(2000)},
		},
		transactions: []wallet.Transaction{
			{ID: "t1", UserID: f.freelancerID, Type: wallet.TransactionCredit, Amount: decimal.NewFromInt(1500)},
			{ID: "t2", UserID: f.freelancerID, Type: wallet.TransactionCredit, Amount: decimal.NewFromInt(500)},
		},
	}
	clk := clock.NewBusinessIn(clock.Fixed(time.Date(2024, time.June, 3, 6, 0, 0, 0, time.UTC)), time.UTC)
	f.svc = NewWalletService(noopTransactor{}, fakeProfileRepo{ledger: f.ledger}, fakeTransactionRepo{ledger: f.ledger}, clk)
	return f
}

func ctxAs(t *testing.T, userID string, role profile.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestGetMyWallet(t *testing.T) {
	f := setup(t)

	w, err := f.svc.GetMyWallet(ctxAs(t, f.freelancerID, profile.RoleFreelancer))
	require.NoError(t, err)

	assert.Equal(t, "2000", w.Balance.String())
	assert.False(t, w.Reconciled)
	require.Len(t, w.Transactions, 2)
	assert.Equal(t, "t2", w.Transactions[0].ID, "newest first")
	assert.Zero(t, f.ledger.resets)
}

func TestGetWallet_ReconcilesDrift(t *testing.T) {
	f := setup(t)
	p := f.ledger.profiles[f.freelancerID]
	p.WalletBalance = decimal.NewFromInt(2500)
	f.ledger.profiles[f.freelancerID] = p

	w, err := f.svc.GetWallet(ctxAs(t, f.adminID, profile.RoleAdmin), f.freelancerID)
	require.NoError(t, err)

	assert.True(t, w.Reconciled)
	assert.Equal(t, "2000", w.Balance.String())
	assert.Equal(t, "2000", f.ledger.profiles[f.freelancerID].WalletBalance.String())
	assert.Equal(t, 1, f.ledger.resets)
}

func TestGetWallet_Errors(t *testing.T) {
	f := setup(t)
	admin := ctxAs(t, f.adminID, profile.RoleAdmin)

	_, err := f.svc.GetWallet(admin, f.employeeID)
	assert.ErrorIs(t, err, profile.ErrNotAFreelancer)

	_, err = f.svc.GetWallet(admin, uuid.NewString())
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	_, err = f.svc.GetWallet(admin, "not-a-uuid")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestPayout(t *testing.T) {
	f := setup(t)
	admin := ctxAs(t, f.adminID, profile.RoleAdmin)

	debit, err := f.svc.Payout(admin, wallet.PayoutRequest{UserID: f.freelancerID, Amount: decimal.NewFromInt(1200)})
	require.NoError(t, err)
	assert.Equal(t, wallet.TransactionDebit, debit.Type)
	assert.Equal(t, "Payout", debit.Description)
	assert.Equal(t, "800", f.ledger.profiles[f.freelancerID].WalletBalance.String())
	assert.Equal(t, "800", f.ledger.sum(f.freelancerID).String())

	_, err = f.svc.Payout(admin, wallet.PayoutRequest{UserID: f.freelancerID, Amount: decimal.NewFromInt(801)})
	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	_, err = f.svc.Payout(admin, wallet.PayoutRequest{UserID: f.freelancerID, Amount: decimal.NewFromInt(800)})
	require.NoError(t, err)
	assert.True(t, f.ledger.profiles[f.freelancerID].WalletBalance.IsZero())
}

func TestPayout_Rejects(t *testing.T) {
	f := setup(t)
	admin := ctxAs(t, f.adminID, profile.RoleAdmin)

	_, err := f.svc.Payout(admin, wallet.PayoutRequest{UserID: f.freelancerID, Amount: decimal.Zero})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "amount")

	_, err = f.svc.Payout(admin, wallet.PayoutRequest{UserID: f.employeeID, Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, profile.ErrNotAFreelancer)
}

func TestReconcileAll(t *testing.T) {
	f := setup(t)
	other := uuid.NewString()
	f.ledger.profiles[other] = profile.Profile{ID: other, Role: profile.RoleFreelancer, WalletBalance: decimal.NewFromInt(75)}

	corrected, err := f.svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
	assert.True(t, f.ledger.profiles[other].WalletBalance.IsZero())

	corrected, err = f.svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, corrected)
}
