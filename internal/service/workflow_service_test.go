package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==========================
// Fakes
// ==========================

type fakeContracts struct {
	byID    map[uint]*models.Contract
	nextID  uint
	deleted []uint
}

func newFakeContracts() *fakeContracts {
	return &fakeContracts{byID: map[uint]*models.Contract{}, nextID: 1}
}

func (f *fakeContracts) Create(c *models.Contract) error {
	c.ID = f.nextID
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeContracts) GetByID(id uint) (*models.Contract, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeContracts) Save(c *models.Contract) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeContracts) Delete(id uint) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeContracts) NextContractNumber(now time.Time) (string, error) {
	return fmt.Sprintf("RW-%d-%04d", now.Year(), f.nextID), nil
}

type fakeClients struct {
	byID map[uint]*models.Client
}

func (f *fakeClients) GetByID(id uint) (*models.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeClients) GetByUserID(userID uint) (*models.Client, error) {
	for _, c := range f.byID {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAffiliates struct {
	byID map[uint]*models.Affiliate
}

func (f *fakeAffiliates) GetByID(id uint) (*models.Affiliate, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAffiliates) GetByUserID(userID uint) (*models.Affiliate, error) {
	for _, a := range f.byID {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePayments struct {
	transactions []*models.PaymentTransaction
}

func (f *fakePayments) Create(t *models.PaymentTransaction) error {
	t.ID = uint(len(f.transactions) + 1)
	f.transactions = append(f.transactions, t)
	return nil
}

func (f *fakePayments) LatestPendingByContract(contractID uint) (*models.PaymentTransaction, error) {
	for i := len(f.transactions) - 1; i >= 0; i-- {
		t := f.transactions[i]
		if t.ContractID == contractID && t.Status == domain.TxStatusPending {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayments) Review(id, reviewerID uint, status, notes string) error {
	for _, t := range f.transactions {
		if t.ID == id {
			t.Status = status
			t.ReviewedByID = &reviewerID
			t.ReviewNotes = notes
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeActivities struct {
	entries []*models.ContractActivity
}

func (f *fakeActivities) Create(a *models.ContractActivity) error {
	f.entries = append(f.entries, a)
	return nil
}

type fakeDeletions struct {
	byID   map[uint]*models.ContractDeletionRequest
	nextID uint
}

func newFakeDeletions() *fakeDeletions {
	return &fakeDeletions{byID: map[uint]*models.ContractDeletionRequest{}, nextID: 1}
}

func (f *fakeDeletions) Create(req *models.ContractDeletionRequest) error {
	req.ID = f.nextID
	f.nextID++
	f.byID[req.ID] = req
	return nil
}

func (f *fakeDeletions) GetByID(id uint) (*models.ContractDeletionRequest, error) {
	req, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (f *fakeDeletions) Save(req *models.ContractDeletionRequest) error {
	f.byID[req.ID] = req
	return nil
}

func (f *fakeDeletions) HasPendingForContract(contractID uint) (bool, error) {
	for _, req := range f.byID {
		if req.ContractID == contractID && req.Status == domain.DeletionPending {
			return true, nil
		}
	}
	return false, nil
}

type fakePayouts struct {
	payouts []*models.Payout
}

func (f *fakePayouts) Create(p *models.Payout) error {
	f.payouts = append(f.payouts, p)
	return nil
}

type fakeStorage struct {
	uploads int
}

func (f *fakeStorage) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	f.uploads++
	return "https://cdn.test/" + folder + "/" + publicID, nil
}

func (f *fakeStorage) UploadFile(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	f.uploads++
	return "https://cdn.test/" + folder + "/" + publicID, nil
}

type fakeSink struct {
	events []Event
}

func (f *fakeSink) Dispatch(ctx context.Context, events ...Event) {
	f.events = append(f.events, events...)
}

func (f *fakeSink) byType(t string) []Event {
	var out []Event
	for _, ev := range f.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// ==========================
// Fixture
// ==========================

const (
	adminUserID     = uint(1)
	clientUserID    = uint(101)
	affiliateUserID = uint(201)
	strangerUserID  = uint(999)
)

type fixture struct {
	svc        *WorkflowService
	contracts  *fakeContracts
	clients    *fakeClients
	affiliates *fakeAffiliates
	payments   *fakePayments
	activities *fakeActivities
	deletions  *fakeDeletions
	payouts    *fakePayouts
	storage    *fakeStorage
	sink       *fakeSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clientUID := clientUserID
	f := &fixture{
		contracts:  newFakeContracts(),
		clients:    &fakeClients{byID: map[uint]*models.Client{1: {ID: 1, UserID: &clientUID, Name: "Acme Ltd", Email: "acme@example.com"}}},
		affiliates: &fakeAffiliates{byID: map[uint]*models.Affiliate{1: {ID: 1, UserID: affiliateUserID, ReferralCode: "abc12345", CommissionRate: 10, IsActive: true}}},
		payments:   &fakePayments{},
		activities: &fakeActivities{},
		deletions:  newFakeDeletions(),
		payouts:    &fakePayouts{},
		storage:    &fakeStorage{},
		sink:       &fakeSink{},
	}
	f.svc = NewWorkflowService(
		f.contracts, f.clients, f.affiliates, f.payments, f.activities,
		f.deletions, f.payouts, f.storage, f.sink, 10, zap.NewNop().Sugar(),
	)
	return f
}

var (
	admin     = Actor{ID: adminUserID, Role: domain.RoleAdmin}
	client    = Actor{ID: clientUserID, Role: domain.RoleClient}
	affiliate = Actor{ID: affiliateUserID, Role: domain.RoleAffiliate}
)

func (f *fixture) seedContract(t *testing.T, status string, withAffiliate bool) *models.Contract {
	t.Helper()
	in := CreateContractInput{
		ClientID:      1,
		ServiceType:   "web-development",
		PackageName:   "standard",
		TotalAmount:   10000,
		DepositAmount: 5000,
		PaymentMethod: "bank_transfer",
	}
	actor := admin
	if withAffiliate {
		actor = affiliate
	}
	c, err := f.svc.CreateContract(context.Background(), actor, in)
	require.NoError(t, err)
	c.Status = status
	require.NoError(t, f.contracts.Save(c))
	f.sink.events = nil
	return c
}

// ==========================
// CreateContract
// ==========================

func TestCreateContract(t *testing.T) {
	t.Run("admin creates draft", func(t *testing.T) {
		f := newFixture(t)
		c, err := f.svc.CreateContract(context.Background(), admin, CreateContractInput{
			ClientID:      1,
			ServiceType:   "web-development",
			TotalAmount:   10000,
			DepositAmount: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, c.Status)
		assert.Equal(t, domain.WorkflowPendingAdminSignature, c.WorkflowStatus)
		assert.True(t, strings.HasPrefix(c.ContractNumber, "RW-"))
		assert.NotEmpty(t, c.LinkToken)
		assert.Equal(t, 5000.0, c.RemainingAmount)
		assert.Nil(t, c.AffiliateID)
	})

	t.Run("affiliate creator is attached as referrer", func(t *testing.T) {
		f := newFixture(t)
		c, err := f.svc.CreateContract(context.Background(), affiliate, CreateContractInput{
			ClientID:    1,
			ServiceType: "branding",
			TotalAmount: 2000,
		})
		require.NoError(t, err)
		require.NotNil(t, c.AffiliateID)
		assert.Equal(t, uint(1), *c.AffiliateID)
		assert.Equal(t, 10.0, c.CommissionPercentage)
	})

	t.Run("zero affiliate rate falls back to default", func(t *testing.T) {
		f := newFixture(t)
		f.affiliates.byID[1].CommissionRate = 0
		c, err := f.svc.CreateContract(context.Background(), affiliate, CreateContractInput{
			ClientID:    1,
			ServiceType: "branding",
			TotalAmount: 2000,
		})
		require.NoError(t, err)
		assert.Equal(t, 10.0, c.CommissionPercentage)
	})

	t.Run("deposit above total is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateContract(context.Background(), admin, CreateContractInput{
			ClientID:      1,
			ServiceType:   "web-development",
			TotalAmount:   1000,
			DepositAmount: 2000,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("client cannot create", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateContract(context.Background(), client, CreateContractInput{
			ClientID:    1,
			ServiceType: "web-development",
			TotalAmount: 1000,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown client", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateContract(context.Background(), admin, CreateContractInput{
			ClientID:    42,
			ServiceType: "web-development",
			TotalAmount: 1000,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ==========================
// UpdateTerms
// ==========================

func TestUpdateTerms(t *testing.T) {
	t.Run("recomputes remaining amount", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		total := 12000.0
		updated, err := f.svc.UpdateTerms(context.Background(), admin, c.ID, UpdateTermsInput{TotalAmount: &total})
		require.NoError(t, err)
		assert.Equal(t, 12000.0, updated.TotalAmount)
		assert.Equal(t, 5000.0, updated.DepositAmount)
		assert.Equal(t, 7000.0, updated.RemainingAmount)
		assert.Equal(t, adminUserID, updated.Terms.LastModifiedBy)
		assert.Equal(t, domain.RoleAdmin, updated.Terms.ModifiedByRole)
	})

	t.Run("rejected outside editable statuses", func(t *testing.T) {
		for _, status := range []string{
			domain.StatusSigned,
			domain.StatusPendingVerification,
			domain.StatusPendingPaymentProof,
			domain.StatusActive,
			domain.StatusCompleted,
			domain.StatusCancelled,
		} {
			f := newFixture(t)
			c := f.seedContract(t, status, false)
			total := 100.0
			_, err := f.svc.UpdateTerms(context.Background(), admin, c.ID, UpdateTermsInput{TotalAmount: &total})
			assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
		}
	})

	t.Run("affiliate edit notifies admins", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		name := "premium"
		_, err := f.svc.UpdateTerms(context.Background(), affiliate, c.ID, UpdateTermsInput{PackageName: &name})
		require.NoError(t, err)
		events := f.sink.byType(domain.NotifTermsModified)
		require.Len(t, events, 1)
		assert.True(t, events[0].NotifyAdmins)
	})

	t.Run("unrelated affiliate is forbidden", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false) // no affiliate attached
		name := "premium"
		_, err := f.svc.UpdateTerms(context.Background(), affiliate, c.ID, UpdateTermsInput{PackageName: &name})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("deposit cannot exceed total", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		deposit := 99999.0
		_, err := f.svc.UpdateTerms(context.Background(), admin, c.ID, UpdateTermsInput{DepositAmount: &deposit})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

// ==========================
// SubmitSignature
// ==========================

func TestSubmitSignature(t *testing.T) {
	sig := func() io.Reader { return strings.NewReader("png-bytes") }

	t.Run("handshake completes in either order", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)

		c1, err := f.svc.SubmitSignature(context.Background(), admin, c.ID, sig())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingSignature, c1.Status)
		assert.Equal(t, domain.WorkflowPendingClientSignature, c1.WorkflowStatus)
		assert.NotEmpty(t, c1.AdminSignatureURL)
		assert.Empty(t, c1.ClientSignatureURL)

		c2, err := f.svc.SubmitSignature(context.Background(), client, c.ID, sig())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSigned, c2.Status)
		assert.Equal(t, domain.WorkflowCompleted, c2.WorkflowStatus)
		assert.True(t, c2.BothSigned())
	})

	t.Run("double signing is rejected", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		_, err := f.svc.SubmitSignature(context.Background(), admin, c.ID, sig())
		require.NoError(t, err)
		_, err = f.svc.SubmitSignature(context.Background(), admin, c.ID, sig())
		assert.ErrorIs(t, err, ErrAlreadySigned)
		// The rejected attempt must not leave an orphan image in storage.
		assert.Equal(t, 1, f.storage.uploads)
	})

	t.Run("client signature notifies admins", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		_, err := f.svc.SubmitSignature(context.Background(), client, c.ID, sig())
		require.NoError(t, err)
		events := f.sink.byType(domain.NotifSignatureSubmitted)
		require.Len(t, events, 1)
		assert.True(t, events[0].NotifyAdmins)
	})

	t.Run("stranger cannot sign", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		_, err := f.svc.SubmitSignature(context.Background(), Actor{ID: strangerUserID, Role: domain.RoleClient}, c.ID, sig())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("signing a terminal contract fails", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusCancelled, false)
		_, err := f.svc.SubmitSignature(context.Background(), admin, c.ID, sig())
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

// ==========================
// Payment proof
// ==========================

func TestUploadPaymentProof(t *testing.T) {
	proof := func() io.Reader { return strings.NewReader("pdf-bytes") }

	t.Run("moves signed contract to pending verification", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusSigned, false)
		updated, err := f.svc.UploadPaymentProof(context.Background(), client, c.ID, proof(), "mpesa", "ref 123")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingVerification, updated.Status)
		assert.NotEmpty(t, updated.PaymentProofURL)
		assert.Nil(t, updated.PaymentProofVerified)
		assert.Equal(t, "mpesa", updated.PaymentMethod)

		require.Len(t, f.payments.transactions, 1)
		tx := f.payments.transactions[0]
		assert.Equal(t, domain.TxStatusPending, tx.Status)
		assert.Equal(t, 5000.0, tx.Amount)

		events := f.sink.byType(domain.NotifPaymentProofReceived)
		require.Len(t, events, 1)
		assert.True(t, events[0].NotifyAdmins)
	})

	t.Run("resubmission after rejection", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusPendingPaymentProof, false)
		c.RejectionNotes = "unreadable"
		updated, err := f.svc.UploadPaymentProof(context.Background(), client, c.ID, proof(), "", "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingVerification, updated.Status)
		assert.Empty(t, updated.RejectionNotes)
	})

	t.Run("rejected from draft", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		_, err := f.svc.UploadPaymentProof(context.Background(), client, c.ID, proof(), "", "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("only the client may upload", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusSigned, true)
		_, err := f.svc.UploadPaymentProof(context.Background(), affiliate, c.ID, proof(), "", "")
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = f.svc.UploadPaymentProof(context.Background(), admin, c.ID, proof(), "", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestVerifyPaymentProof(t *testing.T) {
	seedPendingVerification := func(t *testing.T, f *fixture, withAffiliate bool) *models.Contract {
		c := f.seedContract(t, domain.StatusSigned, withAffiliate)
		_, err := f.svc.UploadPaymentProof(context.Background(), client, c.ID, strings.NewReader("x"), "", "")
		require.NoError(t, err)
		f.sink.events = nil
		return c
	}

	t.Run("approval activates and confirms commission", func(t *testing.T) {
		f := newFixture(t)
		c := seedPendingVerification(t, f, true)

		updated, err := f.svc.VerifyPaymentProof(context.Background(), admin, c.ID, true, "ok")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, updated.Status)
		require.NotNil(t, updated.PaymentProofVerified)
		assert.True(t, *updated.PaymentProofVerified)
		assert.Equal(t, 1000.0, updated.CommissionAmount) // 10% of 10000

		require.Len(t, f.payouts.payouts, 1)
		assert.Equal(t, 1000.0, f.payouts.payouts[0].Amount)
		assert.Equal(t, domain.PayoutPending, f.payouts.payouts[0].Status)

		activated := f.sink.byType(domain.NotifContractActivated)
		require.Len(t, activated, 1)
		assert.Equal(t, []uint{clientUserID}, activated[0].NotifyUserIDs)
		assert.Equal(t, clientUserID, activated[0].EmailUserID)

		commission := f.sink.byType(domain.NotifCommissionConfirmed)
		require.Len(t, commission, 1)
		assert.Equal(t, []uint{affiliateUserID}, commission[0].NotifyUserIDs)

		_, err = f.payments.LatestPendingByContract(c.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound) // reviewed, no longer pending
		assert.Equal(t, domain.TxStatusVerified, f.payments.transactions[0].Status)
	})

	t.Run("no commission event without affiliate", func(t *testing.T) {
		f := newFixture(t)
		c := seedPendingVerification(t, f, false)
		_, err := f.svc.VerifyPaymentProof(context.Background(), admin, c.ID, true, "")
		require.NoError(t, err)
		assert.Empty(t, f.sink.byType(domain.NotifCommissionConfirmed))
		assert.Empty(t, f.payouts.payouts)
	})

	t.Run("rejection requires notes", func(t *testing.T) {
		f := newFixture(t)
		c := seedPendingVerification(t, f, false)
		_, err := f.svc.VerifyPaymentProof(context.Background(), admin, c.ID, false, "   ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejection sends contract back for resubmission", func(t *testing.T) {
		f := newFixture(t)
		c := seedPendingVerification(t, f, false)
		updated, err := f.svc.VerifyPaymentProof(context.Background(), admin, c.ID, false, "amount mismatch")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingPaymentProof, updated.Status)
		assert.Empty(t, updated.PaymentProofURL)
		assert.Equal(t, "amount mismatch", updated.RejectionNotes)
		require.NotNil(t, updated.PaymentProofVerified)
		assert.False(t, *updated.PaymentProofVerified)
		assert.Equal(t, domain.TxStatusRejected, f.payments.transactions[0].Status)

		rejected := f.sink.byType(domain.NotifPaymentProofRejected)
		require.Len(t, rejected, 1)
		assert.Equal(t, []uint{clientUserID}, rejected[0].NotifyUserIDs)
	})

	t.Run("only pending verification can be reviewed", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusSigned, false)
		_, err := f.svc.VerifyPaymentProof(context.Background(), admin, c.ID, true, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		f := newFixture(t)
		c := seedPendingVerification(t, f, false)
		_, err := f.svc.VerifyPaymentProof(context.Background(), client, c.ID, true, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

// ==========================
// Deletion workflow
// ==========================

func TestDeletionWorkflow(t *testing.T) {
	t.Run("request leaves the contract untouched", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		req, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "client withdrew")
		require.NoError(t, err)
		assert.Equal(t, domain.DeletionPending, req.Status)

		still, err := f.contracts.GetByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, still.Status)

		events := f.sink.byType(domain.NotifDeletionRequested)
		require.Len(t, events, 1)
		assert.True(t, events[0].NotifyAdmins)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		_, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "  ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("no duplicate pending request", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		_, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "first")
		require.NoError(t, err)
		_, err = f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "second")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("approval cascades to the contract", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		req, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "client withdrew")
		require.NoError(t, err)
		f.sink.events = nil

		reviewed, err := f.svc.ReviewDeletion(context.Background(), admin, req.ID, true, "agreed")
		require.NoError(t, err)
		assert.Equal(t, domain.DeletionApproved, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedByID)
		assert.Equal(t, adminUserID, *reviewed.ReviewedByID)

		_, err = f.contracts.GetByID(c.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		outcome := f.sink.byType(domain.NotifDeletionReviewed)
		require.Len(t, outcome, 1)
		assert.Equal(t, []uint{affiliateUserID}, outcome[0].NotifyUserIDs)
		assert.Len(t, f.sink.byType(domain.NotifContractDeleted), 1)
	})

	t.Run("rejection keeps the contract", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		req, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "client withdrew")
		require.NoError(t, err)

		reviewed, err := f.svc.ReviewDeletion(context.Background(), admin, req.ID, false, "keep it")
		require.NoError(t, err)
		assert.Equal(t, domain.DeletionRejected, reviewed.Status)

		_, err = f.contracts.GetByID(c.ID)
		assert.NoError(t, err)
	})

	t.Run("a resolved request cannot be reviewed again", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		req, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "client withdrew")
		require.NoError(t, err)
		_, err = f.svc.ReviewDeletion(context.Background(), admin, req.ID, false, "no")
		require.NoError(t, err)
		_, err = f.svc.ReviewDeletion(context.Background(), admin, req.ID, true, "changed my mind")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("only the attached affiliate may request", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		_, err := f.svc.RequestDeletion(context.Background(), affiliate, c.ID, "reason")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestDeleteDirectly(t *testing.T) {
	t.Run("admin deletes with reason", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		err := f.svc.DeleteDirectly(context.Background(), admin, c.ID, "duplicate entry")
		require.NoError(t, err)
		_, err = f.contracts.GetByID(c.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		events := f.sink.byType(domain.NotifContractDeleted)
		require.Len(t, events, 1)
		assert.Equal(t, []uint{affiliateUserID}, events[0].NotifyUserIDs)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, false)
		err := f.svc.DeleteDirectly(context.Background(), admin, c.ID, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("affiliate cannot delete directly", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusDraft, true)
		err := f.svc.DeleteDirectly(context.Background(), affiliate, c.ID, "reason")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

// ==========================
// Complete / Cancel
// ==========================

func TestCompleteAndCancel(t *testing.T) {
	t.Run("active contract completes", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusActive, true)
		updated, err := f.svc.MarkCompleted(context.Background(), admin, c.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, updated.Status)

		events := f.sink.byType(domain.NotifContractCompleted)
		require.Len(t, events, 1)
		assert.ElementsMatch(t, []uint{clientUserID, affiliateUserID}, events[0].NotifyUserIDs)
	})

	t.Run("only active contracts complete", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedContract(t, domain.StatusSigned, false)
		_, err := f.svc.MarkCompleted(context.Background(), admin, c.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("cancel works from any non-terminal status", func(t *testing.T) {
		for _, status := range []string{
			domain.StatusDraft,
			domain.StatusPendingSignature,
			domain.StatusSigned,
			domain.StatusPendingVerification,
			domain.StatusPendingPaymentProof,
			domain.StatusActive,
		} {
			f := newFixture(t)
			c := f.seedContract(t, status, false)
			updated, err := f.svc.Cancel(context.Background(), admin, c.ID, "scope change")
			require.NoError(t, err, "status %s", status)
			assert.Equal(t, domain.StatusCancelled, updated.Status)
		}
	})

	t.Run("terminal statuses cannot be cancelled", func(t *testing.T) {
		for _, status := range []string{domain.StatusCompleted, domain.StatusCancelled} {
			f := newFixture(t)
			c := f.seedContract(t, status, false)
			_, err := f.svc.Cancel(context.Background(), admin, c.ID, "")
			assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
		}
	})
}
