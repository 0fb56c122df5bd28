package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"
	"ridgeworks/pkg/cloudinary"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor is the authenticated principal performing a workflow operation.
type Actor struct {
	ID   uint
	Role string
}

// Store interfaces are satisfied by the gorm repositories.

type ContractStore interface {
	Create(c *models.Contract) error
	GetByID(id uint) (*models.Contract, error)
	Save(c *models.Contract) error
	Delete(id uint) error
	NextContractNumber(now time.Time) (string, error)
}

type ClientStore interface {
	GetByID(id uint) (*models.Client, error)
	GetByUserID(userID uint) (*models.Client, error)
}

type AffiliateStore interface {
	GetByID(id uint) (*models.Affiliate, error)
	GetByUserID(userID uint) (*models.Affiliate, error)
}

type PaymentStore interface {
	Create(t *models.PaymentTransaction) error
	LatestPendingByContract(contractID uint) (*models.PaymentTransaction, error)
	Review(id, reviewerID uint, status, notes string) error
}

type ActivityStore interface {
	Create(a *models.ContractActivity) error
}

type DeletionStore interface {
	Create(req *models.ContractDeletionRequest) error
	GetByID(id uint) (*models.ContractDeletionRequest, error)
	Save(req *models.ContractDeletionRequest) error
	HasPendingForContract(contractID uint) (bool, error)
}

type PayoutStore interface {
	Create(p *models.Payout) error
}

// ownership predicates for the permission table.
const (
	ownNone      = ""
	ownClient    = "client"    // actor must be the contract's client
	ownAffiliate = "affiliate" // actor must be the contract's affiliate
)

type permission struct {
	roles     []string
	ownership string // checked for non-admin roles only
}

// permissions is the declarative authorization table, keyed by operation.
var permissions = map[string]permission{
	"create":        {roles: []string{domain.RoleAdmin, domain.RoleAffiliate}},
	"update_terms":  {roles: []string{domain.RoleAdmin, domain.RoleAffiliate}, ownership: ownAffiliate},
	"sign":          {roles: []string{domain.RoleAdmin, domain.RoleClient}, ownership: ownClient},
	"upload_proof":  {roles: []string{domain.RoleClient}, ownership: ownClient},
	"verify_proof":  {roles: []string{domain.RoleAdmin}},
	"request_del":   {roles: []string{domain.RoleAffiliate}, ownership: ownAffiliate},
	"review_del":    {roles: []string{domain.RoleAdmin}},
	"delete_direct": {roles: []string{domain.RoleAdmin}},
	"complete":      {roles: []string{domain.RoleAdmin}},
	"cancel":        {roles: []string{domain.RoleAdmin}},
}

// WorkflowService gates every contract status/workflow_status transition
// behind the permission table and the lifecycle transition table, persists
// the change, and emits side effects as domain events. Each store call is
// separate: a failed side effect is logged by the dispatcher, never rolled
// back into the primary mutation.
type WorkflowService struct {
	contracts         ContractStore
	clients           ClientStore
	affiliates        AffiliateStore
	payments          PaymentStore
	activities        ActivityStore
	deletions         DeletionStore
	payouts           PayoutStore
	storage           cloudinary.Client
	events            EventSink
	defaultCommission float64
	log               *zap.SugaredLogger
}

func NewWorkflowService(
	contracts ContractStore,
	clients ClientStore,
	affiliates AffiliateStore,
	payments PaymentStore,
	activities ActivityStore,
	deletions DeletionStore,
	payouts PayoutStore,
	storage cloudinary.Client,
	events EventSink,
	defaultCommission float64,
	log *zap.SugaredLogger,
) *WorkflowService {
	return &WorkflowService{
		contracts:         contracts,
		clients:           clients,
		affiliates:        affiliates,
		payments:          payments,
		activities:        activities,
		deletions:         deletions,
		payouts:           payouts,
		storage:           storage,
		events:            events,
		defaultCommission: defaultCommission,
		log:               log,
	}
}

// authorize validates the actor against the permission table for op. For
// non-admin roles the ownership predicate ties the actor to the contract.
func (s *WorkflowService) authorize(op string, actor Actor, contract *models.Contract) error {
	perm, ok := permissions[op]
	if !ok {
		return ErrForbidden
	}
	allowed := false
	for _, r := range perm.roles {
		if r == actor.Role {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrForbidden
	}
	if actor.Role == domain.RoleAdmin || perm.ownership == ownNone || contract == nil {
		return nil
	}
	switch perm.ownership {
	case ownClient:
		cl, err := s.clients.GetByUserID(actor.ID)
		if err != nil || cl.ID != contract.ClientID {
			return ErrForbidden
		}
	case ownAffiliate:
		if contract.AffiliateID == nil {
			return ErrForbidden
		}
		af, err := s.affiliates.GetByUserID(actor.ID)
		if err != nil || af.ID != *contract.AffiliateID {
			return ErrForbidden
		}
	}
	return nil
}

func (s *WorkflowService) getContract(id uint) (*models.Contract, error) {
	c, err := s.contracts.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *WorkflowService) recordActivity(contractID uint, actor Actor, activityType, detail string) {
	err := s.activities.Create(&models.ContractActivity{
		ContractID: contractID,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Type:       activityType,
		Detail:     detail,
	})
	if err != nil {
		s.log.Errorw("workflow: activity insert", "contract_id", contractID, "type", activityType, "err", err)
	}
}

// clientUserID resolves the login account behind the contract's client, if
// the client has one.
func (s *WorkflowService) clientUserID(c *models.Contract) uint {
	cl, err := s.clients.GetByID(c.ClientID)
	if err != nil || cl.UserID == nil {
		return 0
	}
	return *cl.UserID
}

func (s *WorkflowService) affiliateUserID(c *models.Contract) uint {
	if c.AffiliateID == nil {
		return 0
	}
	af, err := s.affiliates.GetByID(*c.AffiliateID)
	if err != nil {
		return 0
	}
	return af.UserID
}

// CreateContractInput carries the commercial terms for a new draft.
type CreateContractInput struct {
	ClientID      uint
	AffiliateID   *uint
	ProjectID     *uint
	ServiceType   string
	PackageName   string
	TotalAmount   float64
	DepositAmount float64
	PaymentMethod string
	Terms         models.ContractTerms
}

// CreateContract opens a new draft. An affiliate creating a contract is
// attached as its referrer regardless of the input.
func (s *WorkflowService) CreateContract(ctx context.Context, actor Actor, in CreateContractInput) (*models.Contract, error) {
	if err := s.authorize("create", actor, nil); err != nil {
		return nil, err
	}
	if in.TotalAmount < 0 || in.DepositAmount < 0 || in.DepositAmount > in.TotalAmount {
		return nil, fmt.Errorf("%w: deposit must be between 0 and total", ErrValidation)
	}
	if _, err := s.clients.GetByID(in.ClientID); err != nil {
		return nil, fmt.Errorf("%w: client", ErrNotFound)
	}

	affiliateID := in.AffiliateID
	commissionPct := 0.0
	if actor.Role == domain.RoleAffiliate {
		af, err := s.affiliates.GetByUserID(actor.ID)
		if err != nil {
			return nil, ErrForbidden
		}
		affiliateID = &af.ID
	}
	if affiliateID != nil {
		af, err := s.affiliates.GetByID(*affiliateID)
		if err != nil {
			return nil, fmt.Errorf("%w: affiliate", ErrNotFound)
		}
		commissionPct = af.CommissionRate
		if commissionPct <= 0 {
			commissionPct = s.defaultCommission
		}
	}

	number, err := s.contracts.NextContractNumber(time.Now())
	if err != nil {
		return nil, err
	}
	now := time.Now()
	terms := in.Terms
	terms.LastModifiedBy = actor.ID
	terms.LastModifiedAt = &now
	terms.ModifiedByRole = actor.Role

	c := &models.Contract{
		ContractNumber:       number,
		LinkToken:            strings.ReplaceAll(uuid.New().String(), "-", ""),
		ClientID:             in.ClientID,
		AffiliateID:          affiliateID,
		ProjectID:            in.ProjectID,
		CreatedByID:          actor.ID,
		ServiceType:          in.ServiceType,
		PackageName:          in.PackageName,
		TotalAmount:          in.TotalAmount,
		DepositAmount:        in.DepositAmount,
		RemainingAmount:      in.TotalAmount - in.DepositAmount,
		PaymentMethod:        in.PaymentMethod,
		CommissionPercentage: commissionPct,
		Terms:                terms,
		Status:               domain.StatusDraft,
		WorkflowStatus:       domain.WorkflowPendingAdminSignature,
	}
	if err := s.contracts.Create(c); err != nil {
		return nil, err
	}
	s.recordActivity(c.ID, actor, domain.ActivityStatusChanged, "contract created as draft")
	return c, nil
}

// UpdateTermsInput is a partial update of the contract's commercial terms.
// Nil fields are left untouched.
type UpdateTermsInput struct {
	ServiceType   *string
	PackageName   *string
	TotalAmount   *float64
	DepositAmount *float64
	PaymentMethod *string
	Service       *models.ServiceTerms
	Payment       *models.PaymentTerms
	CustomTerms   *[]string
}

// UpdateTerms edits contract terms while the contract is still editable
// (draft/pending_signature). RemainingAmount is always recomputed as
// total - deposit. An affiliate edit notifies all admins.
func (s *WorkflowService) UpdateTerms(ctx context.Context, actor Actor, contractID uint, in UpdateTermsInput) (*models.Contract, error) {
	c, err := s.getContract(contractID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize("update_terms", actor, c); err != nil {
		return nil, err
	}
	if !domain.IsEditable(c.Status) {
		return nil, ErrInvalidState
	}

	if in.ServiceType != nil {
		c.ServiceType = *in.ServiceType
	}
	if in.PackageName != nil {
		c.PackageName = *in.PackageName
	}
	if in.TotalAmount != nil {
		c.TotalAmount = *in.TotalAmount
	}
	if in.DepositAmount != nil {
		c.DepositAmount = *in.DepositAmount
	}
	if in.PaymentMethod != nil {
		c.PaymentMethod = *in.PaymentMethod
	}
	if c.TotalAmount < 0 || c.DepositAmount < 0 || c.DepositAmount > c.TotalAmount {
		return nil, fmt.Errorf("%w: deposit must be between 0 and total", ErrValidation)
	}
	c.RemainingAmount = c.TotalAmount - c.DepositAmount

	if in.Service != nil {
		c.Terms.Service = *in.Service
	}
	if in.Payment != nil {
		c.Terms.Payment = *in.Payment
	}
	if in.CustomTerms != nil {
		c.Terms.CustomTerms = *in.CustomTerms
	}
	now := time.Now()
	c.Terms.LastModifiedBy = actor.ID
	c.Terms.LastModifiedAt = &now
	c.Terms.ModifiedByRole = actor.Role

	if err := s.contracts.Save(c); err != nil {
		return nil, err
	}
	s.recordActivity(c.ID, actor, domain.ActivityTermsModified, "contract terms modified")

	if actor.Role == domain.RoleAffiliate {
		s.events.Dispatch(ctx, Event{
			Type:           domain.NotifTermsModified,
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			Status:         c.Status,
			Actor:          actor,
			NotifyAdmins:   true,
			Title:          "Contract terms updated",
			Message:        fmt.Sprintf("Affiliate updated the terms of contract %s", c.ContractNumber),
			Link:           fmt.Sprintf("/contracts/%d", c.ID),
		})
	}
	return c, nil
}

// SubmitSignature records one party's signature image and advances the
// dual-signature handshake. Fails with ErrAlreadySigned when that party has
// already signed.
func (s *WorkflowService) SubmitSignature(ctx context.Context, actor Actor, contractID uint, signature io.Reader) (*models.Contract, error) {
	c, err := s.getContract(contractID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize("sign", actor, c); err != nil {
		return nil, err
	}
	if !domain.IsEditable(c.Status) {
		return nil, ErrInvalidState
	}
	// Reject a double-sign before uploading, otherwise the rejected
	// signature image would be left behind in storage.
	if actor.Role == domain.RoleAdmin && c.AdminSignatureURL != "" {
		return nil, ErrAlreadySigned
	}
	if actor.Role == domain.RoleClient && c.ClientSignatureURL != "" {
		return nil, ErrAlreadySigned
	}

	key := cloudinary.ArtifactKey(actor.ID, c.ID, "signature", time.Now())
	url, err := s.storage.UploadImage(ctx, signature, domain.BucketSignatures, key)
	if err != nil {
		return nil, fmt.Errorf("upload signature: %w", err)
	}

	now := time.Now()
	var counterpartyID uint
	switch actor.Role {
	case domain.RoleAdmin:
		c.AdminSignatureURL = url
		c.AdminSignedByID = &actor.ID
		c.AdminSignedAt = &now
		counterpartyID = s.clientUserID(c)
	case domain.RoleClient:
		c.ClientSignatureURL = url
		c.ClientSignedByID = &actor.ID
		c.ClientSignedAt = &now
		// admins are notified via NotifyAdmins below
	}

	if c.BothSigned() {
		c.WorkflowStatus = domain.WorkflowCompleted
		c.Status = domain.StatusSigned
	} else {
		if actor.Role == domain.RoleAdmin {
			c.WorkflowStatus = domain.WorkflowPendingClientSignature
		} else {
			c.WorkflowStatus = domain.WorkflowPendingAdminSignature
		}
		c.Status = domain.StatusPendingSignature
	}
	if err := s.contracts.Save(c); err != nil {
		return nil, err
	}
	s.recordActivity(c.ID, actor, domain.ActivitySignature, fmt.Sprintf("%s signature submitted", strings.ToLower(actor.Role)))

	ev := Event{
		Type:           domain.NotifSignatureSubmitted,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		Actor:          actor,
		Title:          "Signature submitted",
		Message:        fmt.Sprintf("Contract %s has a new signature", c.ContractNumber),
		Link:           fmt.Sprintf("/contracts/%d", c.ID),
		NotifyAdmins:   actor.Role == domain.RoleClient,
	}
	if counterpartyID != 0 {
		ev.NotifyUserIDs = []uint{counterpartyID}
	}
	s.events.Dispatch(ctx, ev)
	return c, nil
}

// UploadPaymentProof stores the client's proof of payment and moves the
// contract into pending_verification. Only the contract's own client may
// submit.
func (s *WorkflowService) UploadPaymentProof(ctx context.Context, actor Actor, contractID uint, file io.Reader, method, notes string) (*models.Contract, error) {
	c, err := s.getContract(contractID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize("upload_proof", actor, c); err != nil {
		return nil, err
	}
	if !domain.CanTransition(c.Status, domain.StatusPendingVerification) {
		return nil, ErrInvalidState
	}

	key := cloudinary.ArtifactKey(actor.ID, c.ID, "proof", time.Now())
	url, err := s.storage.UploadFile(ctx, file, domain.BucketPaymentProofs, key)
	if err != nil {
		return nil, fmt.Errorf("upload payment proof: %w", err)
	}

	c.PaymentProofURL = url
	c.PaymentProofVerified = nil
	c.RejectionNotes = ""
	c.Status = domain.StatusPendingVerification
	if method != "" {
		c.PaymentMethod = method
	}
	if err := s.contracts.Save(c); err != nil {
		return nil, err
	}

	if err := s.payments.Create(&models.PaymentTransaction{
		ContractID:    c.ID,
		ClientID:      c.ClientID,
		Amount:        c.DepositAmount,
		PaymentMethod: c.PaymentMethod,
		ProofURL:      url,
		Notes:         notes,
		Status:        domain.TxStatusPending,
	}); err != nil {
		s.log.Errorw("workflow: payment transaction insert", "contract_id", c.ID, "err", err)
	}
	s.recordActivity(c.ID, actor, domain.ActivityProofSubmitted, "payment proof submitted")

	s.events.Dispatch(ctx, Event{
		Type:           domain.NotifPaymentProofReceived,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		Actor:          actor,
		NotifyAdmins:   true,
		Title:          "Payment proof received",
		Message:        fmt.Sprintf("Client submitted a payment proof for contract %s", c.ContractNumber),
		Link:           fmt.Sprintf("/contracts/%d", c.ID),
	})
	return c, nil
}

// VerifyPaymentProof is the admin decision on a submitted proof. Approval
// activates the contract and confirms the affiliate commission; rejection
// requires notes and sends the contract back to pending_payment_proof.
func (s *WorkflowService) VerifyPaymentProof(ctx context.Context, actor Actor, contractID uint, approve bool, notes string) (*models.Contract, error) {
	c, err := s.getContract(contractID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize("verify_proof", actor, c); err != nil {
		return nil, err
	}
	if c.Status != domain.StatusPendingVerification {
		return nil, ErrInvalidState
	}
	if !approve && strings.TrimSpace(notes) == "" {
		return nil, fmt.Errorf("%w: rejection notes are required", ErrValidation)
	}

	now := time.Now()
	verified := approve
	c.PaymentProofVerified = &verified
	c.VerifiedByID = &actor.ID
	c.VerifiedAt = &now

	if approve {
		c.Status = domain.StatusActive
		c.RejectionNotes = ""
		if c.AffiliateID != nil && c.CommissionPercentage > 0 {
			c.CommissionAmount = c.TotalAmount * c.CommissionPercentage / 100
		}
	} else {
		// A rejected proof never leaves the contract active: back to
		// re-submission.
		c.Status = domain.StatusPendingPaymentProof
		c.PaymentProofURL = ""
		c.RejectionNotes = notes
	}
	if err := s.contracts.Save(c); err != nil {
		return nil, err
	}

	txStatus := domain.TxStatusVerified
	activity := domain.ActivityProofVerified
	if !approve {
		txStatus = domain.TxStatusRejected
		activity = domain.ActivityProofRejected
	}
	if tx, err := s.payments.LatestPendingByContract(c.ID); err == nil {
		if err := s.payments.Review(tx.ID, actor.ID, txStatus, notes); err != nil {
			s.log.Errorw("workflow: payment review", "contract_id", c.ID, "tx_id", tx.ID, "err", err)
		}
	} else {
		s.log.Warnw("workflow: no pending transaction for verification", "contract_id", c.ID, "err", err)
	}
	s.recordActivity(c.ID, actor, activity, notes)

	clientUID := s.clientUserID(c)
	var events []Event
	if approve {
		if clientUID != 0 {
			events = append(events, Event{
				Type:           domain.NotifContractActivated,
				ContractID:     c.ID,
				ContractNumber: c.ContractNumber,
				Status:         c.Status,
				Actor:          actor,
				NotifyUserIDs:  []uint{clientUID},
				Title:          "Contract activated",
				Message:        fmt.Sprintf("Your payment for contract %s was verified. The contract is now active.", c.ContractNumber),
				Link:           fmt.Sprintf("/contracts/%d", c.ID),
				EmailUserID:    clientUID,
				EmailSubject:   fmt.Sprintf("Contract %s is active", c.ContractNumber),
				EmailBody:      fmt.Sprintf("Your payment was verified and contract %s is now active.", c.ContractNumber),
			})
		}
		if affUID := s.affiliateUserID(c); affUID != 0 && c.CommissionAmount > 0 {
			if err := s.payouts.Create(&models.Payout{
				AffiliateID: *c.AffiliateID,
				ContractID:  c.ID,
				Amount:      c.CommissionAmount,
				Status:      domain.PayoutPending,
			}); err != nil {
				s.log.Errorw("workflow: payout insert", "contract_id", c.ID, "err", err)
			}
			events = append(events, Event{
				Type:           domain.NotifCommissionConfirmed,
				ContractID:     c.ID,
				ContractNumber: c.ContractNumber,
				Status:         c.Status,
				Actor:          actor,
				NotifyUserIDs:  []uint{affUID},
				Title:          "Commission confirmed",
				Message:        fmt.Sprintf("Your commission of %.2f for contract %s is confirmed", c.CommissionAmount, c.ContractNumber),
				Link:           fmt.Sprintf("/contracts/%d", c.ID),
			})
		}
	} else if clientUID != 0 {
		events = append(events, Event{
			Type:           domain.NotifPaymentProofRejected,
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			Status:         c.Status,
			Actor:          actor,
			NotifyUserIDs:  []uint{clientUID},
			Title:          "Payment proof rejected",
			Message:        fmt.Sprintf("Your payment proof for contract %s was rejected: %s", c.ContractNumber, notes),
			Link:           fmt.Sprintf("/contracts/%d", c.ID),
			EmailUserID:    clientUID,
			EmailSubject:   fmt.Sprintf("Payment proof for contract %s rejected", c.ContractNumber),
			EmailBody:      fmt.Sprintf("Your payment proof was rejected: %s. Please submit a new proof.", notes),
		})
	}
	s.events.Dispatch(ctx, events...)
	return c, nil
}

// RequestDeletion opens the affiliate deletion sub-workflow. The contract
// row is untouched until an admin approves the request.
func (s *WorkflowService) RequestDeletion(ctx context.Context, actor Actor, contractID uint, reason string) (*models.ContractDeletionRequest, error) {
	c, err := s.getContract(contractID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize("request_del", actor, c); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if pending, err := s.deletions.HasPendingForContract(c.ID); err != nil {
		return nil, err
	} else if pending {
		return nil, fmt.Errorf("%w: a deletion request is already pending", ErrValidation)
	}

	req := &models.ContractDeletionRequest{
		ContractID:  c.ID,
		AffiliateID: *c.AffiliateID,
		Reason:      reason,
		Status:      domain.DeletionPending,
	}
	if err := s.deletions.Create(req); err != nil {
		return nil, err
	}
	s.recordActivity(c.ID, actor, domain.ActivityDeletionRequest, reason)

	s.events.Dispatch(ctx, Event{
		Type:           domain.NotifDeletionRequested,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		Actor:          actor,
		NotifyAdmins:   true,
		Title:          "Contract deletion requested",
		Message:        fmt.Sprintf("Affiliate requested deletion of contract %s: %s", c.ContractNumber, reason),
		Link:           fmt.Sprintf("/admin/deletion-requests/%d", req.ID),
	})
	return req, nil
}

// ReviewDeletion resolves a pending deletion request. Approval cascades to
// the contract delete.
func (s *WorkflowService) ReviewDeletion(ctx context.Context, actor Actor, requestID uint, approve bool, notes string) (*models.ContractDeletionRequest, error) {
	if err := s.authorize("review_del", actor, nil); err != nil {
		return nil, err
	}
	req, err := s.deletions.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Status != domain.DeletionPending {
		return nil, ErrInvalidState
	}
	c, err := s.getContract(req.ContractID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req.ReviewedByID = &actor.ID
	req.ReviewedAt = &now
	req.ReviewNotes = notes
	if approve {
		req.Status = domain.DeletionApproved
	} else {
		req.Status = domain.DeletionRejected
	}
	if err := s.deletions.Save(req); err != nil {
		return nil, err
	}
	if approve {
		if err := s.contracts.Delete(c.ID); err != nil {
			return nil, err
		}
	}
	s.recordActivity(c.ID, actor, domain.ActivityDeletionReviewed, req.Status)

	outcome := "rejected"
	if approve {
		outcome = "approved"
	}
	events := []Event{{
		Type:           domain.NotifDeletionReviewed,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         req.Status,
		Actor:          actor,
		Title:          "Deletion request reviewed",
		Message:        fmt.Sprintf("Your deletion request for contract %s was %s", c.ContractNumber, outcome),
		Link:           "/contracts",
	}}
	if affUID := s.affiliateUserID(c); affUID != 0 {
		events[0].NotifyUserIDs = []uint{affUID}
	}
	if approve {
		events = append(events, Event{
			Type:           domain.NotifContractDeleted,
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			Actor:          actor,
		})
	}
	s.events.Dispatch(ctx, events...)
	return req, nil
}

// DeleteDirectly removes a contract immediately. Admin only; the reason is
// mandatory and lands in the activity trail. The attached affiliate, if any,
// is notified.
func (s *WorkflowService) DeleteDirectly(ctx context.Context, actor Actor, contractID uint, reason string) error {
	c, err := s.getContract(contractID)
	if err != nil {
		return err
	}
	if err := s.authorize("delete_direct", actor, c); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if err := s.contracts.Delete(c.ID); err != nil {
		return err
	}
	s.recordActivity(c.ID, actor, domain.ActivityDeletionReviewed, "deleted by admin: "+reason)

	ev := Event{
		Type:           domain.NotifContractDeleted,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Actor:          actor,
		Title:          "Contract deleted",
		Message:        fmt.Sprintf("Contract %s was deleted: %s", c.ContractNumber, reason),
	}
	if affUID := s.affiliateUserID(c); affUID != 0 {
		ev.NotifyUserIDs = []uint{affUID}
	}
	s.events.Dispatch(ctx, ev)
	return nil
}

// MarkCompleted closes out an active contract.
func (s *WorkflowService) MarkCompleted(ctx context.Context, actor Actor, contractID uint) (*models.Contract, error) {
	return s.transition(ctx, actor, contractID, "complete", domain.StatusCompleted, domain.NotifContractCompleted, "Contract completed")
}

// Cancel aborts a contract from any non-terminal state.
func (s *WorkflowService) Cancel(ctx context.Context, actor Actor, contractID uint, reason string) (*models.Contract, error) {
	c, err := s.transition(ctx, actor, contractID, "cancel", domain.StatusCancelled, domain.NotifContractCancelled, "Contract cancelled")
	if err != nil {
		return nil, err
	}
	if reason != "" {
		s.recordActivity(c.ID, actor, domain.ActivityStatusChanged, "cancelled: "+reason)
	}
	return c, nil
}

func (s *WorkflowService) transition(ctx context.Context, actor Actor, contractID uint, op, to, notifType, title string) (*models.Contract, error) {
	c, err := s.getContract(contractID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(op, actor, c); err != nil {
		return nil, err
	}
	if !domain.CanTransition(c.Status, to) {
		return nil, ErrInvalidState
	}
	from := c.Status
	c.Status = to
	if err := s.contracts.Save(c); err != nil {
		return nil, err
	}
	s.recordActivity(c.ID, actor, domain.ActivityStatusChanged, fmt.Sprintf("%s -> %s", from, to))

	ev := Event{
		Type:           notifType,
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		Actor:          actor,
		Title:          title,
		Message:        fmt.Sprintf("Contract %s is now %s", c.ContractNumber, to),
		Link:           fmt.Sprintf("/contracts/%d", c.ID),
	}
	var targets []uint
	if uid := s.clientUserID(c); uid != 0 {
		targets = append(targets, uid)
	}
	if uid := s.affiliateUserID(c); uid != 0 {
		targets = append(targets, uid)
	}
	ev.NotifyUserIDs = targets
	s.events.Dispatch(ctx, ev)
	return c, nil
}
