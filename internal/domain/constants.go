package domain

const (
	RoleAdmin     = "ADMIN"
	RoleClient    = "CLIENT"
	RoleAffiliate = "AFFILIATE"
)

// Contract lifecycle statuses. Status is the single source of truth for where
// a contract sits in its life; payment_proof_verified is derived evidence.
const (
	StatusDraft               = "draft"
	StatusPendingSignature    = "pending_signature"
	StatusSigned              = "signed"
	StatusActive              = "active"
	StatusCompleted           = "completed"
	StatusCancelled           = "cancelled"
	StatusPendingVerification = "pending_verification"
	StatusPendingPaymentProof = "pending_payment_proof"
)

// Workflow statuses track which party must sign next during the
// dual-signature phase. Orthogonal to the top-level status.
const (
	WorkflowPendingAdminSignature  = "pending_admin_signature"
	WorkflowPendingClientSignature = "pending_client_signature"
	WorkflowCompleted              = "completed"
)

const (
	TxStatusPending  = "pending"
	TxStatusVerified = "verified"
	TxStatusRejected = "rejected"
)

const (
	DeletionPending  = "pending"
	DeletionApproved = "approved"
	DeletionRejected = "rejected"
)

// Notification types. The frontend keys icons and routing off these tags.
const (
	NotifTermsModified        = "terms_modified"
	NotifSignatureSubmitted   = "signature_submitted"
	NotifPaymentProofReceived = "payment_proof_received"
	NotifContractActivated    = "contract_activated"
	NotifCommissionConfirmed  = "commission_confirmed"
	NotifPaymentProofRejected = "payment_proof_rejected"
	NotifDeletionRequested    = "deletion_requested"
	NotifDeletionReviewed     = "deletion_reviewed"
	NotifContractDeleted      = "contract_deleted"
	NotifContractCompleted    = "contract_completed"
	NotifContractCancelled    = "contract_cancelled"
	NotifNewMessage           = "new_message"
	NotifSignatureReminder    = "signature_reminder"
)

// Contract activity types for the audit trail.
const (
	ActivityTermsModified    = "terms_modified"
	ActivitySignature        = "signature_submitted"
	ActivityProofSubmitted   = "payment_proof_submitted"
	ActivityProofVerified    = "payment_proof_verified"
	ActivityProofRejected    = "payment_proof_rejected"
	ActivityStatusChanged    = "status_changed"
	ActivityDeletionRequest  = "deletion_requested"
	ActivityDeletionReviewed = "deletion_reviewed"
)

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
)

// Cloudinary folder namespaces.
const (
	BucketPaymentProofs = "payment-proofs"
	BucketIDCards       = "id-cards"
	BucketSignatures    = "signatures"
)

// ContractNumberPrefix prefixes generated numbers, e.g. RW-2025-0001.
const ContractNumberPrefix = "RW"
