package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ServiceTerms describes the service portion of the agreed terms.
type ServiceTerms struct {
	Description  string   `json:"description"`
	Timeline     string   `json:"timeline"`
	Deliverables []string `json:"deliverables"`
}

// PaymentScheduleItem is one installment in the agreed payment plan.
type PaymentScheduleItem struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"due_date"`
}

type PaymentTerms struct {
	Schedule []PaymentScheduleItem `json:"schedule"`
}

// ContractTerms is the structured terms blob stored as JSON on the contract
// row, carrying an audit stamp of the last edit.
type ContractTerms struct {
	Service        ServiceTerms `json:"service"`
	Payment        PaymentTerms `json:"payment"`
	CustomTerms    []string     `json:"custom_terms"`
	LastModifiedBy uint         `json:"last_modified_by,omitempty"`
	LastModifiedAt *time.Time   `json:"last_modified_at,omitempty"`
	ModifiedByRole string       `json:"modified_by_role,omitempty"`
}

func (t ContractTerms) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *ContractTerms) Scan(value interface{}) error {
	if value == nil {
		*t = ContractTerms{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type %T for ContractTerms", value)
	}
}

type Contract struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ContractNumber string `gorm:"uniqueIndex;size:20;not null" json:"contract_number"`
	LinkToken      string `gorm:"column:contract_link_token;uniqueIndex;size:64;not null" json:"contract_link_token"`
	ClientID       uint   `gorm:"not null;index" json:"client_id"`
	AffiliateID    *uint  `gorm:"index" json:"affiliate_id"`
	ProjectID      *uint  `gorm:"index" json:"project_id"`
	CreatedByID    uint   `gorm:"not null" json:"created_by_id"`

	ServiceType     string  `gorm:"size:100" json:"service_type"`
	PackageName     string  `gorm:"size:100" json:"package_name"`
	TotalAmount     float64 `gorm:"not null" json:"total_amount"`
	DepositAmount   float64 `gorm:"not null" json:"deposit_amount"`
	RemainingAmount float64 `gorm:"not null" json:"remaining_amount"`
	PaymentMethod   string  `gorm:"size:50" json:"payment_method"`

	CommissionPercentage float64 `gorm:"column:affiliate_commission_percentage" json:"affiliate_commission_percentage"`
	CommissionAmount     float64 `gorm:"column:affiliate_commission_amount" json:"affiliate_commission_amount"`

	Terms ContractTerms `gorm:"column:contract_terms;type:json" json:"contract_terms"`

	Status         string `gorm:"size:30;not null;index;default:'draft'" json:"status"`
	WorkflowStatus string `gorm:"size:30" json:"workflow_status"`

	AdminSignatureURL  string     `gorm:"size:512" json:"admin_signature_url"`
	AdminSignedByID    *uint      `json:"admin_signed_by_id"`
	AdminSignedAt      *time.Time `json:"admin_signed_at"`
	AdminIDCardURL     string     `gorm:"size:512" json:"admin_id_card_url"`
	ClientSignatureURL string     `gorm:"size:512" json:"client_signature_url"`
	ClientSignedByID   *uint      `json:"client_signed_by_id"`
	ClientSignedAt     *time.Time `json:"client_signed_at"`
	ClientIDCardURL    string     `gorm:"size:512" json:"client_id_card_url"`

	PaymentProofURL      string     `gorm:"size:512" json:"payment_proof_url"`
	PaymentProofVerified *bool      `json:"payment_proof_verified"`
	VerifiedByID         *uint      `json:"verified_by_id"`
	VerifiedAt           *time.Time `json:"verified_at"`
	RejectionNotes       string     `gorm:"type:text" json:"rejection_notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Client    *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

// BothSigned reports whether both parties have provided a signature.
func (c *Contract) BothSigned() bool {
	return c.AdminSignatureURL != "" && c.ClientSignatureURL != ""
}
