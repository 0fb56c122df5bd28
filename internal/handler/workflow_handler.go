package handler

import (
	"net/http"

	"ridgeworks/internal/middleware"
	"ridgeworks/internal/models"
	"ridgeworks/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkflowHandler exposes the contract lifecycle operations. Every endpoint
// resolves the actor from the JWT and defers authorization and state checks
// to the workflow service.
type WorkflowHandler struct {
	workflow *service.WorkflowService
	log      *zap.SugaredLogger
}

func NewWorkflowHandler(workflow *service.WorkflowService, log *zap.SugaredLogger) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow, log: log}
}

type updateTermsRequest struct {
	ServiceType   *string              `json:"service_type"`
	PackageName   *string              `json:"package_name"`
	TotalAmount   *float64             `json:"total_amount"`
	DepositAmount *float64             `json:"deposit_amount"`
	PaymentMethod *string              `json:"payment_method"`
	Service       *models.ServiceTerms `json:"service_terms"`
	Payment       *models.PaymentTerms `json:"payment_terms"`
	CustomTerms   *[]string            `json:"custom_terms"`
}

func (h *WorkflowHandler) UpdateTerms(c *gin.Context) {
	var req updateTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	contract, err := h.workflow.UpdateTerms(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), service.UpdateTermsInput{
		ServiceType:   req.ServiceType,
		PackageName:   req.PackageName,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
		PaymentMethod: req.PaymentMethod,
		Service:       req.Service,
		Payment:       req.Payment,
		CustomTerms:   req.CustomTerms,
	})
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}

// Sign accepts a multipart upload with a "signature" image part.
func (h *WorkflowHandler) Sign(c *gin.Context) {
	fh, err := c.FormFile("signature")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "signature file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read signature file"})
		return
	}
	defer f.Close()

	contract, err := h.workflow.SubmitSignature(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), f)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}

// UploadPaymentProof accepts a multipart upload with a "proof" part plus
// optional payment_method and notes form fields.
func (h *WorkflowHandler) UploadPaymentProof(c *gin.Context) {
	fh, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "proof file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read proof file"})
		return
	}
	defer f.Close()

	contract, err := h.workflow.UploadPaymentProof(
		c.Request.Context(),
		middleware.GetActor(c),
		paramID(c, "id"),
		f,
		c.PostForm("payment_method"),
		c.PostForm("notes"),
	)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}

type verifyProofRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (h *WorkflowHandler) VerifyPaymentProof(c *gin.Context) {
	var req verifyProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	contract, err := h.workflow.VerifyPaymentProof(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), req.Approve, req.Notes)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *WorkflowHandler) RequestDeletion(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	dr, err := h.workflow.RequestDeletion(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), req.Reason)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "request": dr})
}

type reviewDeletionRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (h *WorkflowHandler) ReviewDeletion(c *gin.Context) {
	var req reviewDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	dr, err := h.workflow.ReviewDeletion(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), req.Approve, req.Notes)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": dr})
}

// Delete is the admin direct-delete path. The reason is recorded in the
// notification sent to the contract's affiliate.
func (h *WorkflowHandler) Delete(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.workflow.DeleteDirectly(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), req.Reason); err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "contract deleted"})
}

func (h *WorkflowHandler) Complete(c *gin.Context) {
	contract, err := h.workflow.MarkCompleted(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"))
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *WorkflowHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)
	contract, err := h.workflow.Cancel(c.Request.Context(), middleware.GetActor(c), paramID(c, "id"), req.Reason)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}
