package handler

import (
	"net/http"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/middleware"
	"ridgeworks/internal/models"
	"ridgeworks/internal/repository"
	"ridgeworks/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContractHandler struct {
	workflow     *service.WorkflowService
	contractRepo *repository.ContractRepository
	clientRepo   *repository.ClientRepository
	affRepo      *repository.AffiliateRepository
	activityRepo *repository.ActivityRepository
	log          *zap.SugaredLogger
}

func NewContractHandler(
	workflow *service.WorkflowService,
	contractRepo *repository.ContractRepository,
	clientRepo *repository.ClientRepository,
	affRepo *repository.AffiliateRepository,
	activityRepo *repository.ActivityRepository,
	log *zap.SugaredLogger,
) *ContractHandler {
	return &ContractHandler{
		workflow:     workflow,
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		affRepo:      affRepo,
		activityRepo: activityRepo,
		log:          log,
	}
}

type createContractRequest struct {
	ClientID      uint                 `json:"client_id" binding:"required"`
	AffiliateID   *uint                `json:"affiliate_id"`
	ProjectID     *uint                `json:"project_id"`
	ServiceType   string               `json:"service_type" binding:"required"`
	PackageName   string               `json:"package_name"`
	TotalAmount   float64              `json:"total_amount" binding:"required"`
	DepositAmount float64              `json:"deposit_amount"`
	PaymentMethod string               `json:"payment_method"`
	Terms         models.ContractTerms `json:"terms"`
}

func (h *ContractHandler) Create(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	actor := middleware.GetActor(c)
	contract, err := h.workflow.CreateContract(c.Request.Context(), actor, service.CreateContractInput{
		ClientID:      req.ClientID,
		AffiliateID:   req.AffiliateID,
		ProjectID:     req.ProjectID,
		ServiceType:   req.ServiceType,
		PackageName:   req.PackageName,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
		PaymentMethod: req.PaymentMethod,
		Terms:         req.Terms,
	})
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "contract": contract})
}

// Get returns a single contract with its relations. Non-admin callers only
// see contracts they are a party to.
func (h *ContractHandler) Get(c *gin.Context) {
	id := paramID(c, "id")
	contract, err := h.contractRepo.GetByIDFull(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	if !h.canView(c, contract) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}

func (h *ContractHandler) canView(c *gin.Context, contract *models.Contract) bool {
	actor := middleware.GetActor(c)
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		cl, err := h.clientRepo.GetByUserID(actor.ID)
		return err == nil && cl.ID == contract.ClientID
	case domain.RoleAffiliate:
		af, err := h.affRepo.GetByUserID(actor.ID)
		return err == nil && contract.AffiliateID != nil && af.ID == *contract.AffiliateID
	}
	return false
}

// List is role-scoped: admins see everything, clients and affiliates see
// their own contracts. Supports ?status= and pagination.
func (h *ContractHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)
	status := c.Query("status")
	limit, offset := parsePagination(c)

	var (
		contracts []models.Contract
		total     int64
		err       error
	)
	switch actor.Role {
	case domain.RoleAdmin:
		contracts, total, err = h.contractRepo.ListAll(status, limit, offset)
	case domain.RoleClient:
		cl, cerr := h.clientRepo.GetByUserID(actor.ID)
		if cerr != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "contracts": []models.Contract{}, "total": 0})
			return
		}
		contracts, total, err = h.contractRepo.ListByClientID(cl.ID, status, limit, offset)
	case domain.RoleAffiliate:
		af, aerr := h.affRepo.GetByUserID(actor.ID)
		if aerr != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "contracts": []models.Contract{}, "total": 0})
			return
		}
		contracts, total, err = h.contractRepo.ListByAffiliateID(af.ID, status, limit, offset)
	default:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	if err != nil {
		h.log.Errorw("list contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch contracts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contracts": contracts, "total": total})
}

// Activities returns the append-only activity trail for a contract.
func (h *ContractHandler) Activities(c *gin.Context) {
	id := paramID(c, "id")
	contract, err := h.contractRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	if !h.canView(c, contract) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	limit, offset := parsePagination(c)
	activities, err := h.activityRepo.ListByContractID(id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch activities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "activities": activities})
}

// GetByLinkToken is the unauthenticated signing-page lookup. It exposes the
// contract by its opaque link token only.
func (h *ContractHandler) GetByLinkToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing token"})
		return
	}
	contract, err := h.contractRepo.GetByLinkToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contract": contract})
}
