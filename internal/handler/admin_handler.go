package handler

import (
	"net/http"

	"ridgeworks/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the admin dashboard and back-office listings.
type AdminHandler struct {
	adminRepo    *repository.AdminRepository
	userRepo     *repository.UserRepository
	paymentRepo  *repository.PaymentRepository
	delRepo      *repository.DeletionRequestRepository
	settingRepo  *repository.SettingRepository
	emailLogRepo *repository.EmailLogRepository
	log          *zap.SugaredLogger
}

func NewAdminHandler(
	adminRepo *repository.AdminRepository,
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	delRepo *repository.DeletionRequestRepository,
	settingRepo *repository.SettingRepository,
	emailLogRepo *repository.EmailLogRepository,
	log *zap.SugaredLogger,
) *AdminHandler {
	return &AdminHandler{
		adminRepo:    adminRepo,
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		delRepo:      delRepo,
		settingRepo:  settingRepo,
		emailLogRepo: emailLogRepo,
		log:          log,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		h.log.Errorw("dashboard stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to compute dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *AdminHandler) Users(c *gin.Context) {
	limit, offset := parsePagination(c)
	users, total, err := h.userRepo.List(c.Query("search"), c.Query("role"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "total": total})
}

// PendingProofs lists payment transactions awaiting review.
func (h *AdminHandler) PendingProofs(c *gin.Context) {
	limit, offset := parsePagination(c)
	transactions, err := h.paymentRepo.ListPending(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch pending proofs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": transactions})
}

// PendingDeletions lists contract deletion requests awaiting review.
func (h *AdminHandler) PendingDeletions(c *gin.Context) {
	limit, offset := parsePagination(c)
	requests, err := h.delRepo.ListPending(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch deletion requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": requests})
}

func (h *AdminHandler) Settings(c *gin.Context) {
	settings, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

type updateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EmailLogs lists outbound email attempts, optionally by status.
func (h *AdminHandler) EmailLogs(c *gin.Context) {
	limit, offset := parsePagination(c)
	logs, err := h.emailLogRepo.List(c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch email logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}
