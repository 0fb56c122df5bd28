package handler

import (
	"net/http"

	"ridgeworks/internal/middleware"
	"ridgeworks/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AffiliateHandler struct {
	affRepo    *repository.AffiliateRepository
	payoutRepo *repository.PayoutRepository
	delRepo    *repository.DeletionRequestRepository
	log        *zap.SugaredLogger
}

func NewAffiliateHandler(
	affRepo *repository.AffiliateRepository,
	payoutRepo *repository.PayoutRepository,
	delRepo *repository.DeletionRequestRepository,
	log *zap.SugaredLogger,
) *AffiliateHandler {
	return &AffiliateHandler{affRepo: affRepo, payoutRepo: payoutRepo, delRepo: delRepo, log: log}
}

func (h *AffiliateHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	affiliates, total, err := h.affRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch affiliates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "affiliates": affiliates, "total": total})
}

// Me returns the affiliate profile of the authenticated user.
func (h *AffiliateHandler) Me(c *gin.Context) {
	af, err := h.affRepo.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no affiliate profile for this account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "affiliate": af})
}

// Stats recomputes referral and earnings figures from contracts and payouts.
func (h *AffiliateHandler) Stats(c *gin.Context) {
	af, err := h.affRepo.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no affiliate profile for this account"})
		return
	}
	stats, err := h.affRepo.Stats(af.ID)
	if err != nil {
		h.log.Errorw("affiliate stats", "affiliate_id", af.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// StatsByID is the admin view of an affiliate's figures.
func (h *AffiliateHandler) StatsByID(c *gin.Context) {
	id := paramID(c, "id")
	if _, err := h.affRepo.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "affiliate not found"})
		return
	}
	stats, err := h.affRepo.Stats(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// Payouts lists the authenticated affiliate's commission payouts.
func (h *AffiliateHandler) Payouts(c *gin.Context) {
	af, err := h.affRepo.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no affiliate profile for this account"})
		return
	}
	limit, offset := parsePagination(c)
	payouts, err := h.payoutRepo.ListByAffiliateID(af.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch payouts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payouts": payouts})
}

type markPaidRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// MarkPayoutPaid records that an admin settled a payout out of band.
func (h *AffiliateHandler) MarkPayoutPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.payoutRepo.MarkPaid(paramID(c, "id"), req.Reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to mark payout paid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "payout marked paid"})
}

// DeletionRequests lists the authenticated affiliate's own deletion requests.
func (h *AffiliateHandler) DeletionRequests(c *gin.Context) {
	af, err := h.affRepo.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no affiliate profile for this account"})
		return
	}
	limit, offset := parsePagination(c)
	requests, err := h.delRepo.ListByAffiliateID(af.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch deletion requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": requests})
}
