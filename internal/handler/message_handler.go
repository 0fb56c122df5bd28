package handler

import (
	"fmt"
	"net/http"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/middleware"
	"ridgeworks/internal/models"
	"ridgeworks/internal/repository"
	"ridgeworks/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler is the per-contract message thread between the parties.
type MessageHandler struct {
	msgRepo      *repository.MessageRepository
	contractRepo *repository.ContractRepository
	clientRepo   *repository.ClientRepository
	affRepo      *repository.AffiliateRepository
	events       service.EventSink
	log          *zap.SugaredLogger
}

func NewMessageHandler(
	msgRepo *repository.MessageRepository,
	contractRepo *repository.ContractRepository,
	clientRepo *repository.ClientRepository,
	affRepo *repository.AffiliateRepository,
	events service.EventSink,
	log *zap.SugaredLogger,
) *MessageHandler {
	return &MessageHandler{
		msgRepo:      msgRepo,
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		affRepo:      affRepo,
		events:       events,
		log:          log,
	}
}

// party checks thread access and returns the other participants' user IDs.
func (h *MessageHandler) party(c *gin.Context, contract *models.Contract) (ok bool, others []uint) {
	actor := middleware.GetActor(c)

	var clientUID, affiliateUID uint
	if cl, err := h.clientRepo.GetByID(contract.ClientID); err == nil && cl.UserID != nil {
		clientUID = *cl.UserID
	}
	if contract.AffiliateID != nil {
		if af, err := h.affRepo.GetByID(*contract.AffiliateID); err == nil {
			affiliateUID = af.UserID
		}
	}

	switch actor.Role {
	case domain.RoleAdmin:
		ok = true
	case domain.RoleClient:
		ok = clientUID == actor.ID
	case domain.RoleAffiliate:
		ok = affiliateUID == actor.ID
	}
	if !ok {
		return false, nil
	}
	for _, uid := range []uint{clientUID, affiliateUID} {
		if uid != 0 && uid != actor.ID {
			others = append(others, uid)
		}
	}
	return true, others
}

func (h *MessageHandler) List(c *gin.Context) {
	contract, err := h.contractRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	ok, _ := h.party(c, contract)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	limit, offset := parsePagination(c)
	messages, err := h.msgRepo.ListByContractID(contract.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	contract, err := h.contractRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	ok, others := h.party(c, contract)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	actor := middleware.GetActor(c)
	msg := &models.Message{
		ContractID: contract.ID,
		SenderID:   actor.ID,
		SenderRole: actor.Role,
		Body:       req.Body,
	}
	if err := h.msgRepo.Create(msg); err != nil {
		h.log.Errorw("send message", "contract_id", contract.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to send message"})
		return
	}

	h.events.Dispatch(c.Request.Context(), service.Event{
		Type:           domain.NotifNewMessage,
		ContractID:     contract.ID,
		ContractNumber: contract.ContractNumber,
		Status:         contract.Status,
		Actor:          actor,
		NotifyUserIDs:  others,
		NotifyAdmins:   actor.Role != domain.RoleAdmin,
		Title:          "New message",
		Message:        fmt.Sprintf("New message on contract %s", contract.ContractNumber),
		Link:           fmt.Sprintf("/contracts/%d/messages", contract.ID),
	})
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	contract, err := h.contractRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	ok, _ := h.party(c, contract)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	if err := h.msgRepo.MarkReadForReader(contract.ID, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to mark messages read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	contract, err := h.contractRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	ok, _ := h.party(c, contract)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}
	count, err := h.msgRepo.UnreadCount(contract.ID, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to count messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
