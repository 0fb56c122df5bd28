package handler

import (
	"net/http"

	"ridgeworks/internal/middleware"
	"ridgeworks/internal/models"
	"ridgeworks/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientRepo *repository.ClientRepository
	log        *zap.SugaredLogger
}

func NewClientHandler(clientRepo *repository.ClientRepository, log *zap.SugaredLogger) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo, log: log}
}

type createClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
}

// Create registers a client record ahead of any user account. The record is
// linked to a user later when that email signs up.
func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if existing, err := h.clientRepo.GetByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "client with this email already exists", "client": existing})
		return
	}
	client := &models.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Address: req.Address,
	}
	if err := h.clientRepo.Create(client); err != nil {
		h.log.Errorw("create client", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create client"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "client": client})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "client": client})
}

func (h *ClientHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	clients, total, err := h.clientRepo.List(c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clients": clients, "total": total})
}

type updateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, err := h.clientRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "client not found"})
		return
	}
	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if err := h.clientRepo.Update(client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "client": client})
}

// Me returns the client record linked to the authenticated user.
func (h *ClientHandler) Me(c *gin.Context) {
	client, err := h.clientRepo.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no client profile for this account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "client": client})
}
