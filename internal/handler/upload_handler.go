package handler

import (
	"net/http"
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/middleware"
	"ridgeworks/internal/repository"
	"ridgeworks/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadHandler handles identity document uploads attached to a contract.
type UploadHandler struct {
	contractRepo *repository.ContractRepository
	clientRepo   *repository.ClientRepository
	storage      cloudinary.Client
	log          *zap.SugaredLogger
}

func NewUploadHandler(
	contractRepo *repository.ContractRepository,
	clientRepo *repository.ClientRepository,
	storage cloudinary.Client,
	log *zap.SugaredLogger,
) *UploadHandler {
	return &UploadHandler{contractRepo: contractRepo, clientRepo: clientRepo, storage: storage, log: log}
}

// IDCard uploads the caller's ID card image and attaches it to the contract
// on the side matching the caller's role.
func (h *UploadHandler) IDCard(c *gin.Context) {
	contract, err := h.contractRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "contract not found"})
		return
	}
	actor := middleware.GetActor(c)

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleClient:
		cl, err := h.clientRepo.GetByUserID(actor.ID)
		if err != nil || cl.ID != contract.ClientID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
		return
	}

	fh, err := c.FormFile("id_card")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id_card file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read id_card file"})
		return
	}
	defer f.Close()

	key := cloudinary.ArtifactKey(actor.ID, contract.ID, "idcard", time.Now())
	url, err := h.storage.UploadImage(c.Request.Context(), f, domain.BucketIDCards, key)
	if err != nil {
		h.log.Errorw("upload id card", "contract_id", contract.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload failed"})
		return
	}

	if actor.Role == domain.RoleAdmin {
		contract.AdminIDCardURL = url
	} else {
		contract.ClientIDCardURL = url
	}
	if err := h.contractRepo.Save(contract); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save contract"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
