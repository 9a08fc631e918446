package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Travisswop/swop-redeem-token/internal/model"
	"github.com/Travisswop/swop-redeem-token/internal/service"
	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// Resolver maps a human-readable alias to a claimant address before the
// coordinator is called.
type Resolver interface {
	Resolve(ctx context.Context, recipient string) (string, error)
}

// Handler wires the HTTP surface to the services.
type Handler struct {
	poolSvc   *service.PoolService
	redeemSvc *service.RedeemService
	resolver  Resolver
	logger    *zap.Logger
}

// New creates a Handler
func New(poolSvc *service.PoolService, redeemSvc *service.RedeemService, resolver Resolver, logger *zap.Logger) *Handler {
	return &Handler{
		poolSvc:   poolSvc,
		redeemSvc: redeemSvc,
		resolver:  resolver,
		logger:    logger,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/pools", h.createPool)
		api.GET("/pools", h.listPools)
		api.GET("/pools/:poolId", h.getPool)
		api.GET("/pools/:poolId/redemptions", h.listRedemptions)
		api.POST("/pools/:poolId/redeem", h.redeem)
	}
}

// createPool handles POST /api/pools
func (h *Handler) createPool(c *gin.Context) {
	var req model.CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.poolSvc.CreatePool(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err, "failed to create pool")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getPool handles GET /api/pools/:poolId
func (h *Handler) getPool(c *gin.Context) {
	pool, err := h.poolSvc.GetPool(c.Request.Context(), c.Param("poolId"))
	if err != nil {
		h.writeError(c, err, "failed to get pool")
		return
	}

	c.JSON(http.StatusOK, pool)
}

// listPools handles GET /api/pools?owner=
func (h *Handler) listPools(c *gin.Context) {
	ownerID := c.Query("owner")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query parameter is required"})
		return
	}

	pools, err := h.poolSvc.ListPools(c.Request.Context(), ownerID)
	if err != nil {
		h.writeError(c, err, "failed to list pools")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

// listRedemptions handles GET /api/pools/:poolId/redemptions
func (h *Handler) listRedemptions(c *gin.Context) {
	entries, err := h.redeemSvc.ListRedemptions(c.Request.Context(), c.Param("poolId"))
	if err != nil {
		h.writeError(c, err, "failed to list redemptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemptions": entries})
}

// redeem handles POST /api/pools/:poolId/redeem. The recipient may be an
// alias; it is resolved to a wallet address before the coordinator runs.
func (h *Handler) redeem(c *gin.Context) {
	var req model.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	address, err := h.resolver.Resolve(c.Request.Context(), req.Recipient)
	if err != nil {
		h.logger.Warn("alias resolution failed", zap.String("recipient", req.Recipient), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not resolve recipient"})
		return
	}

	result, err := h.redeemSvc.Redeem(c.Request.Context(), c.Param("poolId"), address)
	if err != nil {
		h.writeError(c, err, "failed to redeem")
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps domain errors to HTTP statuses. Anything outside the
// taxonomy is a storage failure and surfaces as a generic 500.
func (h *Handler) writeError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPoolSpec),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPoolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrPoolNotFound.Error()})
	case errors.Is(err, apperrors.ErrAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": apperrors.ErrAlreadyRedeemed.Error()})
	case errors.Is(err, apperrors.ErrPoolExhausted):
		c.JSON(http.StatusGone, gin.H{"error": apperrors.ErrPoolExhausted.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": apperrors.ErrInsufficientFunds.Error()})
	default:
		h.logger.Error(generic, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}
