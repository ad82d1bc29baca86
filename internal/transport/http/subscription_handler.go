package handlers

import (
	"net/http"

	"github.com/waste3d/tianji-twin-api/internal/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	subs *usecase.SubscriptionUseCase
}

func NewSubscriptionHandler(subs *usecase.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

func (h *SubscriptionHandler) Status(c *gin.Context) {
	info, err := h.subs.Status(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, info)
}

func (h *SubscriptionHandler) CheckFeature(c *gin.Context) {
	featurePath := c.Query("featurePath")
	if featurePath == "" {
		respondValidation(c, "featurePath is required")
		return
	}

	decision, err := h.subs.CheckFeature(c.Request.Context(), userID(c), featurePath)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, decision)
}

func (h *SubscriptionHandler) Usage(c *gin.Context) {
	feature := c.Param("feature")
	result, err := h.subs.Usage(c.Request.Context(), userID(c), feature)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

type recordUsageReq struct {
	Feature  string                 `json:"feature" binding:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (h *SubscriptionHandler) RecordUsage(c *gin.Context) {
	var req recordUsageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "feature is required")
		return
	}

	result, err := h.subs.RecordUsage(c.Request.Context(), userID(c), req.Feature, req.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

type createSubscriptionReq struct {
	Tier          string `json:"tier" binding:"required"`
	IsYearly      bool   `json:"isYearly"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req createSubscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "tier is required")
		return
	}

	sub, order, err := h.subs.Create(c.Request.Context(), userID(c), req.Tier, req.IsYearly, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"subscription": gin.H{
			"id":       sub.ID,
			"tier":     sub.Tier,
			"status":   sub.Status,
			"isYearly": sub.IsYearly,
		},
		"order": gin.H{
			"orderId":     order.ID,
			"amountCents": order.AmountCents,
			"status":      order.Status,
		},
	})
}

func (h *SubscriptionHandler) CheckExpired(c *gin.Context) {
	swept, err := h.subs.CheckExpired(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"expired": swept})
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	if err := h.subs.Cancel(c.Request.Context(), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "subscription cancelled")
}

func (h *SubscriptionHandler) CheckStatus(c *gin.Context) {
	raw := c.Query("orderId")
	if raw == "" {
		respondValidation(c, "orderId is required")
		return
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		respondValidation(c, "orderId must be a uuid")
		return
	}

	order, err := h.subs.CheckOrderStatus(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"orderId":     order.ID,
		"status":      order.Status,
		"amountCents": order.AmountCents,
	})
}

type paymentCallbackReq struct {
	OrderID string `json:"orderId" binding:"required"`
}

// PaymentCallback is hit by the external gateway once a checkout settles.
func (h *SubscriptionHandler) PaymentCallback(c *gin.Context) {
	var req paymentCallbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "orderId is required")
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondValidation(c, "orderId must be a uuid")
		return
	}

	sub, err := h.subs.ConfirmPayment(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"subscriptionId": sub.ID,
		"tier":           sub.Tier,
		"status":         sub.Status,
		"expiresAt":      sub.ExpiresAt,
	})
}
