package handlers

import (
	"net/http"

	"github.com/waste3d/tianji-twin-api/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	wallet *usecase.WalletUseCase
}

func NewWalletHandler(wallet *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	balance, err := h.wallet.Balance(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"balance": balance})
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	list, err := h.wallet.Transactions(c.Request.Context(), userID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(list))
	for _, t := range list {
		items = append(items, gin.H{
			"id":            t.ID,
			"amount":        t.Amount,
			"reason":        t.Reason,
			"balance_after": t.BalanceAfter,
			"created_at":    t.CreatedAt,
		})
	}
	respondData(c, http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}
