package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/bizops-hq/bizops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WalletHandler interface {
	GetMyWallet(w http.ResponseWriter, r *http.Request)
	GetWallet(w http.ResponseWriter, r *http.Request)
	Payout(w http.ResponseWriter, r *http.Request)
}

type walletHandlerImpl struct {
	walletService wallet.WalletService
}

func NewWalletHandler(walletService wallet.WalletService) WalletHandler {
	return &walletHandlerImpl{walletService: walletService}
}

// GetMyWallet implements WalletHandler.
func (h *walletHandlerImpl) GetMyWallet(w http.ResponseWriter, r *http.Request) {
	result, err := h.walletService.GetMyWallet(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetWallet implements WalletHandler.
func (h *walletHandlerImpl) GetWallet(w http.ResponseWriter, r *http.Request) {
	result, err := h.walletService.GetWallet(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Payout implements WalletHandler.
func (h *walletHandlerImpl) Payout(w http.ResponseWriter, r *http.Request) {
	var req wallet.PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Payout decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.walletService.Payout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payout recorded", result)
}
