package api

import (
	"net/http"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"go.uber.org/zap"
)

type amountRequest struct {
	Amount entity.Wei `json:"amount"`
}

type accountResponse struct {
	Address entity.Address `json:"address"`
	Bech32  string         `json:"bech32"`
	Balance entity.Wei     `json:"balance"`
}

func (s Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{address, address.Bech32(), s.ledger.BalanceOf(address)})
}

// handleDeposit credits funds received by the payment gateway.
func (s Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req amountRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := s.ledger.Deposit(address, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	zap.L().With(zap.String("account", address.String()), zap.String("amount", req.Amount.String())).Info("API: Deposit")
	writeJSON(w, http.StatusOK, accountResponse{address, address.Bech32(), balance})
}

func (s Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if caller != address {
		writeError(w, r, ErrForbiddenAccount)
		return
	}

	var req amountRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := s.ledger.Withdraw(address, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	zap.L().With(zap.String("account", address.String()), zap.String("amount", req.Amount.String())).Info("API: Withdraw")
	writeJSON(w, http.StatusOK, accountResponse{address, address.Bech32(), balance})
}
