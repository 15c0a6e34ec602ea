package api

import (
	"net/http"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/marketplace"
	"github.com/gorilla/mux"
)

type listRequest struct {
	Collection entity.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
	Price      entity.Wei     `json:"price"`
}

type buyRequest struct {
	Payment entity.Wei `json:"payment"`
}

type bulkBuyRequest struct {
	Items []marketplace.BuyItem `json:"items"`
}

type feeRequest struct {
	Fee entity.Wei `json:"fee"`
}

type recipientRequest struct {
	Recipient entity.Address `json:"recipient"`
}

func (s Server) handleList(w http.ResponseWriter, r *http.Request) {
	caller, err := getCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req listRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := s.market.ListToken(r.Context(), caller, req.Collection, req.TokenId, req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, listing)
}

func (s Server) handleGetListings(w http.ResponseWriter, r *http.Request) {
	listings := s.market.ActiveListings()

	if filter := r.URL.Query().Get("collection"); filter != "" {
		address, err := entity.ParseAddress(filter)
		if err != nil {
			writeError(w, r, err)
			return
		}

		filtered := make([]entity.Listing, 0)
		for _, l := range listings {
			if l.Collection == address {
				filtered = append(filtered, l)
			}
		}
		listings = filtered
	}

	writeJSON(w, http.StatusOK, listings)
}

func (s Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := s.market.GetListing(address, tokenId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (s Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := s.market.CancelListToken(r.Context(), caller, address, tokenId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (s Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tokenId, err := getTokenId(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req buyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sale, err := s.market.BuyToken(r.Context(), caller, address, tokenId, req.Payment)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sale)
}

func (s Server) handleBuyBulk(w http.ResponseWriter, r *http.Request) {
	caller, err := getCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req bulkBuyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sales, err := s.market.BuyTokensBulk(r.Context(), caller, req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sales)
}

func (s Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	if s.saleRepo == nil {
		writeError(w, r, ErrUnavailable)
		return
	}

	sale, err := s.saleRepo.GetSale(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sale)
}

func (s Server) handleGetPlatform(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.Platform())
}

func (s Server) handleUpdatePlatformFee(w http.ResponseWriter, r *http.Request) {
	caller, err := getCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req feeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	platform, err := s.market.UpdatePlatformFee(caller, req.Fee)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, platform)
}

func (s Server) handleChangeFeeRecipient(w http.ResponseWriter, r *http.Request) {
	caller, err := getCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req recipientRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	platform, err := s.market.ChangeFeeRecipient(caller, req.Recipient)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, platform)
}
