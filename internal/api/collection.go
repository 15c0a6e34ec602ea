package api

import (
	"net/http"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"go.uber.org/zap"
)

type createCollectionRequest struct {
	Name             string         `json:"name"`
	Symbol           string         `json:"symbol"`
	RoyaltyFee       uint64         `json:"royaltyFee"`
	RoyaltyRecipient entity.Address `json:"royaltyRecipient"`
}

type mintRequest struct {
	To       entity.Address `json:"to"`
	TokenUri string         `json:"tokenUri"`
}

type approveRequest struct {
	Spender entity.Address `json:"spender"`
}

type operatorRequest struct {
	Operator entity.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

type transferRequest struct {
	From entity.Address `json:"from"`
	To   entity.Address `json:"to"`
}

type royaltyRequest struct {
	RoyaltyFee       *uint64         `json:"royaltyFee"`
	RoyaltyRecipient *entity.Address `json:"royaltyRecipient"`
}

type ownerRequest struct {
	Owner entity.Address `json:"owner"`
}

type provenanceResponse struct {
	Address           entity.Address `json:"address"`
	ElysiumCollection bool           `json:"elysiumCollection"`
}

type collectionsResponse struct {
	Owner       entity.Address   `json:"owner"`
	Collections []entity.Address `json:"collections"`
}

func (s Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	caller, err := getCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createCollectionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RoyaltyRecipient == "" {
		req.RoyaltyRecipient = caller
	}

	c, err := s.factory.CreateCollection(caller, req.Name, req.Symbol, req.RoyaltyFee, req.RoyaltyRecipient)
	if err != nil {
		writeError(w, r, err)
		return
	}

	zap.L().With(zap.String("collection", c.Address.String()), zap.String("creator", caller.String())).Info("API: Collection created")
	writeJSON(w, http.StatusCreated, c)
}

func (s Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c.Info())
}

func (s Server) handleProvenance(w http.ResponseWriter, r *http.Request) {
	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, provenanceResponse{address, s.factory.IsElysiumCollection(address)})
}

func (s Server) handleUserCollections(w http.ResponseWriter, r *http.Request) {
	owner, err := getAddress(r, "owner")
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, collectionsResponse{owner, s.factory.GetUserCollections(owner)})
}

func (s Server) handleUpdateRoyalty(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req royaltyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.RoyaltyFee != nil {
		if err := c.UpdateRoyalty(caller, *req.RoyaltyFee); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.RoyaltyRecipient != nil {
		if err := c.UpdateRoyaltyRecipient(caller, *req.RoyaltyRecipient); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, c.Info())
}

func (s Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req ownerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.TransferOwnership(caller, req.Owner); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c.Info())
}

func (s Server) handleSetOperator(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req operatorRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.SetApprovalForAll(caller, req.Operator, req.Approved); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (s Server) handleMint(w http.ResponseWriter, r *http.Request) {
	caller, address, err := s.callerAndAddress(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req mintRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.To == "" {
		req.To = caller
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := c.Mint(caller, req.To, req.TokenUri)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, token)
}

func (s Server) handleGetTokens(w http.ResponseWriter, r *http.Request) {
	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c.Tokens())
}

func (s Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.token(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (s Server) handleBurn(w http.ResponseWriter, r *http.Request) {
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

	token, err := s.market.BurnToken(r.Context(), caller, address, tokenId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (s Server) handleApprove(w http.ResponseWriter, r *http.Request) {
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

	var req approveRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Approve(caller, req.Spender, tokenId); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (s Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
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

	var req transferRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.From == "" {
		if req.From, err = c.OwnerOf(tokenId); err != nil {
			writeError(w, r, err)
			return
		}
	}

	token, err := c.Transfer(caller, req.From, req.To, tokenId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (s Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	if s.metadataService == nil {
		writeError(w, r, ErrUnavailable)
		return
	}

	token, err := s.token(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := s.metadataService.FetchMetadata(token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (s Server) handleTokenActivity(w http.ResponseWriter, r *http.Request) {
	if s.actionRepo == nil {
		writeError(w, r, ErrUnavailable)
		return
	}

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

	actions, err := s.actionRepo.GetActions(r.Context(), address, tokenId, getSize(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actions)
}

func (s Server) handleCollectionSales(w http.ResponseWriter, r *http.Request) {
	if s.saleRepo == nil {
		writeError(w, r, ErrUnavailable)
		return
	}

	address, err := getAddress(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	sales, err := s.saleRepo.GetSales(r.Context(), address, getSize(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sales)
}

func (s Server) token(r *http.Request) (entity.Token, error) {
	address, err := getAddress(r, "address")
	if err != nil {
		return entity.Token{}, err
	}
	tokenId, err := getTokenId(r)
	if err != nil {
		return entity.Token{}, err
	}

	c, err := s.factory.GetCollection(address)
	if err != nil {
		return entity.Token{}, err
	}

	return c.Token(tokenId)
}

func (s Server) callerAndAddress(r *http.Request) (entity.Address, entity.Address, error) {
	caller, err := getCaller(r)
	if err != nil {
		return "", "", err
	}

	address, err := getAddress(r, "address")
	if err != nil {
		return "", "", err
	}

	return caller, address, nil
}
