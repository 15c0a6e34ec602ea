package api

import (
	"fmt"
	"net/http"

	"github.com/ZilDuck/elysium-marketplace/internal/factory"
	"github.com/ZilDuck/elysium-marketplace/internal/ledger"
	"github.com/ZilDuck/elysium-marketplace/internal/marketplace"
	"github.com/ZilDuck/elysium-marketplace/internal/metadata"
	"github.com/ZilDuck/elysium-marketplace/internal/repository"
	"github.com/gorilla/mux"
)

// CallerHeader carries the address of the account performing the request. It is
// set by the signing gateway in front of the API.
const CallerHeader = "X-Caller-Address"

type Server struct {
	factory         factory.Factory
	market          marketplace.Engine
	ledger          ledger.Ledger
	metadataService metadata.Service
	actionRepo      repository.ActionRepository
	saleRepo        repository.SaleRepository
}

// NewServer builds the HTTP surface of the marketplace. The repositories and the
// metadata service are optional, their routes answer 503 when absent.
func NewServer(
	factory factory.Factory,
	market marketplace.Engine,
	ledger ledger.Ledger,
	metadataService metadata.Service,
	actionRepo repository.ActionRepository,
	saleRepo repository.SaleRepository,
) Server {
	return Server{factory, market, ledger, metadataService, actionRepo, saleRepo}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/collections", s.handleCreateCollection).Methods("POST")
	r.HandleFunc("/collections/{address}", s.handleGetCollection).Methods("GET")
	r.HandleFunc("/collections/{address}/provenance", s.handleProvenance).Methods("GET")
	r.HandleFunc("/collections/{address}/royalty", s.handleUpdateRoyalty).Methods("PUT")
	r.HandleFunc("/collections/{address}/owner", s.handleTransferOwnership).Methods("PUT")
	r.HandleFunc("/collections/{address}/operators", s.handleSetOperator).Methods("POST")
	r.HandleFunc("/collections/{address}/sales", s.handleCollectionSales).Methods("GET")
	r.HandleFunc("/collections/{address}/tokens", s.handleMint).Methods("POST")
	r.HandleFunc("/collections/{address}/tokens", s.handleGetTokens).Methods("GET")
	r.HandleFunc("/collections/{address}/tokens/{tokenId}", s.handleGetToken).Methods("GET")
	r.HandleFunc("/collections/{address}/tokens/{tokenId}", s.handleBurn).Methods("DELETE")
	r.HandleFunc("/collections/{address}/tokens/{tokenId}/approve", s.handleApprove).Methods("POST")
	r.HandleFunc("/collections/{address}/tokens/{tokenId}/transfer", s.handleTransfer).Methods("POST")
	r.HandleFunc("/collections/{address}/tokens/{tokenId}/metadata", s.handleGetMetadata).Methods("GET")
	r.HandleFunc("/collections/{address}/tokens/{tokenId}/activity", s.handleTokenActivity).Methods("GET")
	r.HandleFunc("/users/{owner}/collections", s.handleUserCollections).Methods("GET")

	r.HandleFunc("/listings", s.handleList).Methods("POST")
	r.HandleFunc("/listings", s.handleGetListings).Methods("GET")
	r.HandleFunc("/listings/buy", s.handleBuyBulk).Methods("POST")
	r.HandleFunc("/listings/{address}/{tokenId}", s.handleGetListing).Methods("GET")
	r.HandleFunc("/listings/{address}/{tokenId}", s.handleCancel).Methods("DELETE")
	r.HandleFunc("/listings/{address}/{tokenId}/buy", s.handleBuy).Methods("POST")
	r.HandleFunc("/sales/{id}", s.handleGetSale).Methods("GET")

	r.HandleFunc("/platform", s.handleGetPlatform).Methods("GET")
	r.HandleFunc("/platform/fee", s.handleUpdatePlatformFee).Methods("PUT")
	r.HandleFunc("/platform/recipient", s.handleChangeFeeRecipient).Methods("PUT")

	r.HandleFunc("/accounts/{address}", s.handleGetAccount).Methods("GET")
	r.HandleFunc("/accounts/{address}/deposit", s.handleDeposit).Methods("POST")
	r.HandleFunc("/accounts/{address}/withdraw", s.handleWithdraw).Methods("POST")

	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "page not found"})
	})
}
