package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"solana-wallet-lab/internal/correlation"
	"solana-wallet-lab/internal/domain"
	"solana-wallet-lab/internal/idhash"
	"solana-wallet-lab/internal/observability"
	"solana-wallet-lab/internal/pubkey"
	"solana-wallet-lab/internal/reporting"
	"solana-wallet-lab/internal/storage"
)

// correlator runs correlation over cohort configs.
type correlator interface {
	Correlate(ctx context.Context, configs []domain.CohortConfig, policy domain.MatchPolicy) ([]*domain.CorrelatedWallet, error)
}

// walletProvider serves cohort, history and metadata lookups.
type walletProvider interface {
	FetchBuyers(ctx context.Context, mint string) ([]*domain.BuyerRecord, error)
	FetchWalletHistory(ctx context.Context, wallet string, limit int) ([]domain.WalletTrade, error)
	GetTokenMetadata(ctx context.Context, mint string) (*domain.TokenMetadata, error)
}

// server wires the HTTP API to the engine, provider and stores.
type server struct {
	engine        correlator
	provider      walletProvider
	listStore     storage.WalletListStore
	activityStore storage.ActivityArchiveStore
	logger        *log.Logger
	metrics       *observability.Metrics

	now func() int64 // injectable clock
}

func newServer(engine correlator, provider walletProvider, listStore storage.WalletListStore, activityStore storage.ActivityArchiveStore, logger *log.Logger, metrics *observability.Metrics) *server {
	return &server{
		engine:        engine,
		provider:      provider,
		listStore:     listStore,
		activityStore: activityStore,
		logger:        logger,
		metrics:       metrics,
		now:           func() int64 { return time.Now().Unix() },
	}
}

// routes builds the HTTP mux.
func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/correlate", s.handleCorrelate)
	mux.HandleFunc("GET /api/tokens/{mint}/buyers", s.handleTokenBuyers)
	mux.HandleFunc("GET /api/tokens/{mint}/metadata", s.handleTokenMetadata)
	mux.HandleFunc("GET /api/wallets/{address}/history", s.handleWalletHistory)
	mux.HandleFunc("GET /api/wallets/{address}/activity", s.handleWalletActivity)

	mux.HandleFunc("POST /api/lists", s.handleCreateList)
	mux.HandleFunc("GET /api/lists", s.handleGetLists)
	mux.HandleFunc("GET /api/lists/{id}", s.handleGetList)
	mux.HandleFunc("PATCH /api/lists/{id}", s.handleRenameList)
	mux.HandleFunc("DELETE /api/lists/{id}", s.handleDeleteList)
	mux.HandleFunc("POST /api/lists/{id}/wallets", s.handleAppendWallets)
	mux.HandleFunc("DELETE /api/lists/{id}/wallets/{address}", s.handleRemoveWallet)
	mux.HandleFunc("GET /api/lists/{id}/export", s.handleExportList)

	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}

// --- request/response shapes ---

type cohortFilterRequest struct {
	MinBuyAmount float64  `json:"min_buy_amount,omitempty"`
	BeforeTime   int64    `json:"before_time,omitempty"`
	PnLCondition string   `json:"pnl_condition,omitempty"`
	MinPnL       *float64 `json:"min_pnl,omitempty"`
}

type cohortRequest struct {
	Mint   string              `json:"mint"`
	Filter cohortFilterRequest `json:"filter"`
}

type correlateRequest struct {
	Policy  string          `json:"policy"`
	Cohorts []cohortRequest `json:"cohorts"`
}

type correlateResponse struct {
	Policy  string                     `json:"policy"`
	Count   int                        `json:"count"`
	Wallets []*domain.CorrelatedWallet `json:"wallets"`
}

type createListRequest struct {
	Name    string                   `json:"name"`
	Wallets []domain.WalletListEntry `json:"wallets,omitempty"`
}

type renameListRequest struct {
	Name string `json:"name"`
}

type appendWalletsRequest struct {
	Wallets []domain.WalletListEntry `json:"wallets"`
}

type appendWalletsResponse struct {
	Added int `json:"added"`
}

type listSummaryResponse struct {
	ListID       string  `json:"list_id"`
	Name         string  `json:"name"`
	CreatedAt    int64   `json:"created_at"`
	WalletCount  int     `json:"wallet_count"`
	TotalPnL     float64 `json:"total_pnl"`
	AvgRiskScore float64 `json:"avg_risk_score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- handlers ---

func (s *server) handleCorrelate(w http.ResponseWriter, r *http.Request) {
	var req correlateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Cross-referencing a single cohort is meaningless.
	if len(req.Cohorts) < 2 {
		s.writeError(w, http.StatusBadRequest, "at least 2 cohorts are required")
		return
	}

	configs := make([]domain.CohortConfig, 0, len(req.Cohorts))
	for _, c := range req.Cohorts {
		if err := pubkey.Validate(c.Mint); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid mint: "+c.Mint)
			return
		}
		configs = append(configs, domain.CohortConfig{
			Mint: c.Mint,
			Filter: domain.CohortFilter{
				MinBuyAmount: c.Filter.MinBuyAmount,
				BeforeTime:   c.Filter.BeforeTime,
				PnLCondition: domain.PnLCondition(c.Filter.PnLCondition),
				MinPnL:       c.Filter.MinPnL,
			},
		})
	}

	policy := domain.MatchPolicy(req.Policy)
	wallets, err := s.engine.Correlate(r.Context(), configs, policy)
	if err != nil {
		var re *correlation.RetrievalError
		switch {
		case errors.As(err, &re):
			s.logger.Printf("correlation retrieval failed: %v", err)
			s.writeError(w, http.StatusBadGateway, err.Error())
		case errors.Is(err, correlation.ErrUnknownPolicy), errors.Is(err, correlation.ErrNoCohorts):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Printf("correlation failed: %v", err)
			s.writeError(w, http.StatusInternalServerError, "correlation failed")
		}
		return
	}

	if wallets == nil {
		wallets = []*domain.CorrelatedWallet{}
	}
	s.writeJSON(w, http.StatusOK, correlateResponse{
		Policy:  req.Policy,
		Count:   len(wallets),
		Wallets: wallets,
	})
}

func (s *server) handleTokenBuyers(w http.ResponseWriter, r *http.Request) {
	mint := r.PathValue("mint")
	if err := pubkey.Validate(mint); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid mint")
		return
	}

	buyers, err := s.provider.FetchBuyers(r.Context(), mint)
	if err != nil {
		s.logger.Printf("fetch buyers %s: %v", mint, err)
		s.writeError(w, http.StatusBadGateway, "cohort retrieval failed")
		return
	}
	if buyers == nil {
		buyers = []*domain.BuyerRecord{}
	}
	s.writeJSON(w, http.StatusOK, buyers)
}

func (s *server) handleTokenMetadata(w http.ResponseWriter, r *http.Request) {
	mint := r.PathValue("mint")
	if err := pubkey.Validate(mint); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid mint")
		return
	}

	meta, err := s.provider.GetTokenMetadata(r.Context(), mint)
	if err != nil {
		s.logger.Printf("token metadata %s: %v", mint, err)
		s.writeError(w, http.StatusBadGateway, "metadata retrieval failed")
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}

func (s *server) handleWalletHistory(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := pubkey.Validate(address); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	limit := parseLimit(r, 100)
	trades, err := s.provider.FetchWalletHistory(r.Context(), address, limit)
	if err != nil {
		s.logger.Printf("wallet history %s: %v", address, err)
		s.writeError(w, http.StatusBadGateway, "history retrieval failed")
		return
	}
	if trades == nil {
		trades = []domain.WalletTrade{}
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *server) handleWalletActivity(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := pubkey.Validate(address); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	limit := parseLimit(r, 100)
	rows, err := s.activityStore.GetByWallet(r.Context(), address, limit)
	if err != nil {
		s.logger.Printf("wallet activity %s: %v", address, err)
		s.writeError(w, http.StatusInternalServerError, "activity lookup failed")
		return
	}
	if rows == nil {
		rows = []*domain.WalletActivity{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	createdAt := s.now()
	list := &domain.WalletList{
		ListID:    idhash.ComputeListID(req.Name, createdAt),
		Name:      req.Name,
		CreatedAt: createdAt,
		Wallets:   req.Wallets,
	}
	for i := range list.Wallets {
		if list.Wallets[i].AddedAt == 0 {
			list.Wallets[i].AddedAt = createdAt
		}
	}

	if err := s.listStore.Insert(r.Context(), list); err != nil {
		s.writeStorageError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ListWalletsAppended.Add(float64(len(list.Wallets)))
	}
	s.writeJSON(w, http.StatusCreated, list)
}

func (s *server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.listStore.GetAll(r.Context())
	if err != nil {
		s.logger.Printf("get lists: %v", err)
		s.writeError(w, http.StatusInternalServerError, "list lookup failed")
		return
	}

	out := make([]listSummaryResponse, 0, len(lists))
	for _, list := range lists {
		summary := reporting.Summarize(list)
		out = append(out, listSummaryResponse{
			ListID:       list.ListID,
			Name:         list.Name,
			CreatedAt:    list.CreatedAt,
			WalletCount:  summary.WalletCount,
			TotalPnL:     summary.TotalPnL,
			AvgRiskScore: summary.AvgRiskScore,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.listStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStorageError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *server) handleRenameList(w http.ResponseWriter, r *http.Request) {
	var req renameListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.listStore.Rename(r.Context(), r.PathValue("id"), req.Name); err != nil {
		s.writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.listStore.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleAppendWallets(w http.ResponseWriter, r *http.Request) {
	var req appendWalletsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := s.now()
	for i := range req.Wallets {
		if req.Wallets[i].AddedAt == 0 {
			req.Wallets[i].AddedAt = now
		}
	}

	added, err := s.listStore.AppendWallets(r.Context(), r.PathValue("id"), req.Wallets)
	if err != nil {
		s.writeStorageError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ListWalletsAppended.Add(float64(added))
	}
	s.writeJSON(w, http.StatusOK, appendWalletsResponse{Added: added})
}

func (s *server) handleRemoveWallet(w http.ResponseWriter, r *http.Request) {
	err := s.listStore.RemoveWallet(r.Context(), r.PathValue("id"), r.PathValue("address"))
	if err != nil {
		s.writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleExportList(w http.ResponseWriter, r *http.Request) {
	list, err := s.listStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	// FormatMediaType escapes the name; a raw quote or newline would
	// corrupt the header.
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": list.Name + ".csv",
	}))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderWalletListCSV(list)))
}

// --- helpers ---

func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return def
	}
	return limit
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeStorageError maps storage sentinels to HTTP statuses.
func (s *server) writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrDuplicateKey):
		s.writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, storage.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, "invalid input")
	default:
		s.logger.Printf("storage error: %v", err)
		s.writeError(w, http.StatusInternalServerError, "storage error")
	}
}
