package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hzein/exchange"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

type createTransactionRequest struct {
	Type     string `json:"type"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Rate     string `json:"rate,omitempty"`
	Customer string `json:"customer,omitempty"`
	IDCard   string `json:"id_card,omitempty"`
}

type createTransactionResponse struct {
	Transaction *exchange.Transaction `json:"transaction"`
	Shortfall   *exchange.Amount      `json:"shortfall,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	kind, err := exchange.ParseTxType(req.Type)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", exchange.ErrValidation, err))
		return
	}
	amount, err := exchange.ParseAmount(req.Amount)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: bad amount: %v", exchange.ErrValidation, err))
		return
	}

	var rate exchange.Rate
	if req.Rate != "" {
		rate, err = exchange.ParseRate(req.Rate)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: bad rate: %v", exchange.ErrValidation, err))
			return
		}
	} else {
		// No explicit rate: resolve the configured one for this direction.
		rate, err = s.rates.Resolve(r.Context(), req.Currency, kind)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	entry := exchange.Entry{
		Currency: req.Currency,
		Amount:   amount,
		Rate:     rate,
		Customer: req.Customer,
		IDCard:   req.IDCard,
	}
	actor := actorFrom(r.Context())

	switch kind {
	case exchange.TxBuy:
		tx, err := s.ledger.RecordBuy(r.Context(), actor, entry)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createTransactionResponse{Transaction: tx})
	case exchange.TxSell:
		tx, shortfall, err := s.ledger.RecordSell(r.Context(), actor, entry)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp := createTransactionResponse{Transaction: tx}
		if !shortfall.IsZero() {
			resp.Shortfall = &shortfall
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

type voidRequest struct {
	Reason string `json:"reason"`
}

type voidResponse struct {
	Transaction exchange.Transaction `json:"transaction"`
	Reversal    string               `json:"reversal"`
}

func (s *Server) handleVoidTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: bad transaction id", exchange.ErrValidation))
		return
	}
	var req voidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	res, err := s.ledger.Void(r.Context(), actorFrom(r.Context()), id, req.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voidResponse{Transaction: res.Transaction, Reversal: res.Reversal.String()})
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	reports, err := s.ledger.Holdings(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleHolding(w http.ResponseWriter, r *http.Request) {
	report, err := s.ledger.Holding(r.Context(), chi.URLParam(r, "currency"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.rates.All(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

type putRateRequest struct {
	BuyRate  string `json:"buy_rate,omitempty"`
	SellRate string `json:"sell_rate,omitempty"`
	Rate     string `json:"rate,omitempty"`
}

func (s *Server) handlePutRate(w http.ResponseWriter, r *http.Request) {
	var req putRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	var rec exchange.RateRecord
	var err error
	if req.BuyRate != "" {
		if rec.BuyRate, err = exchange.ParseRate(req.BuyRate); err != nil {
			s.writeError(w, fmt.Errorf("%w: bad buy_rate: %v", exchange.ErrValidation, err))
			return
		}
	}
	if req.SellRate != "" {
		if rec.SellRate, err = exchange.ParseRate(req.SellRate); err != nil {
			s.writeError(w, fmt.Errorf("%w: bad sell_rate: %v", exchange.ErrValidation, err))
			return
		}
	}
	if req.Rate != "" {
		if rec.Rate, err = exchange.ParseRate(req.Rate); err != nil {
			s.writeError(w, fmt.Errorf("%w: bad rate: %v", exchange.ErrValidation, err))
			return
		}
	}

	currency := chi.URLParam(r, "currency")
	if err := s.rates.Set(r.Context(), actorFrom(r.Context()), currency, rec); err != nil {
		s.writeError(w, err)
		return
	}
	rates, err := s.rates.All(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates[currency])
}

func (s *Server) handleDeleteRate(w http.ResponseWriter, r *http.Request) {
	if err := s.rates.Delete(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "currency")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exchange.BuildDashboard(txs, time.Now().UTC()))
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.Activity(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Newest first for display.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	writeJSON(w, http.StatusOK, entries)
}
