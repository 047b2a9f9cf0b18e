package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/timmy/siscrap/internal/domain"
)

// ProductRow is one product with its market comparison.
type ProductRow struct {
	domain.Product
	MarketValue   decimal.Decimal `json:"marketValue"`
	BelowMarket   bool            `json:"belowMarket"`
	PendingChange bool            `json:"pendingChange"`
}

// State is a point-in-time copy of the view.
type State struct {
	BatchID       int64                 `json:"arquivoId"`
	Page          int                   `json:"page"`
	TotalPages    int                   `json:"totalPages"`
	TotalElements int                   `json:"totalElements"`
	Filter        domain.ProductFilter  `json:"filtros"`
	Rows          []ProductRow          `json:"rows"`
	Summary       domain.ProductSummary `json:"resumo"`
	MarginPercent decimal.Decimal       `json:"margemMedia"`
	Pallets       []string              `json:"pallets"`
	Conditions    []string              `json:"condicoes"`
	PendingCount  int                   `json:"alteracoes"`
	Loading       bool                  `json:"loading"`
	Saving        bool                  `json:"saving"`
	Error         string                `json:"error,omitempty"`
}

// State returns a copy of the current view.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]ProductRow, 0, len(v.products))
	for _, p := range v.products {
		row := ProductRow{Product: p}
		_, row.PendingChange = v.changes[p.ID]
		if p.Status == "SUCESSO" {
			row.MarketValue = ParseBRL(p.MarketPrice)
			row.BelowMarket = p.SalePrice.LessThan(row.MarketValue)
		}
		rows = append(rows, row)
	}

	st := State{
		BatchID:       v.batchID,
		Page:          v.page,
		TotalPages:    v.totalPages,
		TotalElements: v.totalElements,
		Filter:        v.filter,
		Rows:          rows,
		Summary:       v.summary,
		MarginPercent: margin(v.summary),
		Pallets:       append([]string(nil), v.pallets...),
		Conditions:    append([]string(nil), v.conditions...),
		PendingCount:  len(v.changes),
		Loading:       v.loading,
		Saving:        v.saving,
	}
	if v.lastErr != nil {
		st.Error = v.lastErr.Error()
	}
	return st
}

// margin is the estimated profit as a percentage of total sale value.
func margin(s domain.ProductSummary) decimal.Decimal {
	if !s.TotalSale.IsPositive() {
		return decimal.Zero
	}
	return s.EstimatedProfit.Div(s.TotalSale).Mul(decimal.NewFromInt(100)).Round(2)
}
