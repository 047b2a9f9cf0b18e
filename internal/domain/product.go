package domain

import "github.com/shopspring/decimal"

// Product is one catalog line of a batch.
type Product struct {
	ID          int64           `json:"idProduto"`
	Name        string          `json:"nome"`
	Condition   string          `json:"condicao"`
	PalletCode  string          `json:"codPallet"`
	Barcode     string          `json:"codBarras"`
	Cost        decimal.Decimal `json:"custo"`
	SalePrice   decimal.Decimal `json:"precoVenda"`
	Quantity    int             `json:"qtdProduto"`
	MarketPrice string          `json:"precoMercadoLivre"`
	Status      string          `json:"status"`
}

// ProductSummary aggregates the whole batch catalog.
type ProductSummary struct {
	UniqueItems     int             `json:"totalItensUnicos"`
	PhysicalItems   int             `json:"totalItensFisicos"`
	TotalCost       decimal.Decimal `json:"valorCustoTotal"`
	TotalSale       decimal.Decimal `json:"valorVendaTotal"`
	EstimatedProfit decimal.Decimal `json:"lucroEstimado"`
}

// ProductListing is the catalog endpoint response.
type ProductListing struct {
	Summary *ProductSummary `json:"resumo"`
	Page    *Page[Product]  `json:"pagina"`
}

// ProductFilter narrows the catalog listing.
type ProductFilter struct {
	Search    string `json:"search,omitempty"`
	Pallet    string `json:"pallet,omitempty"`
	Condition string `json:"condicao,omitempty"`
}

// PriceUpdate is one entry of the bulk price edit.
type PriceUpdate struct {
	ProductID int64           `json:"produtoId"`
	NewValue  decimal.Decimal `json:"novoValor"`
}
