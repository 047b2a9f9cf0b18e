package domain

import (
	"io"
)

// BatchStatus is the processing state of an uploaded spreadsheet.
type BatchStatus string

const (
	BatchProcessing BatchStatus = "processing"
	BatchReview     BatchStatus = "review"
	BatchCompleted  BatchStatus = "completed"
	BatchError      BatchStatus = "error"
)

// Batch is one uploaded spreadsheet ("arquivo") and its scrape progress.
type Batch struct {
	ID         int64       `json:"id"`
	FileName   string      `json:"fileName"`
	UploadDate string      `json:"uploadDate"`
	Processed  int         `json:"processed"`
	Total      int         `json:"total"`
	Status     BatchStatus `json:"status"`
}

// UploadConfig maps spreadsheet columns for the server-side parser.
type UploadConfig struct {
	ProductColumn   string  `json:"colunaProduto"`
	EndColumn       string  `json:"colunaFim"`
	PriceColumn     string  `json:"colunaPreco"`
	QuantityColumn  string  `json:"colunaQtd,omitempty"`
	ConditionColumn string  `json:"colunaCondicao"`
	PalletColumn    string  `json:"colunaCodPallet"`
	CategoryColumn  string  `json:"colunaCategoria,omitempty"`
	StartRow        int     `json:"linhaInicio"`
	CostPercent     float64 `json:"percentualCusto"`
	ProfitPercent   float64 `json:"percentualLucro"`
}

// Download is a streamed binary response. Callers must close Body.
type Download struct {
	ContentDisposition string
	ContentType        string
	Size               int64 // -1 when unknown
	Body               io.ReadCloser
}
