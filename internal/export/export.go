// Package export requests generated spreadsheets from the backend and saves them.
package export

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
	"github.com/timmy/siscrap/internal/storage"
)

// Schema is the backend-defined output layout.
type Schema string

const (
	SchemaStandard  Schema = "standard"
	SchemaSismaster Schema = "sismaster"
)

// ParseSchema accepts "" as standard.
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaStandard:
		return SchemaStandard, nil
	case SchemaSismaster:
		return SchemaSismaster, nil
	}
	return "", fmt.Errorf("unknown export schema %q", s)
}

// DownloadAPI is the backend's blob endpoints.
type DownloadAPI interface {
	DownloadAll(ctx context.Context, batchID int64) (*domain.Download, error)
	DownloadPallets(ctx context.Context, batchID int64, pallets []string) (*domain.Download, error)
	DownloadSismaster(ctx context.Context, batchID int64, pallets []string) (*domain.Download, error)
	DownloadAgent(ctx context.Context) (*domain.Download, error)
}

// Request selects what to export. An empty pallet set means every pallet.
type Request struct {
	BatchID int64    `json:"arquivoId"`
	Schema  Schema   `json:"schema"`
	Pallets []string `json:"pallets"`
}

// Result describes a saved file.
type Result struct {
	FileName string `json:"fileName"`
	Key      string `json:"key"`
	Location string `json:"location"`
	Size     int64  `json:"size"`
}

// Config holds the exporter settings.
type Config struct {
	Prefix          string
	DefaultFilename string
	AgentFilename   string
}

// Exporter fetches spreadsheets and writes them to storage.
type Exporter struct {
	api   DownloadAPI
	store storage.ObjectStorage
	cfg   Config
}

// New creates an Exporter.
func New(api DownloadAPI, store storage.ObjectStorage, cfg Config) *Exporter {
	if cfg.DefaultFilename == "" {
		cfg.DefaultFilename = "resultado.xlsx"
	}
	if cfg.AgentFilename == "" {
		cfg.AgentFilename = "Siscrap.exe"
	}
	return &Exporter{api: api, store: store, cfg: cfg}
}

// Fetch opens the spreadsheet stream and resolves its file name. The caller
// closes the body.
func (e *Exporter) Fetch(ctx context.Context, req Request) (*domain.Download, string, error) {
	pallets := normalizePallets(req.Pallets)

	var (
		dl  *domain.Download
		err error
	)
	switch req.Schema {
	case SchemaSismaster:
		dl, err = e.api.DownloadSismaster(ctx, req.BatchID, pallets)
	case SchemaStandard, "":
		if len(pallets) == 0 {
			dl, err = e.api.DownloadAll(ctx, req.BatchID)
		} else {
			dl, err = e.api.DownloadPallets(ctx, req.BatchID, pallets)
		}
	default:
		return nil, "", fmt.Errorf("unknown export schema %q", req.Schema)
	}
	if err != nil {
		return nil, "", err
	}
	return dl, ResolveFilename(dl.ContentDisposition, e.cfg.DefaultFilename), nil
}

// Export fetches the spreadsheet and saves it to storage.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	ctx = logger.SetArquivoID(ctx, req.BatchID)
	start := time.Now()

	dl, name, err := e.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("export batch %d: %w", req.BatchID, err)
	}
	res, err := e.save(ctx, dl, name)
	if err != nil {
		return nil, fmt.Errorf("export batch %d: %w", req.BatchID, err)
	}

	logger.With(logger.Fields{logger.FieldCount: len(req.Pallets)}).
		WithSize(res.Size).
		WithDuration(time.Since(start).Milliseconds()).Info(ctx, "Saved %s export to %s", req.Schema, res.Location)
	return res, nil
}

// DownloadAgent saves the desktop robot installer under its fixed name.
func (e *Exporter) DownloadAgent(ctx context.Context) (*Result, error) {
	dl, err := e.api.DownloadAgent(ctx)
	if err != nil {
		return nil, fmt.Errorf("download agent: %w", err)
	}
	res, err := e.save(ctx, dl, e.cfg.AgentFilename)
	if err != nil {
		return nil, fmt.Errorf("download agent: %w", err)
	}
	logger.With(nil).WithSize(res.Size).Info(ctx, "Saved robot installer to %s", res.Location)
	return res, nil
}

func (e *Exporter) save(ctx context.Context, dl *domain.Download, name string) (*Result, error) {
	defer dl.Body.Close()

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := e.objectKey(name)
	cr := &countingReader{r: dl.Body}
	if err := e.store.Upload(ctx, key, cr, dl.Size, contentType); err != nil {
		return nil, err
	}
	return &Result{
		FileName: name,
		Key:      key,
		Location: e.store.GetURL(key),
		Size:     cr.n,
	}, nil
}

// objectKey is prefix/yyyy/mm/dd/<short-uuid>_<name>.
func (e *Exporter) objectKey(name string) string {
	id := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return path.Join(e.cfg.Prefix, time.Now().Format("2006/01/02"), id+"_"+name)
}

// normalizePallets trims, drops blanks and duplicates, and never returns nil.
func normalizePallets(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
