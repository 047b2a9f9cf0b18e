package export

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/storage"
)

type call struct {
	endpoint string
	pallets  []string
}

type fakeDownloads struct {
	calls []call
	cd    string
	err   error
}

func (f *fakeDownloads) blob() (*domain.Download, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Download{
		ContentDisposition: f.cd,
		Size:               -1,
		Body:               io.NopCloser(strings.NewReader("xlsx")),
	}, nil
}

func (f *fakeDownloads) DownloadAll(context.Context, int64) (*domain.Download, error) {
	f.calls = append(f.calls, call{endpoint: "all"})
	return f.blob()
}

func (f *fakeDownloads) DownloadPallets(_ context.Context, _ int64, p []string) (*domain.Download, error) {
	f.calls = append(f.calls, call{endpoint: "pallets", pallets: p})
	return f.blob()
}

func (f *fakeDownloads) DownloadSismaster(_ context.Context, _ int64, p []string) (*domain.Download, error) {
	f.calls = append(f.calls, call{endpoint: "sismaster", pallets: p})
	return f.blob()
}

func (f *fakeDownloads) DownloadAgent(context.Context) (*domain.Download, error) {
	f.calls = append(f.calls, call{endpoint: "agent"})
	return f.blob()
}

func newExporter(t *testing.T, api DownloadAPI) (*Exporter, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return New(api, store, Config{Prefix: "exports"}), store
}

func TestExport_EmptyPalletsMeansEverything(t *testing.T) {
	for _, pallets := range [][]string{nil, {}, {" ", ""}} {
		api := &fakeDownloads{}
		e, _ := newExporter(t, api)

		_, err := e.Export(context.Background(), Request{BatchID: 1, Schema: SchemaStandard, Pallets: pallets})
		require.NoError(t, err)
		_, err = e.Export(context.Background(), Request{BatchID: 1, Schema: SchemaSismaster, Pallets: pallets})
		require.NoError(t, err)

		require.Len(t, api.calls, 2)
		assert.Equal(t, "all", api.calls[0].endpoint)
		assert.Equal(t, "sismaster", api.calls[1].endpoint)
		assert.NotNil(t, api.calls[1].pallets)
		assert.Empty(t, api.calls[1].pallets)
	}
}

func TestExport_PalletFilter(t *testing.T) {
	api := &fakeDownloads{}
	e, _ := newExporter(t, api)

	_, err := e.Export(context.Background(), Request{BatchID: 1, Pallets: []string{"P1", " P2 ", "P1"}})
	require.NoError(t, err)
	require.Len(t, api.calls, 1)
	assert.Equal(t, "pallets", api.calls[0].endpoint)
	assert.Equal(t, []string{"P1", "P2"}, api.calls[0].pallets)
}

func TestExport_SavesWithHeaderName(t *testing.T) {
	api := &fakeDownloads{cd: `attachment; filename="lote_7.xlsx"`}
	e, store := newExporter(t, api)

	res, err := e.Export(context.Background(), Request{BatchID: 7})
	require.NoError(t, err)
	assert.Equal(t, "lote_7.xlsx", res.FileName)
	assert.Equal(t, int64(4), res.Size)
	assert.True(t, strings.HasPrefix(res.Key, "exports/"))
	assert.True(t, strings.HasSuffix(res.Key, "_lote_7.xlsx"))

	ok, err := store.Exists(context.Background(), res.Key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExport_BackendFailure(t *testing.T) {
	boom := errors.New("boom")
	e, _ := newExporter(t, &fakeDownloads{err: boom})
	_, err := e.Export(context.Background(), Request{BatchID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestDownloadAgent_FixedName(t *testing.T) {
	api := &fakeDownloads{cd: `attachment; filename="main.exe"`}
	e, _ := newExporter(t, api)

	res, err := e.DownloadAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Siscrap.exe", res.FileName)
}

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema("")
	require.NoError(t, err)
	assert.Equal(t, SchemaStandard, s)

	s, err = ParseSchema("SISMASTER")
	require.NoError(t, err)
	assert.Equal(t, SchemaSismaster, s)

	_, err = ParseSchema("csv")
	assert.Error(t, err)
}

func TestResolveFilename(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"quoted", `attachment; filename="resultado_final.xlsx"`, "resultado_final.xlsx"},
		{"bare", `attachment; filename=planilha.xlsx`, "planilha.xlsx"},
		{"missing header", "", "resultado.xlsx"},
		{"no filename", "attachment", "resultado.xlsx"},
		{"path stripped", `attachment; filename="../../etc/x.xlsx"`, "x.xlsx"},
		{"malformed falls back to regex", `attachment; filename="a b.xlsx"; broken=`, "a b.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFilename(tt.header, "resultado.xlsx"))
		})
	}
}
