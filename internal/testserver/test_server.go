// Package testserver builds a seeded till on in-memory storage for tests.
package testserver

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ganot/fete-till/internal/countlog"
	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/httpapi"
	"github.com/ganot/fete-till/internal/mcp"
	"github.com/ganot/fete-till/internal/sqlite"
	"github.com/ganot/fete-till/internal/till"
)

// Seeded catalog and accounts.
const (
	ItemBlonde = "blonde"
	ItemChips  = "chips"
	ItemCola   = "cola"

	SlotBlonde = 0
	SlotChips  = 40
	SlotCola   = 80

	ClientBob = "Bob"
	JobistAnn = "Ann"
)

// Fixture is a till running on in-memory sqlite and a temporary count archive.
type Fixture struct {
	Till    *till.Till
	DB      *sqlite.DB
	Archive *countlog.Archive
}

// Options tune the fixture.
type Options struct {
	Now    func() time.Time
	Logger *slog.Logger
	// Setup runs against the stores before the till starts up.
	Setup func(t *testing.T, db *sqlite.DB)
}

// NewTill builds a seeded till and runs its startup.
func NewTill(t *testing.T, opts Options) *Fixture {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	archive, err := countlog.Open(filepath.Join(t.TempDir(), "counts.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = archive.Close()
		_ = db.Close()
	})

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tl := till.New(till.Config{
		Sessions: sqlite.NewSessionStore(db),
		Archive:  archive,
		Catalog:  sqlite.NewCatalogRepository(db),
		Clients:  sqlite.NewClientRepository(db),
		Sales:    sqlite.NewSaleRepository(db),
		Activity: sqlite.NewActivityRepository(db),
		Now:      opts.Now,
		Logger:   logger,
	})
	seed(t, tl)

	if opts.Setup != nil {
		opts.Setup(t, db)
	}
	_, err = tl.Startup(context.Background())
	require.NoError(t, err)

	return &Fixture{Till: tl, DB: db, Archive: archive}
}

func seed(t *testing.T, tl *till.Till) {
	t.Helper()
	ctx := context.Background()

	items := []catalog.Item{
		{ID: ItemBlonde, Name: "Blonde", Category: "beer", Prices: prices("3.00", "2.00", "")},
		{ID: ItemChips, Name: "Chips", Category: "snack", Prices: prices("1.50", "", "")},
		{ID: ItemCola, Name: "Cola", Category: "soft", Prices: prices("2.00", "1.00", "0.50")},
	}
	for _, item := range items {
		_, err := tl.Catalog.Create(ctx, item)
		require.NoError(t, err)
	}
	require.NoError(t, tl.Catalog.AssignButton(ctx, SlotBlonde, ItemBlonde))
	require.NoError(t, tl.Catalog.AssignButton(ctx, SlotChips, ItemChips))
	require.NoError(t, tl.Catalog.AssignButton(ctx, SlotCola, ItemCola))

	_, err := tl.Clients.Create(ctx, client.CreateRequest{Name: ClientBob, Limit: decimal.NewFromInt(-10)})
	require.NoError(t, err)
	_, err = tl.Clients.Create(ctx, client.CreateRequest{Name: JobistAnn, IsJobist: true})
	require.NoError(t, err)
}

func prices(normal, reduced, free string) map[order.PriceTier]decimal.Decimal {
	out := make(map[order.PriceTier]decimal.Decimal)
	for tier, v := range map[order.PriceTier]string{
		order.TierNormal:  normal,
		order.TierReduced: reduced,
		order.TierFree:    free,
	} {
		if v != "" {
			out[tier] = decimal.RequireFromString(v)
		}
	}
	return out
}

// TestServer serves a seeded till over REST and MCP.
type TestServer struct {
	*Fixture
	Server *httptest.Server
}

// New starts an httptest server in front of a seeded till.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := NewTill(t, opts)
	router := httpapi.NewRouter(httpapi.Config{
		Till:   fx.Till,
		MCP:    mcp.NewServer(mcp.Config{Till: fx.Till, TransportMode: "http", Logger: opts.Logger}),
		Logger: opts.Logger,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Fixture: fx, Server: server}
}

// URL returns the server URL joined with path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
