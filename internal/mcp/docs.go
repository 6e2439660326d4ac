package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `fete-till runs the cash register of a village fête bar: one till, one order at a time, one session per trading period.

Core concepts:
- Session: a trading period bounded by an opening and a closing cash count. Sales are booked against the open session.
- Lifecycle: closed -> counting_before -> open -> counting_after -> closed.
- Order: the lines being rung up. A line's unit price is fixed when the line is added; changing the tier only affects later lines.
- Action: increment, decrement or delete, armed with set_action and applied to selected lines with fire.
- Stale session: one left open for more than the stale limit (12h by default). It must be force-closed or resumed before anything else.

Default workflow:
1) Orient: call till_status.
2) If a stale session is reported, call force_close_stale or resume_stale.
3) Open: start_session, then submit_opening_count.
4) Sell: add_item or press_button, adjust with set_action + fire, then commit_sale (client_name charges an account).
5) Close: request_close (order must be empty), then submit_closing_count.

Amounts are decimal strings ("12.50"). Omit amount when the till was not counted.

Docs:
- till://docs/index
- till://docs/lifecycle
- till://docs/orders
- till://docs/accounts
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "till://docs/index",
		Name:        "docs_index",
		Title:       "fete-till docs index",
		Description: "Entry point: which doc to read for which task.",
		Content: `# fete-till: Docs Index

## Quick start

1. ` + "`till_status`" + ` to see the state, the session and the order.
2. ` + "`start_session`" + ` + ` + "`submit_opening_count`" + ` when the till is closed.
3. ` + "`press_button`" + ` / ` + "`add_item`" + ` to ring items up, ` + "`commit_sale`" + ` to book them.
4. ` + "`request_close`" + ` + ` + "`submit_closing_count`" + ` at the end of the day.

## Docs

- ` + "`till://docs/lifecycle`" + `: states, counts and stale sessions.
- ` + "`till://docs/orders`" + `: lines, tiers, actions and the menu grid.
- ` + "`till://docs/accounts`" + `: charging clients and jobist accounts.
`,
	},
	{
		URI:         "till://docs/lifecycle",
		Name:        "docs_lifecycle",
		Title:       "Session lifecycle",
		Description: "Lifecycle states, cash counts and stale session handling.",
		Content: `# Session lifecycle

| State | Allowed calls |
|---|---|
| closed | start_session, force_close_stale, resume_stale |
| counting_before | submit_opening_count, cancel_count |
| open | sales, record_interim_count, request_close |
| counting_after | submit_closing_count, cancel_count |

## Counts

- A count carries the jobists on duty and an optional amount.
- An amount below the threshold (0.01 by default) is stored as "not counted".
- The opening count opens a new session; the closing count finalizes it.
- Every count is logged, and the latest of each kind is archived and shown by ` + "`till_status`" + `.
- ` + "`record_interim_count`" + ` amends the open session without changing state.

## Stale sessions

At startup a session left open for longer than the stale limit is held. ` + "`start_session`" + ` answers STALE_SESSION_PENDING until you call:

- ` + "`force_close_stale`" + `: finalize it with the close amount already on file.
- ` + "`resume_stale`" + `: keep trading on it.

## Failures

PERSISTENCE_ERROR means the store write failed and the state did not change. Retry the same call.
`,
	},
	{
		URI:         "till://docs/orders",
		Name:        "docs_orders",
		Title:       "Orders",
		Description: "How order lines, price tiers, actions and the menu grid behave.",
		Content: `# Orders

- Adding an item already on the order adds one unit to its line at the line's original price.
- A new line is priced at the current tier: normal, reduced or free. Free costs nothing unless the catalog prices it.
- ` + "`set_action`" + ` arms increment, decrement or delete. ` + "`fire`" + ` applies it to the selected item ids; unknown ids are ignored.
- Decrementing a line to zero removes it.
- The total is exact; it is displayed rounded to two decimals.

## Menu grid

4 pages (Beers, Snacks, Softs, Misc) of 8 rows by 5 columns. Slot = col + row*5 + page*40, from 0 to 159.
`,
	},
	{
		URI:         "till://docs/accounts",
		Name:        "docs_accounts",
		Title:       "Client accounts",
		Description: "Charging a sale to a client account.",
		Content: `# Client accounts

- ` + "`commit_sale`" + ` with ` + "`client_name`" + ` debits the account by the order total.
- The balance may not drop below the account limit; the sale is refused with LIMIT_EXCEEDED and the order is kept.
- Jobists are the volunteers running the bar; ` + "`list_clients`" + ` with ` + "`jobists_only`" + ` lists them for counts.
- ` + "`create_client`" + ` opens an account; limits run from -10 to 0 and lower limits are raised to -10.
- ` + "`deposit`" + ` credits cash handed over by a client.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
