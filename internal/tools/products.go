package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

// productSummary is the projection returned to the agent: enough to talk
// about a product without dumping the full catalog record.
type productSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	StockStatus string `json:"stock_status,omitempty"`
	Permalink   string `json:"permalink"`
}

func listProductsTool() Tool {
	return Tool{
		Name:        "listWooProducts",
		Description: "Lists the five most recent products in the store.",
		InputSchema: &jsonschema.Schema{Type: "object"},
		Execute: func(ctx context.Context, client *woo.Client, _ json.RawMessage) (*mcp.CallToolResult, error) {
			resp, err := client.Get(ctx, "products", url.Values{"per_page": {"5"}})
			if err != nil {
				return nil, err
			}

			var products []woo.Product
			if err := resp.Decode(&products); err != nil {
				return nil, fmt.Errorf("decode products: %w", err)
			}

			out := make([]productSummary, 0, len(products))
			for _, p := range products {
				out = append(out, productSummary{
					ID:        p.ID,
					Name:      p.Name,
					Price:     p.Price,
					Permalink: p.Permalink,
				})
			}
			return jsonResult(out), nil
		},
	}
}

func searchProductsTool() Tool {
	return Tool{
		Name:        "searchWooProducts",
		Description: "Searches published products in the store by keyword.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"keyword": {
					Type:        "string",
					Description: "Name or term to search for, e.g. 'sneakers' or 'cap'.",
				},
			},
			Required: []string{"keyword"},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				Keyword string `json:"keyword"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}

			resp, err := client.Get(ctx, "products", url.Values{
				"search":   {args.Keyword},
				"per_page": {"5"},
				"status":   {"publish"},
			})
			if err != nil {
				return nil, err
			}

			var products []woo.Product
			if err := resp.Decode(&products); err != nil {
				return nil, fmt.Errorf("decode products: %w", err)
			}

			if len(products) == 0 {
				return textResult(fmt.Sprintf("No products found matching %q.", args.Keyword)), nil
			}

			out := make([]productSummary, 0, len(products))
			for _, p := range products {
				out = append(out, productSummary{
					ID:          p.ID,
					Name:        p.Name,
					Price:       p.Price,
					StockStatus: p.StockStatus,
					Permalink:   p.Permalink,
				})
			}
			return jsonResult(out), nil
		},
	}
}
