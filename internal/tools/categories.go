package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

func categoriesTool() Tool {
	return Tool{
		Name: "getStoreCategories",
		Description: "Lists the store's product categories. Use it when the " +
			"customer asks what kinds of products the store sells in general.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"parent": {
					Types:       []string{"integer", "string"},
					Description: "Parent category ID (0 for top-level). Optional.",
				},
			},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				Parent flexInt `json:"parent"`
			}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, err
				}
			}

			resp, err := client.Get(ctx, "products/categories", url.Values{
				"per_page":   {"20"},
				"hide_empty": {"true"},
				"parent":     {strconv.Itoa(args.Parent.Int())},
				"orderby":    {"count"},
				"order":      {"desc"},
			})
			if err != nil {
				return nil, err
			}

			var categories []woo.Category
			if err := resp.Decode(&categories); err != nil {
				return nil, fmt.Errorf("decode categories: %w", err)
			}

			type categoryInfo struct {
				ID          int    `json:"id"`
				Name        string `json:"name"`
				Count       int    `json:"count"`
				Slug        string `json:"slug"`
				Description string `json:"description"`
			}
			out := make([]categoryInfo, 0, len(categories))
			for _, c := range categories {
				out = append(out, categoryInfo{
					ID:          c.ID,
					Name:        c.Name,
					Count:       c.Count,
					Slug:        c.Slug,
					Description: c.Description,
				})
			}
			return jsonResult(out), nil
		},
	}
}
