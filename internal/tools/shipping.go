package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/unicode/norm"

	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

// normalizeCity uppercases and strips diacritics so the carrier plugin's
// tariff lookup matches ("MEDELLÍN" -> "MEDELLIN").
func normalizeCity(city string) string {
	decomposed := norm.NFD.String(strings.ToUpper(city))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeState(state string) string {
	s := strings.ToUpper(state)
	if strings.HasPrefix(s, "CO-") {
		return s
	}
	return "CO-" + s
}

func shippingTool() Tool {
	return Tool{
		Name: "getShippingMethods",
		Description: "Calculates real shipping rates for Colombian carriers by " +
			"simulating an order with normalized location data.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"productId": {
					Types:       []string{"integer", "string"},
					Description: "Product ID.",
				},
				"city":        {Type: "string", Description: "City, e.g. MEDELLIN."},
				"stateCode":   {Type: "string", Description: "Department code, e.g. CO-ANT."},
				"postcode":    {Type: "string", Description: "Postal code, e.g. 05001000."},
				"countryCode": {Type: "string", Description: "Two-letter country code, defaults to CO."},
				"weight":      {Type: "string", Description: "Weight in kg, defaults to 1."},
				"dimensions": {
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"length": {Type: "string"},
						"width":  {Type: "string"},
						"height": {Type: "string"},
					},
				},
			},
			Required: []string{"productId", "city", "stateCode", "postcode"},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				ProductID   flexInt `json:"productId"`
				City        string  `json:"city"`
				StateCode   string  `json:"stateCode"`
				Postcode    string  `json:"postcode"`
				CountryCode string  `json:"countryCode"`
				Weight      string  `json:"weight"`
				Dimensions  struct {
					Length string `json:"length"`
					Width  string `json:"width"`
					Height string `json:"height"`
				} `json:"dimensions"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}
			if args.CountryCode == "" {
				args.CountryCode = "CO"
			}
			orDefault := func(v, def string) string {
				if v == "" {
					return def
				}
				return v
			}

			city := normalizeCity(args.City)
			state := normalizeState(args.StateCode)

			// The carrier plugin only quotes when weight and dimensions are on
			// the line item, so a throwaway order carries them as meta.
			draft := woo.OrderCreate{
				Status: "pending",
				Shipping: &woo.Address{
					City:     city,
					State:    state,
					Postcode: args.Postcode,
					Country:  args.CountryCode,
				},
				LineItems: []woo.LineItem{{
					ProductID: args.ProductID.Int(),
					Quantity:  1,
					MetaData: []woo.MetaData{
						{Key: "_weight", Value: orDefault(args.Weight, "1")},
						{Key: "_length", Value: orDefault(args.Dimensions.Length, "10")},
						{Key: "_width", Value: orDefault(args.Dimensions.Width, "10")},
						{Key: "_height", Value: orDefault(args.Dimensions.Height, "93")},
					},
				}},
				ShippingLines: []woo.ShippingLine{},
				CouponLines:   []woo.CouponLine{},
			}

			resp, err := client.Post(ctx, "orders", draft)
			if err != nil {
				return nil, err
			}
			var order woo.Order
			if err := resp.Decode(&order); err != nil {
				return nil, fmt.Errorf("decode draft order: %w", err)
			}

			// The draft must not survive the simulation regardless of outcome,
			// including a client disconnect cancelling the request context
			// mid-simulation.
			defer func() {
				q := url.Values{}
				q.Set("force", "true")
				_, _ = client.Delete(context.WithoutCancel(ctx), fmt.Sprintf("orders/%d", order.ID), q)
			}()

			if len(order.ShippingLines) == 0 {
				resp, err = client.Put(ctx, fmt.Sprintf("orders/%d", order.ID), map[string]any{
					"shipping_lines": []woo.ShippingLine{{
						MethodID:    "coordinadora",
						MethodTitle: "Coordinadora",
					}},
				})
				if err != nil {
					return nil, err
				}
				if err := resp.Decode(&order); err != nil {
					return nil, fmt.Errorf("decode updated draft: %w", err)
				}
			}

			type methodQuote struct {
				MethodTitle string  `json:"method_title"`
				Cost        float64 `json:"cost"`
			}
			quotes := make([]methodQuote, 0, len(order.ShippingLines))
			for _, line := range order.ShippingLines {
				cost, _ := strconv.ParseFloat(line.Total, 64)
				quotes = append(quotes, methodQuote{MethodTitle: line.MethodTitle, Cost: cost})
			}

			if len(quotes) > 0 && quotes[0].Cost > 0 {
				return jsonResult(map[string]any{
					"location":         fmt.Sprintf("%s, %s", city, state),
					"shipping_options": quotes,
				}), nil
			}

			return textResult(fmt.Sprintf(
				"No carrier rate could be obtained. Check that postcode %s is served and the carrier plugin has no weight restrictions.",
				args.Postcode)), nil
		},
	}
}
