package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

// amountAbove reports whether a monetary string like "50000.00" parses to a
// value greater than min. Empty strings are treated as absent.
func amountAbove(amount string, min float64) bool {
	v, err := strconv.ParseFloat(amount, 64)
	return err == nil && v > min
}

func checkCouponTool() Tool {
	return Tool{
		Name:        "checkCoupon",
		Description: "Checks whether a coupon code exists, whether it is still valid, and what its conditions are.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"code": {
					Type:        "string",
					Description: "Coupon code entered by the customer.",
				},
			},
			Required: []string{"code"},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}

			q := url.Values{}
			q.Set("code", args.Code)
			resp, err := client.Get(ctx, "coupons", q)
			if err != nil {
				return nil, err
			}
			var coupons []woo.Coupon
			if err := resp.Decode(&coupons); err != nil {
				return nil, fmt.Errorf("decode coupons: %w", err)
			}
			if len(coupons) == 0 {
				return textResult(fmt.Sprintf("The coupon %q does not exist.", args.Code)), nil
			}
			coupon := coupons[0]

			if coupon.DateExpires != "" {
				// Woo reports store-local time without a zone suffix.
				expires, perr := time.Parse("2006-01-02T15:04:05", coupon.DateExpires)
				if perr == nil && expires.Before(time.Now()) {
					return textResult(fmt.Sprintf(
						"The coupon %q expired on %s.", args.Code, expires.Format("2006-01-02"))), nil
				}
			}

			if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
				return textResult(fmt.Sprintf("The coupon %q has reached its usage limit.", args.Code)), nil
			}

			restrictions := make([]string, 0, 7)
			if amountAbove(coupon.MinimumAmount, 0) {
				restrictions = append(restrictions, fmt.Sprintf("Minimum purchase of %s.", coupon.MinimumAmount))
			}
			if amountAbove(coupon.MaximumAmount, 0) {
				restrictions = append(restrictions, fmt.Sprintf("Maximum purchase of %s.", coupon.MaximumAmount))
			}
			if coupon.IndividualUse {
				restrictions = append(restrictions, "Cannot be combined with other coupons.")
			}
			if coupon.ExcludeSaleItems {
				restrictions = append(restrictions, "Does not apply to products already on sale.")
			}
			if len(coupon.ProductIDs) > 0 {
				restrictions = append(restrictions, "Only valid for specific products.")
			}
			if len(coupon.ExcludedProductIDs) > 0 {
				restrictions = append(restrictions, "Not valid for certain excluded products.")
			}
			if len(coupon.ProductCategories) > 0 {
				restrictions = append(restrictions, "Limited to certain categories.")
			}

			discount := coupon.Amount
			if coupon.DiscountType == "percent" {
				discount += "%"
			}

			return jsonResult(map[string]any{
				"valid":        true,
				"code":         coupon.Code,
				"discount":     discount,
				"type":         coupon.DiscountType,
				"description":  coupon.Description,
				"expires":      coupon.DateExpires,
				"restrictions": restrictions,
				"message":      fmt.Sprintf("Coupon %q is valid.", coupon.Code),
			}), nil
		},
	}
}
