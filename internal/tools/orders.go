package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

func getOrderTool() Tool {
	return Tool{
		Name:        "getOrderStatus",
		Description: "Returns the status, total, shipping method and notes of an order by its ID.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"orderId": {
					Types:       []string{"integer", "string"},
					Description: "Numeric order ID, e.g. 1234.",
				},
			},
			Required: []string{"orderId"},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				OrderID flexInt `json:"orderId"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}

			resp, err := client.Get(ctx, fmt.Sprintf("orders/%d", args.OrderID.Int()), nil)
			if err != nil {
				var apiErr *woo.APIError
				if errors.As(err, &apiErr) && apiErr.IsNotFound() {
					return errorResult(fmt.Sprintf("Order #%d does not exist in this store.", args.OrderID.Int())), nil
				}
				return nil, err
			}

			var order woo.Order
			if err := resp.Decode(&order); err != nil {
				return nil, fmt.Errorf("decode order: %w", err)
			}

			shippingMethod := "Not specified"
			if len(order.ShippingLines) > 0 && order.ShippingLines[0].MethodTitle != "" {
				shippingMethod = order.ShippingLines[0].MethodTitle
			}
			customerNote := order.CustomerNote
			if customerNote == "" {
				customerNote = "(no customer notes)"
			}

			type itemInfo struct {
				Product     string `json:"product"`
				Quantity    int    `json:"quantity"`
				Total       string `json:"total"`
				VariationID int    `json:"variation_id,omitempty"`
			}
			items := make([]itemInfo, 0, len(order.LineItems))
			for _, li := range order.LineItems {
				items = append(items, itemInfo{
					Product:     li.Name,
					Quantity:    li.Quantity,
					Total:       li.Total,
					VariationID: li.VariationID,
				})
			}

			return jsonResult(map[string]any{
				"id":              order.ID,
				"status":          order.Status,
				"currency":        order.Currency,
				"total":           order.Total,
				"date_created":    order.DateCreated,
				"date_modified":   order.DateModified,
				"payment_method":  order.PaymentMethodTitle,
				"shipping_method": shippingMethod,
				"customer_note":   customerNote,
				"customer": map[string]string{
					"name":  strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName),
					"email": order.Billing.Email,
					"phone": order.Billing.Phone,
				},
				"shipping_address": map[string]string{
					"address": order.Shipping.Address1,
					"city":    order.Shipping.City,
					"state":   order.Shipping.State,
					"country": order.Shipping.Country,
				},
				"line_items": items,
			}), nil
		},
	}
}

// orderItem is one entry of the createOrder items payload.
type orderItem struct {
	ProductID   flexInt `json:"productId"`
	ProductID2  flexInt `json:"product_id"`
	Quantity    flexInt `json:"quantity"`
	VariationID flexInt `json:"variationId"`
}

// parseOrderItems decodes the items argument, which arrives as a JSON string
// because several agent connectors cannot deliver nested arrays reliably.
// Stray surrounding quotes and escaped quotes from confused models are
// stripped before parsing.
func parseOrderItems(s string) ([]woo.LineItem, error) {
	raw := strings.TrimSpace(s)
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	raw = strings.ReplaceAll(raw, `\"`, `"`)

	var items []orderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("items is not a valid JSON array: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("no products could be read from items")
	}

	lines := make([]woo.LineItem, 0, len(items))
	for _, it := range items {
		productID := it.ProductID.Int()
		if productID == 0 {
			productID = it.ProductID2.Int()
		}
		if productID == 0 {
			return nil, fmt.Errorf("item missing a valid productId: %s", raw)
		}
		quantity := it.Quantity.Int()
		if quantity == 0 {
			quantity = 1
		}
		lines = append(lines, woo.LineItem{
			ProductID:   productID,
			Quantity:    quantity,
			VariationID: it.VariationID.Int(),
		})
	}
	return lines, nil
}

func createOrderTool() Tool {
	return Tool{
		Name: "createOrder",
		Description: "Creates an order in the store. IMPORTANT: items must be " +
			"sent as a JSON string, e.g. '[{\"productId\": 10282, \"quantity\": 1}]'.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"paymentMethod": {
					Type:        "string",
					Enum:        []any{"online", "cod"},
					Description: "online or cod (cash on delivery).",
				},
				"items": {
					Type:        "string",
					Description: `JSON string of products. Exact example: '[{"productId": 10282, "quantity": 1}]'.`,
				},
				"firstName":        {Type: "string"},
				"lastName":         {Type: "string"},
				"email":            {Type: "string", Format: "email"},
				"phone":            {Type: "string"},
				"address":          {Type: "string"},
				"city":             {Type: "string"},
				"state":            {Type: "string", Description: "Department or state name, normalized to its code."},
				"country":          {Type: "string", Description: "Two-letter country code, defaults to CO."},
				"note":             {Type: "string"},
				"shippingMethodId": {Type: "string"},
				"couponCode":       {Type: "string"},
			},
			Required: []string{"paymentMethod", "items", "firstName", "lastName", "email", "address", "city"},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				PaymentMethod    string `json:"paymentMethod"`
				Items            string `json:"items"`
				FirstName        string `json:"firstName"`
				LastName         string `json:"lastName"`
				Email            string `json:"email"`
				Phone            string `json:"phone"`
				Address          string `json:"address"`
				City             string `json:"city"`
				State            string `json:"state"`
				Country          string `json:"country"`
				Note             string `json:"note"`
				ShippingMethodID string `json:"shippingMethodId"`
				CouponCode       string `json:"couponCode"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}
			if args.Country == "" {
				args.Country = "CO"
			}

			lineItems, err := parseOrderItems(args.Items)
			if err != nil {
				return nil, err
			}

			cod := args.PaymentMethod == "cod"
			state := stateCode(args.State)
			billing := woo.Address{
				FirstName: args.FirstName,
				LastName:  args.LastName,
				Address1:  args.Address,
				City:      args.City,
				State:     state,
				Country:   args.Country,
				Email:     args.Email,
				Phone:     args.Phone,
			}
			shipping := billing
			shipping.Email = ""
			shipping.Phone = ""

			payload := woo.OrderCreate{
				PaymentMethod:      "bacs",
				PaymentMethodTitle: "Pago en Línea",
				SetPaid:            false,
				Status:             "pending",
				CustomerNote:       args.Note,
				Billing:            &billing,
				Shipping:           &shipping,
				LineItems:          lineItems,
				ShippingLines:      []woo.ShippingLine{},
				CouponLines:        []woo.CouponLine{},
			}
			if cod {
				payload.PaymentMethod = "cod"
				payload.PaymentMethodTitle = "Contraentrega"
				payload.Status = "processing"
			}
			if args.ShippingMethodID != "" {
				payload.ShippingLines = []woo.ShippingLine{{MethodID: args.ShippingMethodID, MethodTitle: "Envío"}}
			}
			if args.CouponCode != "" {
				payload.CouponLines = []woo.CouponLine{{Code: args.CouponCode}}
			}

			resp, err := client.Post(ctx, "orders", payload)
			if err != nil {
				return nil, err
			}
			var order woo.Order
			if err := resp.Decode(&order); err != nil {
				return nil, fmt.Errorf("decode created order: %w", err)
			}

			result := map[string]any{
				"success":  true,
				"order_id": order.ID,
				"total":    order.Total,
				"message":  "Order created successfully.",
			}
			if !cod {
				// Checkout pay link lives on the tenant's own storefront.
				result["payment_link"] = fmt.Sprintf(
					"%s/finalizar-compra/order-pay/%d/?pay_for_order=true&key=%s",
					client.StoreURL(), order.ID, order.OrderKey)
				result["message"] = "Order created. Pay here."
			}
			return jsonResult(result), nil
		},
	}
}

// editableOrder reports whether an order may still be modified. Completed and
// refunded orders are locked.
func editableOrder(status string) bool {
	return status != "completed" && status != "refunded"
}

func updateOrderTool() Tool {
	return Tool{
		Name: "updateOrder",
		Description: "Manages an existing order. Can CANCEL (status='cancelled') " +
			"or correct contact and shipping details. Does NOT change products.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"orderId": {
					Types:       []string{"integer", "string"},
					Description: "ID of the order to modify.",
				},
				"status": {
					Type:        "string",
					Enum:        []any{"pending", "processing", "on-hold", "cancelled", "completed"},
					Description: "New status. Use 'cancelled' to cancel.",
				},
				"firstName": {Type: "string", Description: "New first name."},
				"lastName":  {Type: "string", Description: "New last name."},
				"email":     {Type: "string", Format: "email", Description: "New email."},
				"phone":     {Type: "string", Description: "New phone number."},
				"address":   {Type: "string", Description: "New street address."},
				"city":      {Type: "string", Description: "New city."},
				"state":     {Type: "string", Description: "Department/state code, e.g. 'CUN', 'ANT'."},
				"country":   {Type: "string", Description: "Two-letter country code, e.g. 'CO', 'MX'."},
				"note":      {Type: "string", Description: "Note to attach to the order."},
			},
			Required: []string{"orderId"},
		},
		Execute: func(ctx context.Context, client *woo.Client, raw json.RawMessage) (*mcp.CallToolResult, error) {
			var args struct {
				OrderID   flexInt `json:"orderId"`
				Status    string  `json:"status"`
				FirstName string  `json:"firstName"`
				LastName  string  `json:"lastName"`
				Email     string  `json:"email"`
				Phone     string  `json:"phone"`
				Address   string  `json:"address"`
				City      string  `json:"city"`
				State     string  `json:"state"`
				Country   string  `json:"country"`
				Note      string  `json:"note"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}
			orderID := args.OrderID.Int()

			resp, err := client.Get(ctx, fmt.Sprintf("orders/%d", orderID), nil)
			if err != nil {
				return errorResult(fmt.Sprintf("Error: order #%d does not exist.", orderID)), nil
			}
			var current woo.Order
			if err := resp.Decode(&current); err != nil {
				return nil, fmt.Errorf("decode order: %w", err)
			}

			if !editableOrder(current.Status) {
				return errorResult(fmt.Sprintf(
					"Order #%d cannot be edited because it is already '%s'.", orderID, current.Status)), nil
			}

			update := map[string]any{}
			if args.Status != "" {
				update["status"] = args.Status
			}
			if args.Note != "" {
				update["customer_note"] = args.Note
			}

			patch := func(base woo.Address, withContact bool) woo.Address {
				if args.FirstName != "" {
					base.FirstName = args.FirstName
				}
				if args.LastName != "" {
					base.LastName = args.LastName
				}
				if args.Address != "" {
					base.Address1 = args.Address
				}
				if args.City != "" {
					base.City = args.City
				}
				if args.State != "" {
					base.State = args.State
				}
				if args.Country != "" {
					base.Country = args.Country
				}
				if withContact {
					if args.Email != "" {
						base.Email = args.Email
					}
					if args.Phone != "" {
						base.Phone = args.Phone
					}
				}
				return base
			}

			hasContactChanges := args.FirstName != "" || args.LastName != "" || args.Email != "" ||
				args.Phone != "" || args.Address != "" || args.City != "" || args.State != "" || args.Country != ""
			if hasContactChanges {
				update["billing"] = patch(current.Billing, true)
				update["shipping"] = patch(current.Shipping, false)
			}

			if len(update) == 0 {
				return textResult("Nothing to update: no fields were provided."), nil
			}

			resp, err = client.Put(ctx, fmt.Sprintf("orders/%d", orderID), update)
			if err != nil {
				return nil, err
			}
			var updated woo.Order
			if err := resp.Decode(&updated); err != nil {
				return nil, fmt.Errorf("decode updated order: %w", err)
			}

			fields := make([]string, 0, len(update))
			for k := range update {
				fields = append(fields, k)
			}
			sort.Strings(fields)

			return jsonResult(map[string]any{
				"success":        true,
				"id":             updated.ID,
				"status":         updated.Status,
				"updated_fields": fields,
				"new_shipping": map[string]string{
					"address": updated.Shipping.Address1,
					"city":    updated.Shipping.City,
					"state":   updated.Shipping.State,
				},
				"message": "Order updated successfully.",
			}), nil
		},
	}
}
