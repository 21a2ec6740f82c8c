package woo

// Wire types for the WooCommerce resources the tools touch. Monetary amounts
// are strings on the wire and stay strings here.

type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	StockStatus string `json:"stock_status"`
	Permalink   string `json:"permalink"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type LineItem struct {
	ProductID   int        `json:"product_id,omitempty"`
	VariationID int        `json:"variation_id,omitempty"`
	Name        string     `json:"name,omitempty"`
	Quantity    int        `json:"quantity"`
	Total       string     `json:"total,omitempty"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

type ShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total,omitempty"`
}

type CouponLine struct {
	Code string `json:"code"`
}

type Order struct {
	ID                 int            `json:"id"`
	Status             string         `json:"status"`
	Currency           string         `json:"currency"`
	Total              string         `json:"total"`
	OrderKey           string         `json:"order_key"`
	DateCreated        string         `json:"date_created"`
	DateModified       string         `json:"date_modified"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	CustomerNote       string         `json:"customer_note"`
	Billing            Address        `json:"billing"`
	Shipping           Address        `json:"shipping"`
	LineItems          []LineItem     `json:"line_items"`
	ShippingLines      []ShippingLine `json:"shipping_lines"`
}

// OrderCreate is the payload for POST orders.
type OrderCreate struct {
	PaymentMethod      string         `json:"payment_method,omitempty"`
	PaymentMethodTitle string         `json:"payment_method_title,omitempty"`
	SetPaid            bool           `json:"set_paid"`
	Status             string         `json:"status,omitempty"`
	CustomerNote       string         `json:"customer_note,omitempty"`
	Billing            *Address       `json:"billing,omitempty"`
	Shipping           *Address       `json:"shipping,omitempty"`
	LineItems          []LineItem     `json:"line_items"`
	ShippingLines      []ShippingLine `json:"shipping_lines"`
	CouponLines        []CouponLine   `json:"coupon_lines"`
}

type Coupon struct {
	ID                 int      `json:"id"`
	Code               string   `json:"code"`
	Amount             string   `json:"amount"`
	DiscountType       string   `json:"discount_type"`
	Description        string   `json:"description"`
	DateExpires        string   `json:"date_expires"`
	MinimumAmount      string   `json:"minimum_amount"`
	MaximumAmount      string   `json:"maximum_amount"`
	IndividualUse      bool     `json:"individual_use"`
	ExcludeSaleItems   bool     `json:"exclude_sale_items"`
	ProductIDs         []int    `json:"product_ids"`
	ExcludedProductIDs []int    `json:"excluded_product_ids"`
	ProductCategories  []int    `json:"product_categories"`
	UsageLimit         *int     `json:"usage_limit"`
	UsageCount         int      `json:"usage_count"`
}
