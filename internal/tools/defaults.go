package tools

// Defaults returns the production tool set in its registration order.
func Defaults() []Tool {
	return []Tool{
		listProductsTool(),
		searchProductsTool(),
		categoriesTool(),
		getOrderTool(),
		createOrderTool(),
		updateOrderTool(),
		checkCouponTool(),
		shippingTool(),
	}
}
