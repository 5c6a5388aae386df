package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Refunds() RefundRepository
	Inventory() InventoryRepository
	Carts() CartRepository
	Customers() CustomerRepository
}
