package model

// AddressRole tags how an address is used on an order.
type AddressRole string

const (
	AddressRoleShipping AddressRole = "SHIPPING"
	AddressRoleBilling  AddressRole = "BILLING"
)

// Address belongs to a customer; orders reference it by id with a role tag.
type Address struct {
	ID         int64
	CustomerID int64
	Role       AddressRole
	Recipient  string
	Street     string
	City       string
	Country    string
}

// PaymentMethod is a stored way to pay, owned by the customer.
type PaymentMethod struct {
	ID         int64
	CustomerID int64
	MethodType string
	Label      string
}
