package domain

type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CustomerRepository interface {
	CreateCustomer(customer *Customer) (*Customer, error)
	GetCustomerByID(id int) (*Customer, error)
	UpdateCustomer(customer *Customer) error
	// DeleteCustomer also removes the customer's purchase rows through the
	// ON DELETE CASCADE constraint on customer_products.
	DeleteCustomer(id int) error
	ListCustomers() ([]Customer, error)
	// ListCustomersByName returns all customers ordered by name, for the
	// purchase form selector.
	ListCustomersByName() ([]Customer, error)
}
