package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"store_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresCustomerRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCustomerRepository(db *sql.DB, logger *logrus.Logger) domain.CustomerRepository {
	return &postgresCustomerRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCustomerRepository) CreateCustomer(customer *domain.Customer) (*domain.Customer, error) {
	query := `
        INSERT INTO customers (name, email, phone)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := r.db.QueryRow(query, customer.Name, customer.Email, customer.Phone).Scan(&customer.ID)
	if err != nil {
		r.log.Errorf("Repository: Failed to create customer '%s': %v", customer.Name, err)
		return nil, fmt.Errorf("could not create customer: %w", err)
	}
	r.log.Infof("Repository: Customer created successfully with ID: %d, Name: %s", customer.ID, customer.Name)
	return customer, nil
}

func (r *postgresCustomerRepository) GetCustomerByID(id int) (*domain.Customer, error) {
	query := `
        SELECT id, name, email, phone
        FROM customers
        WHERE id = $1`
	customer := &domain.Customer{}

	err := r.db.QueryRow(query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Customer with ID %d not found", id)
			return nil, domain.ErrNotFound
		}
		r.log.Errorf("Repository: Failed to get customer by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get customer by id: %w", err)
	}

	r.log.Debugf("Repository: Customer retrieved successfully with ID: %d", id)
	return customer, nil
}

func (r *postgresCustomerRepository) UpdateCustomer(customer *domain.Customer) error {
	query := `
        UPDATE customers
        SET name = $1, email = $2, phone = $3
        WHERE id = $4`

	result, err := r.db.Exec(query, customer.Name, customer.Email, customer.Phone, customer.ID)
	if err != nil {
		r.log.Errorf("Repository: Failed to update customer ID %d: %v", customer.ID, err)
		return fmt.Errorf("could not update customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after updating customer ID %d: %v", customer.ID, err)
		return fmt.Errorf("could not confirm customer update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Customer with ID %d not found for update", customer.ID)
		return domain.ErrNotFound
	}

	r.log.Infof("Repository: Customer updated successfully with ID: %d", customer.ID)
	return nil
}

func (r *postgresCustomerRepository) DeleteCustomer(id int) error {
	// customer_products rows go with the customer via ON DELETE CASCADE.
	query := `DELETE FROM customers WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete customer ID %d: %v", id, err)
		return fmt.Errorf("could not delete customer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting customer ID %d: %v", id, err)
		return fmt.Errorf("could not confirm customer deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent customer ID %d", id)
		return domain.ErrNotFound
	}
	r.log.Infof("Repository: Customer deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresCustomerRepository) ListCustomers() ([]domain.Customer, error) {
	query := `
        SELECT id, name, email, phone
        FROM customers
        ORDER BY id DESC`
	return r.queryCustomers(query)
}

func (r *postgresCustomerRepository) ListCustomersByName() ([]domain.Customer, error) {
	query := `
        SELECT id, name, email, phone
        FROM customers
        ORDER BY name ASC`
	return r.queryCustomers(query)
}

func (r *postgresCustomerRepository) queryCustomers(query string) ([]domain.Customer, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list customers: %v", err)
		return nil, fmt.Errorf("could not list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone); err != nil {
			r.log.Errorf("Repository: Failed to scan customer row: %v", err)
			return nil, fmt.Errorf("error scanning customer data: %w", err)
		}
		customers = append(customers, customer)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during customers list iteration: %v", err)
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	r.log.Debugf("Repository: Retrieved %d customers", len(customers))
	return customers, nil
}
