package usecase

import (
	"store_service/internal/domain"
	"strings"

	"github.com/sirupsen/logrus"
)

// CustomerInput carries the raw form fields of the customer create/edit forms.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type CustomerUseCase interface {
	ListCustomers() ([]domain.Customer, error)
	GetCustomerByID(id int) (*domain.Customer, error)
	CreateCustomer(input CustomerInput) (*domain.Customer, error)
	UpdateCustomer(id int, input CustomerInput) (*domain.Customer, error)
	DeleteCustomer(id int) error
}

type customerUseCase struct {
	customerRepo domain.CustomerRepository
	log          *logrus.Logger
}

func NewCustomerUseCase(repo domain.CustomerRepository, logger *logrus.Logger) CustomerUseCase {
	return &customerUseCase{
		customerRepo: repo,
		log:          logger,
	}
}

func (uc *customerUseCase) validateInput(input CustomerInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if name == "" || email == "" || phone == "" {
		uc.log.Warn("Use Case: Customer validation failed - empty fields")
		return nil, domain.NewValidationError("Todos los campos del cliente son obligatorios.")
	}

	return &domain.Customer{
		Name:  name,
		Email: email,
		Phone: phone,
	}, nil
}

func (uc *customerUseCase) ListCustomers() ([]domain.Customer, error) {
	customers, err := uc.customerRepo.ListCustomers()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list customers: %v", err)
		return nil, err
	}
	uc.log.Debugf("Use Case: Retrieved %d customers", len(customers))
	return customers, nil
}

func (uc *customerUseCase) GetCustomerByID(id int) (*domain.Customer, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get customer with invalid ID: %d", id)
		return nil, domain.ErrNotFound
	}

	customer, err := uc.customerRepo.GetCustomerByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get customer ID %d: %v", id, err)
		return nil, err
	}
	return customer, nil
}

func (uc *customerUseCase) CreateCustomer(input CustomerInput) (*domain.Customer, error) {
	customer, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create customer '%s'", customer.Name)
	createdCustomer, err := uc.customerRepo.CreateCustomer(customer)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create customer '%s': %v", customer.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Customer '%s' created successfully with ID %d", createdCustomer.Name, createdCustomer.ID)
	return createdCustomer, nil
}

func (uc *customerUseCase) UpdateCustomer(id int, input CustomerInput) (*domain.Customer, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid customer ID: %d", id)
		return nil, domain.ErrNotFound
	}

	customer, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}
	customer.ID = id

	uc.log.Infof("Use Case: Attempting to update customer ID %d", id)
	if err := uc.customerRepo.UpdateCustomer(customer); err != nil {
		uc.log.Warnf("Use Case: Repository failed to update customer ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Customer updated successfully for ID %d", id)
	return customer, nil
}

func (uc *customerUseCase) DeleteCustomer(id int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid customer ID: %d", id)
		return domain.ErrNotFound
	}

	uc.log.Infof("Use Case: Attempting to delete customer ID %d", id)
	if err := uc.customerRepo.DeleteCustomer(id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete customer ID %d: %v", id, err)
		return err
	}

	uc.log.Infof("Use Case: Customer deleted successfully for ID %d (purchase history removed with it)", id)
	return nil
}
