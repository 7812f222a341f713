package usecase

import (
	"errors"
	"fmt"
	"store_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// UnknownCustomerName titles the history page when the customer row is gone
// but the page is still rendered.
const UnknownCustomerName = "Cliente desconocido"

// PurchaseFormData is everything the purchase registration form needs:
// customer and product selectors plus the optional pre-selected customer.
type PurchaseFormData struct {
	Customers        []domain.Customer
	Products         []domain.Product
	SelectedCustomer *domain.Customer
}

type PurchaseUseCase interface {
	RegisterPurchase(customerID, productID, quantity int) (*domain.PurchaseReceipt, error)
	// ListPurchases returns the customer's history newest-first along with
	// the customer name for the page title. An unknown customer still yields
	// a renderable result with a placeholder name.
	ListPurchases(customerID int) (string, []domain.PurchaseRecord, error)
	LoadPurchaseForm(selectedCustomerID int) (*PurchaseFormData, error)
}

type purchaseUseCase struct {
	purchaseRepo domain.PurchaseRepository
	customerRepo domain.CustomerRepository
	productRepo  domain.ProductRepository
	log          *logrus.Logger
}

func NewPurchaseUseCase(pRepo domain.PurchaseRepository, cRepo domain.CustomerRepository, prodRepo domain.ProductRepository, logger *logrus.Logger) PurchaseUseCase {
	return &purchaseUseCase{
		purchaseRepo: pRepo,
		customerRepo: cRepo,
		productRepo:  prodRepo,
		log:          logger,
	}
}

func (uc *purchaseUseCase) RegisterPurchase(customerID, productID, quantity int) (*domain.PurchaseReceipt, error) {
	if quantity <= 0 {
		uc.log.Warnf("Use Case: Purchase rejected - non-positive quantity %d (customer: %d, product: %d)", quantity, customerID, productID)
		return nil, domain.NewValidationError("La cantidad debe ser un número positivo.")
	}

	uc.log.Infof("Use Case: Registering purchase of %d units of product %d for customer %d", quantity, productID, customerID)
	receipt, err := uc.purchaseRepo.RegisterPurchase(customerID, productID, quantity)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			uc.log.Warnf("Use Case: Purchase failed - customer %d or product %d not found", customerID, productID)
		case errors.As(err, &stockErr):
			uc.log.Warnf("Use Case: Purchase failed - insufficient stock for product %d (have %d, requested %d)", productID, stockErr.Stock, stockErr.Requested)
		default:
			uc.log.Errorf("Use Case: Repository failed to register purchase (customer: %d, product: %d): %v", customerID, productID, err)
		}
		return nil, err
	}

	uc.log.Infof("Use Case: Purchase registered - %d units of %q for customer %d, %d left in stock", receipt.Quantity, receipt.ProductName, customerID, receipt.RemainingStock)
	return receipt, nil
}

func (uc *purchaseUseCase) ListPurchases(customerID int) (string, []domain.PurchaseRecord, error) {
	purchases, err := uc.purchaseRepo.ListPurchasesByCustomer(customerID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list purchases for customer %d: %v", customerID, err)
		return "", nil, fmt.Errorf("could not retrieve purchases: %w", err)
	}

	if len(purchases) > 0 {
		return purchases[0].CustomerName, purchases, nil
	}

	// No purchases: look the customer up directly so the page still carries
	// a title. A missing customer renders with a placeholder name.
	customer, err := uc.customerRepo.GetCustomerByID(customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Listing purchases for unknown customer ID %d", customerID)
			return UnknownCustomerName, purchases, nil
		}
		uc.log.Errorf("Use Case: Repository failed to get customer %d for history title: %v", customerID, err)
		return "", nil, err
	}

	return customer.Name, purchases, nil
}

func (uc *purchaseUseCase) LoadPurchaseForm(selectedCustomerID int) (*PurchaseFormData, error) {
	customers, err := uc.customerRepo.ListCustomersByName()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list customers for purchase form: %v", err)
		return nil, err
	}

	products, err := uc.productRepo.ListProductsInStock()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list in-stock products for purchase form: %v", err)
		return nil, err
	}

	data := &PurchaseFormData{
		Customers: customers,
		Products:  products,
	}

	if selectedCustomerID > 0 {
		for i := range customers {
			if customers[i].ID == selectedCustomerID {
				data.SelectedCustomer = &customers[i]
				break
			}
		}
	}

	uc.log.Debugf("Use Case: Purchase form loaded with %d customers and %d in-stock products", len(customers), len(products))
	return data, nil
}
