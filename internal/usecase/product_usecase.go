package usecase

import (
	"math"
	"store_service/internal/domain"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ProductInput carries the raw form fields of the product create/edit forms.
// Parsing stays here so every caller gets the same validation messages.
type ProductInput struct {
	Name  string
	Price string
	Stock string
}

type ProductUseCase interface {
	ListProducts() ([]domain.Product, error)
	GetProductByID(id int) (*domain.Product, error)
	CreateProduct(input ProductInput) (*domain.Product, error)
	UpdateProduct(id int, input ProductInput) (*domain.Product, error)
	DeleteProduct(id int) error
}

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(repo domain.ProductRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo: repo,
		log:         logger,
	}
}

func (uc *productUseCase) validateInput(input ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	priceStr := strings.TrimSpace(input.Price)
	stockStr := strings.TrimSpace(input.Stock)

	if name == "" || priceStr == "" || stockStr == "" {
		uc.log.Warn("Use Case: Product validation failed - empty fields")
		return nil, domain.NewValidationError("Todos los campos son obligatorios.")
	}

	// ParseFloat accepts "NaN" and "Inf"; neither is a usable price.
	price, errPrice := strconv.ParseFloat(priceStr, 64)
	stock, errStock := strconv.Atoi(stockStr)
	if errPrice != nil || errStock != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		uc.log.Warnf("Use Case: Product validation failed - unparseable price %q or stock %q", priceStr, stockStr)
		return nil, domain.NewValidationError("El precio debe ser un número decimal y el stock un entero.")
	}
	if price <= 0 || stock < 0 {
		uc.log.Warnf("Use Case: Product validation failed - price %f or stock %d out of range", price, stock)
		return nil, domain.NewValidationError("El precio debe ser positivo y el stock no puede ser negativo.")
	}

	return &domain.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}, nil
}

func (uc *productUseCase) ListProducts() ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, err
	}
	uc.log.Debugf("Use Case: Retrieved %d products", len(products))
	return products, nil
}

func (uc *productUseCase) GetProductByID(id int) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get product with invalid ID: %d", id)
		return nil, domain.ErrNotFound
	}

	product, err := uc.productRepo.GetProductByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) CreateProduct(input ProductInput) (*domain.Product, error) {
	product, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	createdProduct, err := uc.productRepo.CreateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", createdProduct.Name, createdProduct.ID)
	return createdProduct, nil
}

func (uc *productUseCase) UpdateProduct(id int, input ProductInput) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid product ID: %d", id)
		return nil, domain.ErrNotFound
	}

	product, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}
	product.ID = id

	uc.log.Infof("Use Case: Attempting to update product ID %d", id)
	if err := uc.productRepo.UpdateProduct(product); err != nil {
		uc.log.Warnf("Use Case: Repository failed to update product ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %d", id)
	return product, nil
}

func (uc *productUseCase) DeleteProduct(id int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid product ID: %d", id)
		return domain.ErrNotFound
	}

	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	if err := uc.productRepo.DeleteProduct(id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}

	uc.log.Infof("Use Case: Product deleted successfully for ID %d", id)
	return nil
}
