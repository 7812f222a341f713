package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"store_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresPurchaseRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresPurchaseRepository(db *sql.DB, logger *logrus.Logger) domain.PurchaseRepository {
	return &postgresPurchaseRepository{
		db:  db,
		log: logger,
	}
}

// RegisterPurchase performs the stock check, the join-row upsert and the
// stock decrement inside one transaction. The product row is locked with
// SELECT ... FOR UPDATE before the check, so two concurrent purchases of the
// same product serialize instead of racing between check and write.
func (r *postgresPurchaseRepository) RegisterPurchase(customerID, productID, quantity int) (*domain.PurchaseReceipt, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin purchase transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back purchase transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back purchase transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback purchase transaction: %v", rbErr)
			}
		}
	}()

	lockQuery := `
        SELECT name, stock
        FROM products
        WHERE id = $1
        FOR UPDATE`

	var productName string
	var stock int
	err = tx.QueryRow(lockQuery, productID).Scan(&productName, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Purchase rejected: product with ID %d not found", productID)
			err = domain.ErrNotFound
			return nil, err
		}
		r.log.Errorf("Failed to lock product row for ID %d: %v", productID, err)
		err = fmt.Errorf("could not load product for purchase: %w", err)
		return nil, err
	}

	if stock < quantity {
		r.log.Warnf("Purchase rejected: insufficient stock for product %d (have %d, requested %d)", productID, stock, quantity)
		err = &domain.InsufficientStockError{
			ProductName: productName,
			Stock:       stock,
			Requested:   quantity,
		}
		return nil, err
	}

	upsertQuery := `
        INSERT INTO customer_products (customer_id, product_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (customer_id, product_id) DO UPDATE
        SET quantity = customer_products.quantity + EXCLUDED.quantity,
            purchase_timestamp = NOW()`

	_, err = tx.Exec(upsertQuery, customerID, productID, quantity)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Purchase rejected: customer with ID %d not found", customerID)
			err = domain.ErrNotFound
			return nil, err
		}
		r.log.Errorf("Failed to upsert purchase row (customer: %d, product: %d): %v", customerID, productID, err)
		err = fmt.Errorf("could not record purchase: %w", err)
		return nil, err
	}

	// The row lock already serializes purchasers; the stock >= quantity guard
	// keeps the non-negative invariant even if the decrement is ever reached
	// without it.
	decrementQuery := `
        UPDATE products
        SET stock = stock - $1
        WHERE id = $2 AND stock >= $1
        RETURNING stock`

	var remaining int
	err = tx.QueryRow(decrementQuery, quantity, productID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Purchase rejected: stock for product %d changed below %d before decrement", productID, quantity)
			err = &domain.InsufficientStockError{
				ProductName: productName,
				Stock:       stock,
				Requested:   quantity,
			}
			return nil, err
		}
		r.log.Errorf("Failed to decrement stock for product %d: %v", productID, err)
		err = fmt.Errorf("could not update stock: %w", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit purchase transaction (customer: %d, product: %d): %v", customerID, productID, err)
		err = fmt.Errorf("failed to commit purchase: %w", err)
		return nil, err
	}

	r.log.Infof("Purchase committed: customer %d bought %d of product %d (%s), %d left in stock", customerID, quantity, productID, productName, remaining)
	return &domain.PurchaseReceipt{
		ProductName:    productName,
		Quantity:       quantity,
		RemainingStock: remaining,
	}, nil
}

func (r *postgresPurchaseRepository) ListPurchasesByCustomer(customerID int) ([]domain.PurchaseRecord, error) {
	query := `
        SELECT
            c.name AS customer_name,
            p.name AS product_name,
            cp.quantity,
            cp.purchase_timestamp
        FROM customers c
        JOIN customer_products cp ON c.id = cp.customer_id
        JOIN products p ON cp.product_id = p.id
        WHERE c.id = $1
        ORDER BY cp.purchase_timestamp DESC`

	rows, err := r.db.Query(query, customerID)
	if err != nil {
		r.log.Errorf("Failed to query purchases for customer ID %d: %v", customerID, err)
		return nil, fmt.Errorf("could not retrieve purchases: %w", err)
	}
	defer rows.Close()

	purchases := []domain.PurchaseRecord{}
	for rows.Next() {
		var record domain.PurchaseRecord
		if err := rows.Scan(&record.CustomerName, &record.ProductName, &record.Quantity, &record.PurchasedAt); err != nil {
			r.log.Errorf("Failed to scan purchase row for customer ID %d: %v", customerID, err)
			return nil, fmt.Errorf("error scanning purchase data: %w", err)
		}
		purchases = append(purchases, record)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during purchases iteration for customer ID %d: %v", customerID, err)
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	r.log.Debugf("Retrieved %d purchases for customer ID %d", len(purchases), customerID)
	return purchases, nil
}
