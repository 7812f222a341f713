package repository

import (
	"database/sql"
	"errors"
	"io"
	"regexp"
	"store_service/internal/domain"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const (
	lockQueryPattern      = `SELECT name, stock\s+FROM products\s+WHERE id = \$1\s+FOR UPDATE`
	upsertQueryPattern    = `INSERT INTO customer_products.+ON CONFLICT \(customer_id, product_id\) DO UPDATE SET quantity = customer_products\.quantity \+ EXCLUDED\.quantity`
	decrementQueryPattern = `UPDATE products\s+SET stock = stock - \$1`
)

// expectPurchase scripts one full successful purchase transaction.
func expectPurchase(mock sqlmock.Sqlmock, customerID, productID, quantity, stockBefore int, productName string) {
	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow(productName, stockBefore))
	mock.ExpectExec(upsertQueryPattern).
		WithArgs(customerID, productID, quantity).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(decrementQueryPattern).
		WithArgs(quantity, productID).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(stockBefore - quantity))
	mock.ExpectCommit()
}

func TestRegisterPurchaseCommitsUpsertAndDecrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	expectPurchase(mock, 3, 7, 4, 10, "Camiseta")

	receipt, err := repo.RegisterPurchase(3, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, "Camiseta", receipt.ProductName)
	assert.Equal(t, 4, receipt.Quantity)
	assert.Equal(t, 6, receipt.RemainingStock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPurchaseProductNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err = repo.RegisterPurchase(3, 7, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPurchaseInsufficientStockRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Camiseta", 3))
	mock.ExpectRollback()

	_, err = repo.RegisterPurchase(3, 7, 5)
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Camiseta", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Stock)
	assert.Equal(t, 5, stockErr.Requested)

	// No write was attempted: the transaction held only the locked read.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPurchaseUnknownCustomerRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Camiseta", 10))
	mock.ExpectExec(upsertQueryPattern).
		WithArgs(99, 7, 4).
		WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err = repo.RegisterPurchase(99, 7, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPurchaseUpsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Camiseta", 10))
	mock.ExpectExec(upsertQueryPattern).
		WithArgs(3, 7, 4).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = repo.RegisterPurchase(3, 7, 4)
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	assert.False(t, errors.As(err, &stockErr))
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPurchaseGuardedDecrementRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	// The guarded UPDATE matching zero rows means stock moved below the
	// requested quantity; the whole transaction must come back.
	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Camiseta", 10))
	mock.ExpectExec(upsertQueryPattern).
		WithArgs(3, 7, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(decrementQueryPattern).
		WithArgs(4, 7).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err = repo.RegisterPurchase(3, 7, 4)
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPurchaseAccumulationScenario(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	// stock=10: buy 4 -> 6 left, buy 3 -> 3 left, buy 5 -> rejected.
	expectPurchase(mock, 3, 7, 4, 10, "Camiseta")
	expectPurchase(mock, 3, 7, 3, 6, "Camiseta")
	mock.ExpectBegin()
	mock.ExpectQuery(lockQueryPattern).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Camiseta", 3))
	mock.ExpectRollback()

	first, err := repo.RegisterPurchase(3, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, first.RemainingStock)

	second, err := repo.RegisterPurchase(3, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, second.RemainingStock)

	_, err = repo.RegisterPurchase(3, 7, 5)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Stock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPurchasesByCustomerOrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresPurchaseRepository(db, testLogger())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"customer_name", "product_name", "quantity", "purchase_timestamp"}).
		AddRow("Ana", "Camiseta", 7, now).
		AddRow("Ana", "Gorra", 2, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY cp.purchase_timestamp DESC")).
		WithArgs(3).
		WillReturnRows(rows)

	purchases, err := repo.ListPurchasesByCustomer(3)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "Camiseta", purchases[0].ProductName)
	assert.Equal(t, 7, purchases[0].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}
