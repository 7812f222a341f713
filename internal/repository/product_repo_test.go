package repository

import (
	"database/sql"
	"regexp"
	"store_service/internal/domain"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProductByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProductRepository(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price, stock")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetProductByID(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductReportsNotFoundOnZeroRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProductRepository(db, testLogger())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteProduct(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProductRepository(db, testLogger())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeleteProduct(7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProductsInStockFiltersAndOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProductRepository(db, testLogger())

	rows := sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
		AddRow(2, "Camiseta", 19.99, 10).
		AddRow(5, "Gorra", 9.50, 3)

	mock.ExpectQuery(`WHERE stock > 0\s+ORDER BY name ASC`).
		WillReturnRows(rows)

	products, err := repo.ListProductsInStock()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Camiseta", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
