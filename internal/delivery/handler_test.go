package delivery

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"store_service/internal/domain"
	"store_service/internal/usecase"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	return router
}

func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

type fakeUserUseCase struct {
	user    *domain.User
	authErr error
}

func (f *fakeUserUseCase) RegisterUser(username, password, confirmPassword string) (*domain.User, error) {
	return f.user, f.authErr
}

func (f *fakeUserUseCase) AuthenticateUser(username, password string) (*domain.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.user, nil
}

func (f *fakeUserUseCase) GetUserByID(id int64) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, domain.ErrNotFound
}

type fakePurchaseUseCase struct {
	receipt     *domain.PurchaseReceipt
	registerErr error
}

func (f *fakePurchaseUseCase) RegisterPurchase(customerID, productID, quantity int) (*domain.PurchaseReceipt, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.receipt, nil
}

func (f *fakePurchaseUseCase) ListPurchases(customerID int) (string, []domain.PurchaseRecord, error) {
	return usecase.UnknownCustomerName, nil, nil
}

func (f *fakePurchaseUseCase) LoadPurchaseForm(selectedCustomerID int) (*usecase.PurchaseFormData, error) {
	return &usecase.PurchaseFormData{}, nil
}

type fakeProductUseCase struct {
	deleteErr error
}

func (f *fakeProductUseCase) ListProducts() ([]domain.Product, error)        { return nil, nil }
func (f *fakeProductUseCase) GetProductByID(id int) (*domain.Product, error) { return nil, domain.ErrNotFound }
func (f *fakeProductUseCase) CreateProduct(input usecase.ProductInput) (*domain.Product, error) {
	return nil, nil
}
func (f *fakeProductUseCase) UpdateProduct(id int, input usecase.ProductInput) (*domain.Product, error) {
	return nil, nil
}
func (f *fakeProductUseCase) DeleteProduct(id int) error { return f.deleteErr }

func TestRequireAuthRedirectsAnonymousToLogin(t *testing.T) {
	router := newTestRouter()
	authorized := router.Group("/", RequireAuth(&fakeUserUseCase{}, testLogger()))
	authorized.GET("/productos", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/productos", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestLoginEstablishesSession(t *testing.T) {
	router := newTestRouter()
	userUC := &fakeUserUseCase{user: &domain.User{ID: 1, Username: "maria"}}
	authHandler := NewAuthHandler(userUC, testLogger())
	authHandler.RegisterRoutes(router)

	authorized := router.Group("/", RequireAuth(userUC, testLogger()))
	authorized.GET("/productos", func(c *gin.Context) {
		user := CurrentUser(c)
		require.NotNil(t, user)
		c.String(http.StatusOK, user.Username)
	})

	recorder := postForm(router, "/login", url.Values{
		"username": {"maria"},
		"password": {"contraseña123"},
	})
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	require.Equal(t, "/productos", recorder.Header().Get("Location"))

	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/productos", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	followUp := httptest.NewRecorder()
	router.ServeHTTP(followUp, req)

	assert.Equal(t, http.StatusOK, followUp.Code)
	assert.Equal(t, "maria", followUp.Body.String())
}

func TestLoginFailureRedirectsBack(t *testing.T) {
	router := newTestRouter()
	userUC := &fakeUserUseCase{authErr: domain.ErrInvalidCredentials}
	NewAuthHandler(userUC, testLogger()).RegisterRoutes(router)

	recorder := postForm(router, "/login", url.Values{
		"username": {"maria"},
		"password": {"incorrecta"},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestRegisterPurchaseMissingFieldsKeepsCustomer(t *testing.T) {
	router := newTestRouter()
	NewPurchaseHandler(&fakePurchaseUseCase{}, testLogger()).RegisterRoutes(router)

	recorder := postForm(router, "/registrar_compra", url.Values{
		"id_cliente": {"3"},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/registrar_compra/3", recorder.Header().Get("Location"))
}

func TestRegisterPurchaseNonIntegerFieldsRedirectToCustomers(t *testing.T) {
	router := newTestRouter()
	NewPurchaseHandler(&fakePurchaseUseCase{}, testLogger()).RegisterRoutes(router)

	recorder := postForm(router, "/registrar_compra", url.Values{
		"id_cliente":  {"3"},
		"id_producto": {"siete"},
		"cantidad":    {"4"},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/clientes", recorder.Header().Get("Location"))
}

func TestRegisterPurchaseInsufficientStockRedirectsToForm(t *testing.T) {
	router := newTestRouter()
	purchaseUC := &fakePurchaseUseCase{
		registerErr: &domain.InsufficientStockError{ProductName: "Camiseta", Stock: 3, Requested: 5},
	}
	NewPurchaseHandler(purchaseUC, testLogger()).RegisterRoutes(router)

	recorder := postForm(router, "/registrar_compra", url.Values{
		"id_cliente":  {"3"},
		"id_producto": {"7"},
		"cantidad":    {"5"},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/registrar_compra/3", recorder.Header().Get("Location"))
}

func TestRegisterPurchaseSuccessRedirectsToHistory(t *testing.T) {
	router := newTestRouter()
	purchaseUC := &fakePurchaseUseCase{
		receipt: &domain.PurchaseReceipt{ProductName: "Camiseta", Quantity: 4, RemainingStock: 6},
	}
	NewPurchaseHandler(purchaseUC, testLogger()).RegisterRoutes(router)

	recorder := postForm(router, "/registrar_compra", url.Values{
		"id_cliente":  {"3"},
		"id_producto": {"7"},
		"cantidad":    {"4"},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/compras/3", recorder.Header().Get("Location"))
}

func TestDeleteProductNotFoundStillRedirects(t *testing.T) {
	router := newTestRouter()
	NewProductHandler(&fakeProductUseCase{deleteErr: domain.ErrNotFound}, testLogger()).RegisterRoutes(router)

	recorder := postForm(router, "/eliminar/42", url.Values{})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/productos", recorder.Header().Get("Location"))
}

func TestNoticeIsDeliveredOnceAfterRedirect(t *testing.T) {
	router := newTestRouter()
	log := testLogger()
	router.POST("/accion", func(c *gin.Context) {
		redirectWithNotice(c, log, "/destino", Notice{Category: NoticeSuccess, Message: "hecho"})
	})
	router.GET("/destino", func(c *gin.Context) {
		c.JSON(http.StatusOK, takeNotices(c, log))
	})

	recorder := postForm(router, "/accion", url.Values{})
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/destino", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	first := httptest.NewRecorder()
	router.ServeHTTP(first, req)
	assert.Contains(t, first.Body.String(), "hecho")

	// The flash is consumed: a second visit with the refreshed cookie is empty.
	followCookies := first.Result().Cookies()
	if len(followCookies) == 0 {
		followCookies = cookies
	}
	req = httptest.NewRequest(http.MethodGet, "/destino", nil)
	for _, c := range followCookies {
		req.AddCookie(c)
	}
	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)
	assert.NotContains(t, second.Body.String(), "hecho")
}
