package delivery

import (
	"errors"
	"fmt"
	"store_service/internal/domain"
	"store_service/internal/usecase"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PurchaseHandler struct {
	useCase usecase.PurchaseUseCase
	log     *logrus.Logger
}

func NewPurchaseHandler(uc usecase.PurchaseUseCase, logger *logrus.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *PurchaseHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/compras/:id", h.History)
	// The customer id segment is optional, so the form routes are doubled.
	router.GET("/registrar_compra", h.ShowForm)
	router.GET("/registrar_compra/:id", h.ShowForm)
	router.POST("/registrar_compra", h.Register)
	router.POST("/registrar_compra/:id", h.Register)
}

func (h *PurchaseHandler) History(c *gin.Context) {
	customerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || customerID <= 0 {
		h.log.Warnf("Invalid customer ID parameter for history: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado."})
		return
	}

	customerName, purchases, err := h.useCase.ListPurchases(customerID)
	if err != nil {
		h.log.Errorf("Failed to list purchases for customer %d: %v", customerID, err)
		redirectWithNotice(c, h.log, "/clientes", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error al cargar el historial de compras.",
		})
		return
	}

	render(c, h.log, "compras_detalle.html", gin.H{
		"CustomerID":   customerID,
		"CustomerName": customerName,
		"Purchases":    purchases,
	})
}

func (h *PurchaseHandler) ShowForm(c *gin.Context) {
	selectedID := 0
	if idParam := c.Param("id"); idParam != "" {
		if id, err := strconv.Atoi(idParam); err == nil && id > 0 {
			selectedID = id
		}
	}

	formData, err := h.useCase.LoadPurchaseForm(selectedID)
	if err != nil {
		h.log.Errorf("Failed to load purchase form data: %v", err)
		redirectWithNotice(c, h.log, "/clientes", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error al cargar el formulario de compra.",
		})
		return
	}

	render(c, h.log, "formulario_compra.html", gin.H{
		"Customers":        formData.Customers,
		"Products":         formData.Products,
		"SelectedCustomer": formData.SelectedCustomer,
	})
}

func (h *PurchaseHandler) Register(c *gin.Context) {
	customerIDStr := c.PostForm("id_cliente")
	productIDStr := c.PostForm("id_producto")
	quantityStr := c.PostForm("cantidad")

	if customerIDStr == "" || productIDStr == "" || quantityStr == "" {
		h.log.Warn("Purchase registration rejected: missing form fields")
		redirectWithNotice(c, h.log, h.formPath(c.Param("id"), customerIDStr), Notice{
			Category: NoticeError,
			Message:  "Faltan datos para registrar la compra.",
		})
		return
	}

	customerID, errCustomer := strconv.Atoi(customerIDStr)
	productID, errProduct := strconv.Atoi(productIDStr)
	quantity, errQuantity := strconv.Atoi(quantityStr)
	if errCustomer != nil || errProduct != nil || errQuantity != nil {
		h.log.Warnf("Purchase registration rejected: non-integer fields (cliente: %q, producto: %q, cantidad: %q)", customerIDStr, productIDStr, quantityStr)
		redirectWithNotice(c, h.log, "/clientes", Notice{
			Category: NoticeError,
			Message:  "El Cliente, Producto y Cantidad deben ser números enteros válidos.",
		})
		return
	}

	receipt, err := h.useCase.RegisterPurchase(customerID, productID, quantity)
	if err != nil {
		var validationErr *domain.ValidationError
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &validationErr):
			redirectWithNotice(c, h.log, fmt.Sprintf("/registrar_compra/%d", customerID), Notice{
				Category: NoticeError,
				Message:  validationErr.Message,
			})
		case errors.As(err, &stockErr):
			redirectWithNotice(c, h.log, fmt.Sprintf("/registrar_compra/%d", customerID), Notice{
				Category: NoticeError,
				Message:  fmt.Sprintf("No hay suficiente stock para %q. Stock actual: %d.", stockErr.ProductName, stockErr.Stock),
			})
		case errors.Is(err, domain.ErrNotFound):
			redirectWithNotice(c, h.log, "/clientes", Notice{
				Category: NoticeError,
				Message:  "Producto no encontrado.",
			})
		default:
			h.log.Errorf("Failed to register purchase (customer: %d, product: %d): %v", customerID, productID, err)
			redirectWithNotice(c, h.log, fmt.Sprintf("/registrar_compra/%d", customerID), Notice{
				Category: NoticeError,
				Message:  "Ocurrió un error al registrar la compra. Inténtalo de nuevo. Se deshicieron los cambios.",
			})
		}
		return
	}

	redirectWithNotice(c, h.log, fmt.Sprintf("/compras/%d", customerID), Notice{
		Category: NoticeSuccess,
		Message:  fmt.Sprintf("Compra de %d unidades de %q registrada y stock actualizado.", receipt.Quantity, receipt.ProductName),
	})
}

// formPath rebuilds the purchase form path, keeping the customer
// pre-selection when either the path or the form provided one.
func (h *PurchaseHandler) formPath(pathID, formID string) string {
	if pathID != "" {
		return "/registrar_compra/" + pathID
	}
	if formID != "" {
		return "/registrar_compra/" + formID
	}
	return "/registrar_compra"
}
