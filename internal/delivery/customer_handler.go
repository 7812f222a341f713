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

type CustomerHandler struct {
	useCase usecase.CustomerUseCase
	log     *logrus.Logger
}

func NewCustomerHandler(uc usecase.CustomerUseCase, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CustomerHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/clientes", h.List)
	router.GET("/crear_cliente", h.ShowCreate)
	router.POST("/crear_cliente", h.Create)
	router.GET("/editar_cliente/:id", h.ShowEdit)
	router.POST("/editar_cliente/:id", h.Update)
	router.POST("/eliminar_cliente/:id", h.Delete)
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.useCase.ListCustomers()
	if err != nil {
		h.log.Errorf("Failed to list customers: %v", err)
		customers = []domain.Customer{}
	}
	render(c, h.log, "clientes.html", gin.H{
		"Customers": customers,
	})
}

func (h *CustomerHandler) ShowCreate(c *gin.Context) {
	render(c, h.log, "formulario_cliente.html", gin.H{
		"Action": "crear",
	})
}

func (h *CustomerHandler) Create(c *gin.Context) {
	input := usecase.CustomerInput{
		Name:  c.PostForm("nombre"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("telefono"),
	}

	customer, err := h.useCase.CreateCustomer(input)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			redirectWithNotice(c, h.log, "/crear_cliente", Notice{Category: NoticeError, Message: validationErr.Message})
			return
		}
		h.log.Errorf("Failed to create customer: %v", err)
		redirectWithNotice(c, h.log, "/crear_cliente", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error al guardar el cliente. Inténtalo de nuevo.",
		})
		return
	}

	redirectWithNotice(c, h.log, "/clientes", Notice{
		Category: NoticeSuccess,
		Message:  fmt.Sprintf("Cliente %q creado exitosamente.", customer.Name),
	})
}

func (h *CustomerHandler) ShowEdit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid customer ID parameter: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado."})
		return
	}

	customer, err := h.useCase.GetCustomerByID(id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.log.Errorf("Failed to load customer %d for edit: %v", id, err)
		}
		redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado."})
		return
	}

	render(c, h.log, "formulario_cliente.html", gin.H{
		"Action":   "editar",
		"Customer": customer,
	})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid customer ID parameter for update: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado."})
		return
	}

	input := usecase.CustomerInput{
		Name:  c.PostForm("nombre"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("telefono"),
	}

	customer, err := h.useCase.UpdateCustomer(id, input)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			redirectWithNotice(c, h.log, fmt.Sprintf("/editar_cliente/%d", id), Notice{Category: NoticeError, Message: validationErr.Message})
		case errors.Is(err, domain.ErrNotFound):
			redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado."})
		default:
			h.log.Errorf("Failed to update customer %d: %v", id, err)
			redirectWithNotice(c, h.log, fmt.Sprintf("/editar_cliente/%d", id), Notice{
				Category: NoticeError,
				Message:  "Ocurrió un error al actualizar el cliente. Inténtalo de nuevo.",
			})
		}
		return
	}

	redirectWithNotice(c, h.log, "/clientes", Notice{
		Category: NoticeSuccess,
		Message:  fmt.Sprintf("Cliente %q actualizado exitosamente.", customer.Name),
	})
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid customer ID parameter for delete: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado para eliminar."})
		return
	}

	if err := h.useCase.DeleteCustomer(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			redirectWithNotice(c, h.log, "/clientes", Notice{Category: NoticeError, Message: "Cliente no encontrado para eliminar."})
			return
		}
		h.log.Errorf("Failed to delete customer %d: %v", id, err)
		redirectWithNotice(c, h.log, "/clientes", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error al intentar eliminar el cliente.",
		})
		return
	}

	redirectWithNotice(c, h.log, "/clientes", Notice{
		Category: NoticeSuccess,
		Message:  "Cliente eliminado exitosamente (incluyendo su historial de compras).",
	})
}
