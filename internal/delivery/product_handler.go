package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"store_service/internal/domain"
	"store_service/internal/usecase"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/productos")
	})
	router.GET("/productos", h.List)
	router.GET("/crear", h.ShowCreate)
	router.POST("/crear", h.Create)
	router.GET("/editar/:id", h.ShowEdit)
	router.POST("/editar/:id", h.Update)
	router.POST("/eliminar/:id", h.Delete)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.useCase.ListProducts()
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		products = []domain.Product{}
	}
	render(c, h.log, "productos.html", gin.H{
		"Products": products,
	})
}

func (h *ProductHandler) ShowCreate(c *gin.Context) {
	render(c, h.log, "formulario_producto.html", gin.H{
		"Action": "crear",
	})
}

func (h *ProductHandler) Create(c *gin.Context) {
	input := usecase.ProductInput{
		Name:  c.PostForm("nombre"),
		Price: c.PostForm("precio"),
		Stock: c.PostForm("stock"),
	}

	product, err := h.useCase.CreateProduct(input)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			redirectWithNotice(c, h.log, "/crear", Notice{Category: NoticeError, Message: validationErr.Message})
			return
		}
		h.log.Errorf("Failed to create product: %v", err)
		redirectWithNotice(c, h.log, "/crear", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error al guardar el producto. Inténtalo de nuevo.",
		})
		return
	}

	redirectWithNotice(c, h.log, "/productos", Notice{
		Category: NoticeSuccess,
		Message:  fmt.Sprintf("Producto %q creado exitosamente.", product.Name),
	})
}

func (h *ProductHandler) ShowEdit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/productos", Notice{Category: NoticeError, Message: "Producto no encontrado."})
		return
	}

	product, err := h.useCase.GetProductByID(id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.log.Errorf("Failed to load product %d for edit: %v", id, err)
		}
		redirectWithNotice(c, h.log, "/productos", Notice{Category: NoticeError, Message: "Producto no encontrado."})
		return
	}

	render(c, h.log, "formulario_producto.html", gin.H{
		"Action":  "editar",
		"Product": product,
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter for update: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/productos", Notice{Category: NoticeError, Message: "Producto no encontrado."})
		return
	}

	input := usecase.ProductInput{
		Name:  c.PostForm("nombre"),
		Price: c.PostForm("precio"),
		Stock: c.PostForm("stock"),
	}

	product, err := h.useCase.UpdateProduct(id, input)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			redirectWithNotice(c, h.log, fmt.Sprintf("/editar/%d", id), Notice{Category: NoticeError, Message: validationErr.Message})
		case errors.Is(err, domain.ErrNotFound):
			redirectWithNotice(c, h.log, "/productos", Notice{Category: NoticeError, Message: "Producto no encontrado."})
		default:
			h.log.Errorf("Failed to update product %d: %v", id, err)
			redirectWithNotice(c, h.log, fmt.Sprintf("/editar/%d", id), Notice{
				Category: NoticeError,
				Message:  "Ocurrió un error al actualizar el producto. Inténtalo de nuevo.",
			})
		}
		return
	}

	redirectWithNotice(c, h.log, "/productos", Notice{
		Category: NoticeSuccess,
		Message:  fmt.Sprintf("Producto %q actualizado exitosamente.", product.Name),
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter for delete: %s", c.Param("id"))
		redirectWithNotice(c, h.log, "/productos", Notice{Category: NoticeError, Message: "Producto no encontrado para eliminar."})
		return
	}

	if err := h.useCase.DeleteProduct(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			redirectWithNotice(c, h.log, "/productos", Notice{Category: NoticeError, Message: "Producto no encontrado para eliminar."})
			return
		}
		h.log.Errorf("Failed to delete product %d: %v", id, err)
		redirectWithNotice(c, h.log, "/productos", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error al intentar eliminar el producto.",
		})
		return
	}

	redirectWithNotice(c, h.log, "/productos", Notice{
		Category: NoticeSuccess,
		Message:  "Producto eliminado exitosamente.",
	})
}
