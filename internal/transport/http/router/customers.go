package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/service"
	"go-gin-gorm-crm/internal/transport/http/ez"
)

type customerRoutes struct {
	svc *service.CustomerService
}

type customerListQuery struct {
	Q string `form:"q"`
	pageQuery
}

func (m customerRoutes) MountAPI(g Groups) {
	e := g.Records

	ez.RegisterAction(e, ez.Action[domain.CustomerInput, *domain.Customer]{
		Method: http.MethodPost,
		Path:   "/customers",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.CustomerInput) (*domain.Customer, error) {
			return m.svc.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[customerListQuery, []domain.Customer]{
		Method: http.MethodGet,
		Path:   "/customers",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *customerListQuery) ([]domain.Customer, error) {
			return m.svc.List(c.Request.Context(), domain.CustomerQuery{
				Search: in.Q,
				Page:   in.page(service.DefaultCustomerLimit),
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Customer]{
		Method: http.MethodGet,
		Path:   "/customers/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Customer, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[domain.CustomerPatch, *domain.Customer]{
		Method: http.MethodPut,
		Path:   "/customers/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.CustomerPatch) (*domain.Customer, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), id, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.CustomerDeletion]{
		Method: http.MethodDelete,
		Path:   "/customers/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.CustomerDeletion, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Delete(c.Request.Context(), id)
		},
	})
}
