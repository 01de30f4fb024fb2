package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/service"
	"go-gin-gorm-crm/internal/transport/http/ez"
)

type interactionRoutes struct {
	svc *service.InteractionService
}

func (m interactionRoutes) MountAPI(g Groups) {
	e := g.Records

	ez.RegisterAction(e, ez.Action[domain.InteractionInput, *domain.Interaction]{
		Method: http.MethodPost,
		Path:   "/customers/:id/interactions",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.InteractionInput) (*domain.Interaction, error) {
			customerID, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Create(c.Request.Context(), customerID, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[pageQuery, []domain.Interaction]{
		Method: http.MethodGet,
		Path:   "/customers/:id/interactions",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) ([]domain.Interaction, error) {
			customerID, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.ListByCustomer(c.Request.Context(), customerID, in.page(service.DefaultRecordLimit))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodDelete,
		Path:   "/interactions/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (idOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return idOut{}, err
			}
			return idOut{ID: id}, m.svc.Delete(c.Request.Context(), id)
		},
	})
}
