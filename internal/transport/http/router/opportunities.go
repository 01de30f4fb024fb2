package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/service"
	"go-gin-gorm-crm/internal/transport/http/ez"
)

type opportunityRoutes struct {
	svc *service.OpportunityService
}

type opportunityListQuery struct {
	Stage string `form:"stage"`
	pageQuery
}

func (m opportunityRoutes) MountAPI(g Groups) {
	e := g.Records

	ez.RegisterAction(e, ez.Action[domain.OpportunityInput, *domain.Opportunity]{
		Method: http.MethodPost,
		Path:   "/customers/:id/opportunities",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.OpportunityInput) (*domain.Opportunity, error) {
			customerID, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Create(c.Request.Context(), customerID, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[pageQuery, []domain.Opportunity]{
		Method: http.MethodGet,
		Path:   "/customers/:id/opportunities",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) ([]domain.Opportunity, error) {
			customerID, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.ListByCustomer(c.Request.Context(), customerID, in.page(service.DefaultRecordLimit))
		},
	})

	ez.RegisterAction(e, ez.Action[opportunityListQuery, []domain.Opportunity]{
		Method: http.MethodGet,
		Path:   "/opportunities",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *opportunityListQuery) ([]domain.Opportunity, error) {
			var stage *domain.Stage
			if in.Stage != "" {
				st, err := domain.ParseStage(in.Stage)
				if err != nil {
					return nil, ez.Unprocessable(err.Error())
				}
				stage = &st
			}
			return m.svc.List(c.Request.Context(), stage, in.page(service.DefaultRecordLimit))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Opportunity]{
		Method: http.MethodGet,
		Path:   "/opportunities/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Opportunity, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[domain.OpportunityPatch, *domain.Opportunity]{
		Method: http.MethodPut,
		Path:   "/opportunities/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.OpportunityPatch) (*domain.Opportunity, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), id, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodDelete,
		Path:   "/opportunities/:id",
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
