package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/service"
	"go-gin-gorm-crm/internal/transport/http/ez"
)

type userRoutes struct {
	svc *service.UserService
}

func (m userRoutes) MountAPI(g Groups) {
	// sign-up stays open so the first account can be created
	ez.RegisterAction(g.Public, ez.Action[domain.UserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.UserInput) (*domain.User, error) {
			return m.svc.Create(c.Request.Context(), *in)
		},
	})

	e := g.Records

	ez.RegisterAction(e, ez.Action[pageQuery, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) ([]domain.User, error) {
			return m.svc.List(c.Request.Context(), in.page(service.DefaultRecordLimit))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[domain.UserPatch, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.UserPatch) (*domain.User, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), id, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
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
