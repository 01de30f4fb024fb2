package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-crm/internal/service"
	"go-gin-gorm-crm/internal/transport/http/ez"
)

type sessionRoutes struct {
	svc *service.SessionService
}

// Priority mounts the auth endpoints first.
func (sessionRoutes) Priority() int { return 10 }

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// tokenIn is the OAuth2 resource owner password form; username carries the email.
type tokenIn struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meOut struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	IsActive bool    `json:"is_active"`
}

func (m sessionRoutes) MountAPI(g Groups) {
	ez.RegisterAction(g.Public, ez.Action[loginIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.Session, error) {
			return m.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.RegisterAction(g.Public, ez.Action[tokenIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/token",
		Binder: ez.BindForm,
		Raw:    true,
		Handler: func(c *gin.Context, in *tokenIn) (tokenOut, error) {
			s, err := m.svc.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{AccessToken: s.AccessToken, TokenType: s.TokenType}, nil
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (meOut, error) {
			uid, ok := ez.UserID(c)
			if !ok {
				return meOut{}, ez.Unauthorized("unauthorized")
			}
			u, err := m.svc.Resolve(c.Request.Context(), uid)
			if err != nil {
				return meOut{}, err
			}
			return meOut{ID: u.ID, Email: u.Email, Name: u.Name, IsActive: u.IsActive}, nil
		},
	})
}
