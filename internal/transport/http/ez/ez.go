// Package ez registers typed gin actions: bind the input, run the handler, and
// write the result or the mapped error in the response envelope.
package ez

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/domain"
	resp "go-gin-gorm-crm/internal/transport/http/response"
)

// KeyUserID is where the auth middleware stores the caller's user id (int64).
const KeyUserID = "userId"

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// Group returns an EZ for a sub-group sharing the same logger.
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindForm  Binder = "form"  // application/x-www-form-urlencoded or multipart
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// AErr carries an explicit envelope code; use it for errors without a domain kind.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error    { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error  { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func NotFound(msg string) error      { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Unprocessable(msg string) error { return &AErr{Code: resp.CodeUnprocessable, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action describes one endpoint: I is the bound input, O the response data.
type Action[I any, O any] struct {
	Method string // GET | POST | PUT | DELETE
	Path   string
	Binder Binder
	// Status is the HTTP status on success; 0 means 200.
	Status int
	// Raw writes O without the envelope (OAuth2 token responses).
	Raw     bool
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				e.Fail(c, &AErr{Code: resp.CodeTooLarge, Msg: "request body too large"})
				return
			}
			e.Fail(c, Unprocessable(bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		if a.Raw {
			c.JSON(status, out)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Fail writes err as an envelope whose code is also the HTTP status.
func (e EZ) Fail(c *gin.Context, err error) {
	code, msg := Classify(err)
	if code >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}

// Classify maps err to an envelope code and a client-safe message.
func Classify(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Code >= http.StatusInternalServerError {
			return ae.Code, resp.CodeMsgMap[resp.CodeServerError]
		}
		return ae.Code, ae.Error()
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return resp.CodeConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resp.CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return resp.CodeUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrValidation):
		return resp.CodeUnprocessable, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return resp.CodeTimeout, "timeout"
	}
	return resp.CodeServerError, resp.CodeMsgMap[resp.CodeServerError]
}

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, Unprocessable("invalid " + name)
	}
	return id, nil
}

// UserID returns the id set by the auth middleware, if any.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(KeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
