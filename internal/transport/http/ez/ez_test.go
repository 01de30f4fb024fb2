package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/domain"
	resp "go-gin-gorm-crm/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newEngine() (*gin.Engine, EZ) {
	r := gin.New()
	return r, New(r.Group(""), zap.NewNop())
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, resp.Resp) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegisterActionSuccessAndBindError(t *testing.T) {
	r, e := newEngine()
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name}, nil
		},
	})

	w, out := do(r, http.MethodPost, "/echo", `{"name":"Ana"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, resp.CodeOK, out.Code)
	require.Equal(t, map[string]any{"name": "Ana"}, out.Data)

	w, out = do(r, http.MethodPost, "/echo", `{"name":`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, resp.CodeUnprocessable, out.Code)

	w, _ = do(r, http.MethodPost, "/echo", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.NotFound("customer"), 404, "customer not found"},
		{domain.Conflict("user", "email"), 409, "email already registered"},
		{domain.Invalid("name", "is required"), 422, "name: is required"},
		{&domain.Error{Kind: domain.ErrInvalidCredentials, Msg: "incorrect email or password"}, 401, "incorrect email or password"},
		{errors.Join(domain.ErrUnauthorized, errors.New("token expired")), 401, "unauthorized"},
		{BadRequest("nope"), 400, "nope"},
		{Internal("db exploded", errors.New("dial tcp")), 500, "Internal Server Error"},
		{errors.New("pq: relation does not exist"), 500, "Internal Server Error"},
	}
	for _, tc := range cases {
		code, msg := Classify(tc.err)
		require.Equal(t, tc.code, code, tc.err.Error())
		require.Equal(t, tc.msg, msg, tc.err.Error())
	}
}

func TestParamIDAndRawOutput(t *testing.T) {
	r, e := newEngine()
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/things/:id",
		Binder: BindNone,
		Raw:    true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	w, _ := do(r, http.MethodGet, "/things/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":7}`, w.Body.String())

	for _, bad := range []string{"/things/abc", "/things/0", "/things/-1"} {
		w, _ = do(r, http.MethodGet, bad, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, bad)
	}
}
