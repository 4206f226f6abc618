package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/teacher"
)

type teacherApi struct {
	*Server
	svc teacher.ServiceInterface
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := teacherApi{Server: s, svc: s.deps.TeacherSvc}

	// un-authed endpoints
	g.POST("/login", api.login)
	g.GET("/check-session", api.checkSession)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/teachers", api.create, adminMiddleware())
}

// Handlers

func (api *teacherApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := data.Bind(ctx); err != nil {
		return err
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	t, err := authenticate(data.Username, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, GetTeacherClaims(api.conf, t))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Username:    t.Username,
		DisplayName: t.DisplayName,
		Role:        t.Role,
		Token:       token,
	})
}

func (api *teacherApi) checkSession(ctx echo.Context) error {
	uname := core.CleanString(ctx.QueryParam("username"), true /* lower */)
	if uname == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "username", Error: "this field is required"})
	}

	t, err := api.svc.GetByUsername(uname)
	if err != nil {
		return errors.Wrap(err, "finding teacher by username")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if _, err := api.svc.GetByUsername(data.Username); err == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "username", Error: "a teacher with this username already exists"})
	} else if errors.Cause(err) != teacher.ErrNotFound {
		return errors.Wrap(err, "finding teacher by username")
	}

	t, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}
