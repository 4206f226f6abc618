package echoapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
)

// LoginRequest accepts credentials from a JSON body or from the query string.
type LoginRequest struct {
	Username string `json:"username" query:"username" validate:"required"`
	Password string `json:"password" query:"password" validate:"required"`
}

func (lr *LoginRequest) Bind(ctx echo.Context) error {
	if err := ctx.Bind(lr); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if lr.Username == "" {
		lr.Username = ctx.QueryParam("username")
	}
	if lr.Password == "" {
		lr.Password = ctx.QueryParam("password")
	}
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return nil
}

func (lr LoginRequest) Validate(validate *validator.Validate) error { return validate.Struct(lr) }

type LoginResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Token       string `json:"token"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ParticipantRequest identifies a student registration on an activity.
// Name comes from the path, Email from the query string or a JSON body.
type ParticipantRequest struct {
	Name  string `json:"-"`
	Email string `json:"email" validate:"required,email"`
}

func (pr *ParticipantRequest) Bind(ctx echo.Context) error {
	req := ctx.Request()
	if req.ContentLength > 0 && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.NewDecoder(req.Body).Decode(pr); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
	}
	if email := ctx.QueryParam("email"); email != "" {
		pr.Email = email
	}
	pr.Email = core.CleanString(pr.Email, true /* lower */)

	name, err := url.PathUnescape(ctx.Param("name"))
	if err != nil {
		name = ctx.Param("name")
	}
	pr.Name = name
	return nil
}

func (pr ParticipantRequest) Validate(validate *validator.Validate) error { return validate.Struct(pr) }
