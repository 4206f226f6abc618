package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/core/teacher"
)

type activityApi struct {
	*Server
	svc activity.ServiceInterface
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := activityApi{Server: s, svc: s.deps.ActivitySvc}

	// un-authed endpoints
	g.GET("", api.query)
	g.GET("/days", api.days)

	// authed endpoints: registrations are managed by teachers
	g.POST("/:name/signup", api.signup, jwt)
	g.POST("/:name/unregister", api.unregister, jwt)
}

// Handlers

func (api *activityApi) query(ctx echo.Context) error {
	var filter activity.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := filter.Validate(api.deps.Validate); err != nil {
		return err
	}

	acts, err := api.svc.Query(filter)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	res := make(map[string]activity.Activity, len(acts))
	for _, a := range acts {
		res[a.Name] = a
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *activityApi) days(ctx echo.Context) error {
	days, err := api.svc.Days()
	if err != nil {
		return errors.Wrap(err, "listing activity days")
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *activityApi) signup(ctx echo.Context) error {
	data, by, err := api.participantRequest(ctx)
	if err != nil {
		return err
	}

	if _, err := api.svc.Signup(data.Name, data.Email, by); err != nil {
		return errors.Wrap(err, "signing up")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Signed up %s for %s", data.Email, data.Name)})
}

func (api *activityApi) unregister(ctx echo.Context) error {
	data, by, err := api.participantRequest(ctx)
	if err != nil {
		return err
	}

	if _, err := api.svc.Unregister(data.Name, data.Email, by); err != nil {
		return errors.Wrap(err, "unregistering")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Unregistered %s from %s", data.Email, data.Name)})
}

// participantRequest binds and validates the request, then loads the teacher making it.
func (api *activityApi) participantRequest(ctx echo.Context) (ParticipantRequest, teacher.Teacher, error) {
	var data ParticipantRequest
	if err := data.Bind(ctx); err != nil {
		return data, teacher.Teacher{}, err
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return data, teacher.Teacher{}, err
	}

	by, err := getContextTeacher(ctx, api.deps.TeacherSvc)
	if err != nil {
		return data, teacher.Teacher{}, errors.Wrap(err, "getting context teacher")
	}
	return data, by, nil
}
