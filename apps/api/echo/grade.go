package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core/grade"
)

type (
	// RosterEditRequest is a list of cell edits applied, in order, to a class roster before saving it.
	RosterEditRequest struct {
		Edits []grade.Edit `json:"edits"`
	}

	SaveGradesRequest struct {
		Grades []grade.Grade `json:"grades"`
	}

	SaveGradesResponse struct {
		Saved  int           `json:"saved"`
		Grades []grade.Grade `json:"grades"`
	}

	// CellEditRequest recomputes one record without touching the store.
	CellEditRequest struct {
		Grade grade.Grade `json:"grade"`
		Field string      `json:"field"`
		Value interface{} `json:"value"`
	}
)

type gradeApi struct {
	svc *grade.Service
}

func registerGradeAPI(g *echo.Group, svc *grade.Service, jwt, prof echo.MiddlewareFunc) {
	api := gradeApi{svc: svc}

	g.GET("/classes/:id/roster", api.roster, jwt, prof)
	g.PATCH("/classes/:id/roster", api.editRoster, jwt, prof)

	gg := g.Group("/grades", jwt, prof)
	gg.GET("", api.query)
	gg.PUT("", api.saveAll)
	gg.POST("/edit", api.editCell)
}

// Handlers

func (api *gradeApi) roster(ctx echo.Context) error {
	roster, err := api.svc.LoadRoster(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *gradeApi) editRoster(ctx echo.Context) error {
	var data RosterEditRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RosterEditRequest")
	}

	roster, err := api.svc.EditRoster(ctx.Request().Context(), ctx.Param("id"), data.Edits)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *gradeApi) query(ctx echo.Context) error {
	grades, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) saveAll(ctx echo.Context) error {
	var data SaveGradesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveGradesRequest")
	}

	saved, err := api.svc.SaveAll(ctx.Request().Context(), data.Grades)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SaveGradesResponse{Saved: len(saved), Grades: saved})
}

func (api *gradeApi) editCell(ctx echo.Context) error {
	var data CellEditRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CellEditRequest")
	}

	g, err := data.Grade.Set(data.Field, data.Value)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}
