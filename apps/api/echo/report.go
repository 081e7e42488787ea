package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/report"
	"github.com/trezcool/notas/services/export"
)

var defaultExportFormat = "pdf"

type (
	// EmailReportRequest sends the report as an attachment; To defaults to the professor's own address.
	EmailReportRequest struct {
		To     string `json:"to" validate:"omitempty,email"`
		Format string `json:"format" validate:"omitempty,oneof=pdf xlsx"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

type reportApi struct {
	svc     *report.Service
	mailSvc core.EmailService
	logger  core.Logger
}

func registerReportAPI(
	g *echo.Group,
	svc *report.Service,
	mailSvc core.EmailService,
	logger core.Logger,
	jwt, prof echo.MiddlewareFunc,
) {
	api := reportApi{svc: svc, mailSvc: mailSvc, logger: logger}

	rg := g.Group("/report", jwt, prof)
	rg.GET("", api.query)
	rg.POST("/email", api.email)
	rg.GET("/:format", api.export)
}

func (api *reportApi) rows(ctx echo.Context) ([]report.Row, error) {
	ordering := new(Ordering)
	if err := ordering.Bind(ctx, report.IsSortKey); err != nil {
		return nil, err
	}

	rows, err := api.svc.Query(ctx.Request().Context(), ctx.QueryParam(searchParam), ordering.Orderings...)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.Row{}
	}
	return rows, nil
}

func render(format string, rows []report.Row) (*bytes.Buffer, export.Renderer, error) {
	renderer, ok := export.ByFormat(format)
	if !ok {
		return nil, nil, errHttpNotFound
	}
	buf := new(bytes.Buffer)
	if err := renderer.Render(buf, rows); err != nil {
		return nil, nil, errors.Wrapf(err, "rendering %s report", format)
	}
	return buf, renderer, nil
}

// Handlers

func (api *reportApi) query(ctx echo.Context) error {
	rows, err := api.rows(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) export(ctx echo.Context) error {
	format := ctx.Param("format")
	if _, ok := export.ByFormat(format); !ok {
		return errHttpNotFound
	}

	rows, err := api.rows(ctx)
	if err != nil {
		return err
	}
	buf, renderer, err := render(format, rows)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", renderer.Filename()))
	return ctx.Blob(http.StatusOK, renderer.ContentType(), buf.Bytes())
}

func (api *reportApi) email(ctx echo.Context) error {
	var data EmailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailReportRequest")
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}
	if data.Format == "" {
		data.Format = defaultExportFormat
	}

	prof, ok := contextProfessor(ctx)
	if !ok {
		return errUnauthorized
	}
	to := mail.Address{Name: prof.Name, Address: prof.Email}
	if data.To != "" {
		to = mail.Address{Address: data.To}
	}

	rows, err := api.rows(ctx)
	if err != nil {
		return err
	}
	buf, renderer, err := render(data.Format, rows)
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:          []mail.Address{to},
		Subject:     export.Title,
		TextContent: fmt.Sprintf("%s: %d alunos.", export.Title, len(rows)),
	}
	if err := msg.Attach(buf, renderer.Filename(), renderer.ContentType()); err != nil {
		return errors.Wrap(err, "attaching report")
	}
	api.mailSvc.SendMessages(msg)
	api.logger.Info("report emailed to " + to.Address)

	return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "report sent to " + to.Address})
}
