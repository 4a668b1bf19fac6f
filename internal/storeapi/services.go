package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/repository"
	"github.com/talkincode/storefront/internal/webserver"
)

const featuredServicesLimit = 6

type servicePayload struct {
	CategoryID         *int64              `json:"categoria"`
	Name               *string             `json:"nombre" validate:"omitempty,max=200"`
	Description        *string             `json:"descripcion"`
	ServiceType        *domain.ServiceType `json:"tipo_servicio" validate:"omitempty,choice"`
	BasePrice          nullableDecimal     `json:"precio_base"`
	DynamicQuote       *bool               `json:"cotizacion_dinamica"`
	EstimatedDays      *int                `json:"tiempo_estimado_dias" validate:"omitempty,gte=1"`
	ClientRequirements *string             `json:"requisitos_cliente"`
	MainImage          *string             `json:"imagen_principal" validate:"omitempty,max=255"`
	Active             *bool               `json:"activo"`
	Featured           *bool               `json:"destacado"`
}

func (p *servicePayload) check(c echo.Context, fe webserver.FieldErrors, full bool) error {
	if full || p.Name != nil {
		requireText(fe, "nombre", p.Name)
	}
	if full || p.Description != nil {
		requireText(fe, "descripcion", p.Description)
	}
	if full || p.ClientRequirements != nil {
		requireText(fe, "requisitos_cliente", p.ClientRequirements)
	}
	if full && p.ServiceType == nil {
		fe.Add("tipo_servicio", msgRequired)
	}
	if p.BasePrice.Present && p.BasePrice.Value.Valid {
		checkMoney(fe, "precio_base", p.BasePrice.Value.Decimal)
	}
	if p.CategoryID == nil {
		if full {
			fe.Add("categoria", msgRequired)
		}
		return nil
	}
	return checkCategory(c.Request().Context(), GetRepos(c), fe, *p.CategoryID)
}

func (p *servicePayload) apply(dst *domain.Service) {
	if p.CategoryID != nil {
		dst.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		dst.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.ServiceType != nil {
		dst.ServiceType = *p.ServiceType
	}
	if p.BasePrice.Present {
		dst.BasePrice = p.BasePrice.Value
	}
	if p.DynamicQuote != nil {
		dst.DynamicQuote = *p.DynamicQuote
	}
	if p.EstimatedDays != nil {
		dst.EstimatedDays = *p.EstimatedDays
	}
	if p.ClientRequirements != nil {
		dst.ClientRequirements = *p.ClientRequirements
	}
	if p.MainImage != nil {
		dst.MainImage = strings.TrimSpace(*p.MainImage)
	}
	if p.Active != nil {
		dst.Active = *p.Active
	}
	if p.Featured != nil {
		dst.Featured = *p.Featured
	}
}

func registerServiceRoutes(srv *webserver.Server) {
	srv.ApiGET("/servicios/", listServices, authorize("servicios", ActionList))
	srv.ApiPOST("/servicios/", createService, authorize("servicios", ActionCreate))
	srv.ApiGET("/servicios/destacados/", featuredServices, authorize("servicios", "destacados"))
	srv.ApiGET("/servicios/:id/", getService, authorize("servicios", ActionRetrieve))
	srv.ApiPUT("/servicios/:id/", updateService(false), authorize("servicios", ActionUpdate))
	srv.ApiPATCH("/servicios/:id/", updateService(true), authorize("servicios", ActionPartialUpdate))
	srv.ApiDELETE("/servicios/:id/", deleteService, authorize("servicios", ActionDestroy))
}

func listServices(c echo.Context) error {
	page, pageSize := parsePagination(c)
	f := newQueryFilter(c)
	q := repository.ServiceQuery{
		CategoryID:   f.id("categoria"),
		ServiceType:  queryChoice[domain.ServiceType](f, "tipo_servicio"),
		Featured:     f.flag("destacado"),
		DynamicQuote: f.flag("cotizacion_dinamica"),
		Search:       strings.TrimSpace(c.QueryParam("search")),
		Ordering:     queryOrdering(c),
		Page:         pageWindow(page, pageSize),
	}
	if len(f.fe) > 0 {
		return failValidation(c, f.fe)
	}
	rows, total, err := GetRepos(c).Services.List(c.Request().Context(), q)
	if err != nil {
		return failDatabase(c, "Failed to query services", err)
	}
	return paged(c, serializeServiceList(mediaURL(c), rows), total, page, pageSize)
}

func featuredServices(c echo.Context) error {
	featured := true
	rows, _, err := GetRepos(c).Services.List(c.Request().Context(), repository.ServiceQuery{
		Featured: &featured,
		Page:     repository.Page{Limit: featuredServicesLimit},
	})
	if err != nil {
		return failDatabase(c, "Failed to query services", err)
	}
	return ok(c, serializeServiceList(mediaURL(c), rows))
}

func loadService(c echo.Context) (*domain.Service, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, invalidID(c)
	}
	s, err := GetRepos(c).Services.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(c)
	}
	if err != nil {
		return nil, failDatabase(c, "Failed to query service", err)
	}
	return s, nil
}

func getService(c echo.Context) error {
	s, err := loadService(c)
	if s == nil {
		return err
	}
	return ok(c, serializeService(mediaURL(c), *s))
}

func createService(c echo.Context) error {
	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse service")
	}
	fe, err := validatePayload(c, &payload)
	if err != nil {
		return handleValidationError(c, err)
	}
	if err := payload.check(c, fe, true); err != nil {
		return failDatabase(c, "Failed to query category", err)
	}
	if len(fe) > 0 {
		return failValidation(c, fe)
	}

	s := domain.NewService()
	payload.apply(&s)
	if err := GetRepos(c).Services.Create(c.Request().Context(), &s); err != nil {
		return failDatabase(c, "Failed to create service", err)
	}
	return created(c, serializeService(mediaURL(c), s))
}

func updateService(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := loadService(c)
		if s == nil {
			return err
		}
		var payload servicePayload
		if err := c.Bind(&payload); err != nil {
			return failBind(c, err, "Unable to parse service")
		}
		fe, err := validatePayload(c, &payload)
		if err != nil {
			return handleValidationError(c, err)
		}
		if err := payload.check(c, fe, !partial); err != nil {
			return failDatabase(c, "Failed to query category", err)
		}
		if len(fe) > 0 {
			return failValidation(c, fe)
		}

		payload.apply(s)
		if err := GetRepos(c).Services.Update(c.Request().Context(), s); err != nil {
			return failDatabase(c, "Failed to update service", err)
		}
		return ok(c, serializeService(mediaURL(c), *s))
	}
}

func deleteService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return invalidID(c)
	}
	err = GetRepos(c).Services.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return failDatabase(c, "Failed to delete service", err)
	}
	return c.NoContent(http.StatusNoContent)
}
