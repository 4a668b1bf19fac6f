package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/repository"
	"github.com/talkincode/storefront/internal/webserver"
)

const (
	featuredProductsLimit = 8
	recentProductsLimit   = 8
)

// productPayload serves create, PUT and PATCH; nil fields are untouched
type productPayload struct {
	CategoryID           *int64              `json:"categoria"`
	Name                 *string             `json:"nombre" validate:"omitempty,max=200"`
	Description          *string             `json:"descripcion"`
	TechnicalDescription *string             `json:"descripcion_tecnica"`
	Price                *decimal.Decimal    `json:"precio"`
	LicenseType          *domain.LicenseType `json:"tipo_licencia" validate:"omitempty,choice"`
	CurrentVersion       *string             `json:"version_actual" validate:"omitempty,max=20"`
	DownloadFile         *string             `json:"archivo_descarga" validate:"omitempty,max=255"`
	SystemRequirements   *string             `json:"requisitos_sistema"`
	MainImage            *string             `json:"imagen_principal" validate:"omitempty,max=255"`
	Screenshot1          *string             `json:"captura1" validate:"omitempty,max=255"`
	Screenshot2          *string             `json:"captura2" validate:"omitempty,max=255"`
	Screenshot3          *string             `json:"captura3" validate:"omitempty,max=255"`
	Stock                *int                `json:"stock" validate:"omitempty,gte=0"`
	Active               *bool               `json:"activo"`
	Featured             *bool               `json:"destacado"`
}

// check adds the rules the validator cannot express. full selects the
// create/PUT contract where required fields must be present.
func (p *productPayload) check(c echo.Context, fe webserver.FieldErrors, full bool) error {
	if full || p.Name != nil {
		requireText(fe, "nombre", p.Name)
	}
	if full || p.Description != nil {
		requireText(fe, "descripcion", p.Description)
	}
	if p.Price != nil {
		checkMoney(fe, "precio", *p.Price)
	} else if full {
		fe.Add("precio", msgRequired)
	}
	if p.CategoryID == nil {
		if full {
			fe.Add("categoria", msgRequired)
		}
		return nil
	}
	return checkCategory(c.Request().Context(), GetRepos(c), fe, *p.CategoryID)
}

func (p *productPayload) apply(dst *domain.Product) {
	if p.CategoryID != nil {
		dst.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		dst.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.TechnicalDescription != nil {
		dst.TechnicalDescription = *p.TechnicalDescription
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.LicenseType != nil {
		dst.LicenseType = *p.LicenseType
	}
	if p.CurrentVersion != nil {
		dst.CurrentVersion = strings.TrimSpace(*p.CurrentVersion)
	}
	if p.DownloadFile != nil {
		dst.DownloadFile = strings.TrimSpace(*p.DownloadFile)
	}
	if p.SystemRequirements != nil {
		dst.SystemRequirements = *p.SystemRequirements
	}
	if p.MainImage != nil {
		dst.MainImage = strings.TrimSpace(*p.MainImage)
	}
	if p.Screenshot1 != nil {
		dst.Screenshot1 = strings.TrimSpace(*p.Screenshot1)
	}
	if p.Screenshot2 != nil {
		dst.Screenshot2 = strings.TrimSpace(*p.Screenshot2)
	}
	if p.Screenshot3 != nil {
		dst.Screenshot3 = strings.TrimSpace(*p.Screenshot3)
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.Active != nil {
		dst.Active = *p.Active
	}
	if p.Featured != nil {
		dst.Featured = *p.Featured
	}
}

// registerProductRoutes registers the product catalog endpoints
func registerProductRoutes(srv *webserver.Server) {
	srv.ApiGET("/productos/", listProducts, authorize("productos", ActionList))
	srv.ApiPOST("/productos/", createProduct, authorize("productos", ActionCreate))
	srv.ApiGET("/productos/destacados/", featuredProducts, authorize("productos", "destacados"))
	srv.ApiGET("/productos/recientes/", recentProducts, authorize("productos", "recientes"))
	srv.ApiGET("/productos/export/", exportProducts, authorize("productos", "export"))
	srv.ApiGET("/productos/:id/", getProduct, authorize("productos", ActionRetrieve))
	srv.ApiPUT("/productos/:id/", updateProduct(false), authorize("productos", ActionUpdate))
	srv.ApiPATCH("/productos/:id/", updateProduct(true), authorize("productos", ActionPartialUpdate))
	srv.ApiDELETE("/productos/:id/", deleteProduct, authorize("productos", ActionDestroy))
}

// productFilters reads categoria, tipo_licencia, destacado and search
func productFilters(c echo.Context) (repository.ProductQuery, webserver.FieldErrors) {
	f := newQueryFilter(c)
	q := repository.ProductQuery{
		CategoryID:  f.id("categoria"),
		LicenseType: queryChoice[domain.LicenseType](f, "tipo_licencia"),
		Featured:    f.flag("destacado"),
		Search:      strings.TrimSpace(c.QueryParam("search")),
		Ordering:    queryOrdering(c),
	}
	return q, f.fe
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q, fe := productFilters(c)
	if len(fe) > 0 {
		return failValidation(c, fe)
	}
	q.Page = pageWindow(page, pageSize)
	rows, total, err := GetRepos(c).Products.List(c.Request().Context(), q)
	if err != nil {
		return failDatabase(c, "Failed to query products", err)
	}
	return paged(c, serializeProductList(mediaURL(c), rows), total, page, pageSize)
}

func featuredProducts(c echo.Context) error {
	featured := true
	rows, _, err := GetRepos(c).Products.List(c.Request().Context(), repository.ProductQuery{
		Featured: &featured,
		Page:     repository.Page{Limit: featuredProductsLimit},
	})
	if err != nil {
		return failDatabase(c, "Failed to query products", err)
	}
	return ok(c, serializeProductList(mediaURL(c), rows))
}

func recentProducts(c echo.Context) error {
	rows, _, err := GetRepos(c).Products.List(c.Request().Context(), repository.ProductQuery{
		Ordering: []string{"-fecha_creacion"},
		Page:     repository.Page{Limit: recentProductsLimit},
	})
	if err != nil {
		return failDatabase(c, "Failed to query products", err)
	}
	return ok(c, serializeProductList(mediaURL(c), rows))
}

func loadProduct(c echo.Context) (*domain.Product, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, invalidID(c)
	}
	p, err := GetRepos(c).Products.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(c)
	}
	if err != nil {
		return nil, failDatabase(c, "Failed to query product", err)
	}
	return p, nil
}

func getProduct(c echo.Context) error {
	p, err := loadProduct(c)
	if p == nil {
		return err
	}
	return ok(c, serializeProduct(mediaURL(c), *p))
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse product")
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

	p := domain.NewProduct()
	payload.apply(&p)
	if err := GetRepos(c).Products.Create(c.Request().Context(), &p); err != nil {
		return failDatabase(c, "Failed to create product", err)
	}
	return created(c, serializeProduct(mediaURL(c), p))
}

func updateProduct(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := loadProduct(c)
		if p == nil {
			return err
		}
		var payload productPayload
		if err := c.Bind(&payload); err != nil {
			return failBind(c, err, "Unable to parse product")
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

		payload.apply(p)
		if err := GetRepos(c).Products.Update(c.Request().Context(), p); err != nil {
			return failDatabase(c, "Failed to update product", err)
		}
		return ok(c, serializeProduct(mediaURL(c), *p))
	}
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return invalidID(c)
	}
	err = GetRepos(c).Products.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return failDatabase(c, "Failed to delete product", err)
	}
	return c.NoContent(http.StatusNoContent)
}
