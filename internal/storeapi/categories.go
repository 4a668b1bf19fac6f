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

const msgCategoryNameTaken = "categoria with this nombre already exists."

// categoryPayload serves create, PUT and PATCH. Nil fields are left as they
// are; required() enforces the create/PUT contract.
type categoryPayload struct {
	Name        *string `json:"nombre" validate:"omitempty,max=100"`
	Description *string `json:"descripcion"`
	Icon        *string `json:"icono" validate:"omitempty,max=50"`
	Active      *bool   `json:"activo"`
}

func (p *categoryPayload) required(fe webserver.FieldErrors) {
	requireText(fe, "nombre", p.Name)
}

func (p *categoryPayload) apply(cat *domain.Category) {
	if p.Name != nil {
		cat.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		cat.Description = *p.Description
	}
	if p.Icon != nil {
		cat.Icon = strings.TrimSpace(*p.Icon)
	}
	if p.Active != nil {
		cat.Active = *p.Active
	}
}

func registerCategoryRoutes(srv *webserver.Server) {
	srv.ApiGET("/categorias/", listCategories, authorize("categorias", ActionList))
	srv.ApiPOST("/categorias/", createCategory, authorize("categorias", ActionCreate))
	srv.ApiGET("/categorias/:id/", getCategory, authorize("categorias", ActionRetrieve))
	srv.ApiPUT("/categorias/:id/", updateCategory(false), authorize("categorias", ActionUpdate))
	srv.ApiPATCH("/categorias/:id/", updateCategory(true), authorize("categorias", ActionPartialUpdate))
	srv.ApiDELETE("/categorias/:id/", deleteCategory, authorize("categorias", ActionDestroy))
	srv.ApiGET("/categorias/:id/productos/", listCategoryProducts, authorize("categorias", "productos"))
	srv.ApiGET("/categorias/:id/servicios/", listCategoryServices, authorize("categorias", "servicios"))
}

// renderCategories attaches the active child counts of one page in a
// single grouped query
func renderCategories(c echo.Context, rows []domain.Category) ([]categoryResource, error) {
	ids := make([]int64, 0, len(rows))
	for _, cat := range rows {
		ids = append(ids, cat.ID)
	}
	counts, err := GetRepos(c).Categories.CountChildren(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}
	items := make([]categoryResource, 0, len(rows))
	for _, cat := range rows {
		items = append(items, serializeCategory(cat, counts[cat.ID]))
	}
	return items, nil
}

func renderCategory(c echo.Context, status int, cat domain.Category) error {
	items, err := renderCategories(c, []domain.Category{cat})
	if err != nil {
		return failDatabase(c, "Failed to count category children", err)
	}
	return c.JSON(status, webserver.Response{Data: items[0]})
}

func listCategories(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, total, err := GetRepos(c).Categories.List(c.Request().Context(), repository.CategoryQuery{
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Ordering: queryOrdering(c),
		Page:     pageWindow(page, pageSize),
	})
	if err != nil {
		return failDatabase(c, "Failed to query categories", err)
	}
	items, err := renderCategories(c, rows)
	if err != nil {
		return failDatabase(c, "Failed to count category children", err)
	}
	return paged(c, items, total, page, pageSize)
}

// loadCategory resolves :id within the active set. On failure the response
// has already been written and the returned error is the handler result.
func loadCategory(c echo.Context) (*domain.Category, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, invalidID(c)
	}
	cat, err := GetRepos(c).Categories.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(c)
	}
	if err != nil {
		return nil, failDatabase(c, "Failed to query category", err)
	}
	return cat, nil
}

func getCategory(c echo.Context) error {
	cat, err := loadCategory(c)
	if cat == nil {
		return err
	}
	return renderCategory(c, http.StatusOK, *cat)
}

// checkCategoryName adds the uniqueness error when name is already taken
func checkCategoryName(c echo.Context, fe webserver.FieldErrors, name string, excludeID int64) error {
	if name == "" || len(fe["nombre"]) > 0 {
		return nil
	}
	taken, err := GetRepos(c).Categories.NameExists(c.Request().Context(), name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		fe.Add("nombre", msgCategoryNameTaken)
	}
	return nil
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse category")
	}
	fe, err := validatePayload(c, &payload)
	if err != nil {
		return handleValidationError(c, err)
	}
	payload.required(fe)
	if err := checkCategoryName(c, fe, trimmed(payload.Name), 0); err != nil {
		return failDatabase(c, "Failed to check category name", err)
	}
	if len(fe) > 0 {
		return failValidation(c, fe)
	}

	cat := domain.Category{Active: true}
	payload.apply(&cat)
	err = GetRepos(c).Categories.Create(c.Request().Context(), &cat)
	if errors.Is(err, repository.ErrDuplicate) {
		return failValidation(c, webserver.FieldErrors{"nombre": {msgCategoryNameTaken}})
	}
	if err != nil {
		return failDatabase(c, "Failed to create category", err)
	}
	return renderCategory(c, http.StatusCreated, cat)
}

func updateCategory(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		cat, err := loadCategory(c)
		if cat == nil {
			return err
		}
		var payload categoryPayload
		if err := c.Bind(&payload); err != nil {
			return failBind(c, err, "Unable to parse category")
		}
		fe, err := validatePayload(c, &payload)
		if err != nil {
			return handleValidationError(c, err)
		}
		if !partial {
			payload.required(fe)
		} else if payload.Name != nil {
			requireText(fe, "nombre", payload.Name)
		}
		if err := checkCategoryName(c, fe, trimmed(payload.Name), cat.ID); err != nil {
			return failDatabase(c, "Failed to check category name", err)
		}
		if len(fe) > 0 {
			return failValidation(c, fe)
		}

		payload.apply(cat)
		err = GetRepos(c).Categories.Update(c.Request().Context(), cat)
		if errors.Is(err, repository.ErrDuplicate) {
			return failValidation(c, webserver.FieldErrors{"nombre": {msgCategoryNameTaken}})
		}
		if err != nil {
			return failDatabase(c, "Failed to update category", err)
		}
		return renderCategory(c, http.StatusOK, *cat)
	}
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return invalidID(c)
	}
	err = GetRepos(c).Categories.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return failDatabase(c, "Failed to delete category", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func listCategoryProducts(c echo.Context) error {
	cat, err := loadCategory(c)
	if cat == nil {
		return err
	}
	rows, _, err := GetRepos(c).Products.List(c.Request().Context(), repository.ProductQuery{CategoryID: &cat.ID})
	if err != nil {
		return failDatabase(c, "Failed to query products", err)
	}
	return ok(c, serializeProductList(mediaURL(c), rows))
}

func listCategoryServices(c echo.Context) error {
	cat, err := loadCategory(c)
	if cat == nil {
		return err
	}
	rows, _, err := GetRepos(c).Services.List(c.Request().Context(), repository.ServiceQuery{CategoryID: &cat.ID})
	if err != nil {
		return failDatabase(c, "Failed to query services", err)
	}
	return ok(c, serializeServiceList(mediaURL(c), rows))
}
