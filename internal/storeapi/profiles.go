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

// profilePayload carries the owner-editable fields. PUT and PATCH are both
// partial: a profile has no required field.
type profilePayload struct {
	Phone   *string `json:"telefono" validate:"omitempty,max=20"`
	Company *string `json:"empresa" validate:"omitempty,max=200"`
	Address *string `json:"direccion"`
	Avatar  *string `json:"avatar" validate:"omitempty,max=255"`
}

func (p *profilePayload) apply(dst *domain.Profile) {
	if p.Phone != nil {
		dst.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Company != nil {
		dst.Company = strings.TrimSpace(*p.Company)
	}
	if p.Address != nil {
		dst.Address = *p.Address
	}
	if p.Avatar != nil {
		dst.Avatar = strings.TrimSpace(*p.Avatar)
	}
}

func registerProfileRoutes(srv *webserver.Server) {
	srv.ApiGET("/perfiles/", listProfiles, authorize("perfiles", ActionList))
	srv.ApiPOST("/perfiles/", createProfile, authorize("perfiles", ActionCreate))
	srv.ApiGET("/perfiles/me/", getMyProfile, authorize("perfiles", "me"))
	srv.ApiPUT("/perfiles/me/", updateMyProfile, authorize("perfiles", "me"))
	srv.ApiPATCH("/perfiles/me/", updateMyProfile, authorize("perfiles", "me"))
	srv.ApiGET("/perfiles/:id/", getProfile, authorize("perfiles", ActionRetrieve))
	srv.ApiPUT("/perfiles/:id/", updateProfile, authorize("perfiles", ActionUpdate))
	srv.ApiPATCH("/perfiles/:id/", updateProfile, authorize("perfiles", ActionPartialUpdate))
	srv.ApiDELETE("/perfiles/:id/", deleteProfile, authorize("perfiles", ActionDestroy))
}

// profileScope limits regular users to their own profile; staff see all
func profileScope(u *domain.User) repository.ProfileScope {
	if u.IsStaff {
		return repository.ProfileScope{}
	}
	return repository.ProfileScope{OwnerID: u.ID}
}

func listProfiles(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, total, err := GetRepos(c).Profiles.List(c.Request().Context(), profileScope(currentUser(c)), pageWindow(page, pageSize))
	if err != nil {
		return failDatabase(c, "Failed to query profiles", err)
	}
	items := make([]profileResource, 0, len(rows))
	for _, p := range rows {
		items = append(items, serializeProfile(mediaURL(c), p))
	}
	return paged(c, items, total, page, pageSize)
}

func loadProfile(c echo.Context) (*domain.Profile, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, invalidID(c)
	}
	p, err := GetRepos(c).Profiles.Get(c.Request().Context(), profileScope(currentUser(c)), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(c)
	}
	if err != nil {
		return nil, failDatabase(c, "Failed to query profile", err)
	}
	return p, nil
}

func getProfile(c echo.Context) error {
	p, err := loadProfile(c)
	if p == nil {
		return err
	}
	return ok(c, serializeProfile(mediaURL(c), *p))
}

// createProfile creates the caller's own profile when it has none
func createProfile(c echo.Context) error {
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse profile")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	u := currentUser(c)
	p := domain.Profile{UserID: u.ID}
	payload.apply(&p)
	err := GetRepos(c).Profiles.Create(c.Request().Context(), &p)
	if errors.Is(err, repository.ErrDuplicate) {
		return failValidation(c, webserver.FieldErrors{"user": {"This user already has a profile."}})
	}
	if err != nil {
		return failDatabase(c, "Failed to create profile", err)
	}
	return created(c, serializeProfile(mediaURL(c), p))
}

// saveProfile applies the request body to p and answers with the result
func saveProfile(c echo.Context, p *domain.Profile) error {
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return failBind(c, err, "Unable to parse profile")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	payload.apply(p)
	if err := GetRepos(c).Profiles.Update(c.Request().Context(), p); err != nil {
		return failDatabase(c, "Failed to update profile", err)
	}
	return ok(c, serializeProfile(mediaURL(c), *p))
}

func updateProfile(c echo.Context) error {
	p, err := loadProfile(c)
	if p == nil {
		return err
	}
	return saveProfile(c, p)
}

func deleteProfile(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return invalidID(c)
	}
	err = GetRepos(c).Profiles.Delete(c.Request().Context(), profileScope(currentUser(c)), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return failDatabase(c, "Failed to delete profile", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func myProfile(c echo.Context) (*domain.Profile, error) {
	p, err := GetRepos(c).Profiles.GetOrCreate(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return nil, failDatabase(c, "Failed to load profile", err)
	}
	return p, nil
}

func getMyProfile(c echo.Context) error {
	p, err := myProfile(c)
	if p == nil {
		return err
	}
	return ok(c, serializeProfile(mediaURL(c), *p))
}

func updateMyProfile(c echo.Context) error {
	p, err := myProfile(c)
	if p == nil {
		return err
	}
	return saveProfile(c, p)
}
