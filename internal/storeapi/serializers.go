package storeapi

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/pkg/common"
)

// categoryResource is used for both list and detail
type categoryResource struct {
	ID            int64     `json:"id"`
	Name          string    `json:"nombre"`
	Description   string    `json:"descripcion"`
	Icon          string    `json:"icono"`
	Active        bool      `json:"activo"`
	CreatedAt     time.Time `json:"fecha_creacion"`
	TotalProducts int64     `json:"total_productos"`
	TotalServices int64     `json:"total_servicios"`
}

type productResource struct {
	ID                   int64              `json:"id"`
	CategoryID           int64              `json:"categoria"`
	CategoryName         string             `json:"categoria_nombre"`
	Name                 string             `json:"nombre"`
	Description          string             `json:"descripcion"`
	TechnicalDescription string             `json:"descripcion_tecnica"`
	Price                string             `json:"precio"`
	LicenseType          domain.LicenseType `json:"tipo_licencia"`
	LicenseTypeDisplay   string             `json:"tipo_licencia_display"`
	CurrentVersion       string             `json:"version_actual"`
	DownloadFile         *string            `json:"archivo_descarga"`
	SystemRequirements   string             `json:"requisitos_sistema"`
	MainImage            *string            `json:"imagen_principal"`
	Screenshot1          *string            `json:"captura1"`
	Screenshot2          *string            `json:"captura2"`
	Screenshot3          *string            `json:"captura3"`
	Stock                int                `json:"stock"`
	Active               bool               `json:"activo"`
	Featured             bool               `json:"destacado"`
	CreatedAt            time.Time          `json:"fecha_creacion"`
	UpdatedAt            time.Time          `json:"fecha_actualizacion"`
}

type productListResource struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"nombre"`
	Description        string             `json:"descripcion"`
	Price              string             `json:"precio"`
	MainImage          *string            `json:"imagen_principal"`
	CategoryName       string             `json:"categoria_nombre"`
	Featured           bool               `json:"destacado"`
	LicenseType        domain.LicenseType `json:"tipo_licencia"`
	LicenseTypeDisplay string             `json:"tipo_licencia_display"`
	CurrentVersion     string             `json:"version_actual"`
}

type serviceResource struct {
	ID                 int64              `json:"id"`
	CategoryID         int64              `json:"categoria"`
	CategoryName       string             `json:"categoria_nombre"`
	Name               string             `json:"nombre"`
	Description        string             `json:"descripcion"`
	ServiceType        domain.ServiceType `json:"tipo_servicio"`
	ServiceTypeDisplay string             `json:"tipo_servicio_display"`
	BasePrice          *string            `json:"precio_base"`
	DynamicQuote       bool               `json:"cotizacion_dinamica"`
	EstimatedDays      int                `json:"tiempo_estimado_dias"`
	ClientRequirements string             `json:"requisitos_cliente"`
	MainImage          *string            `json:"imagen_principal"`
	Active             bool               `json:"activo"`
	Featured           bool               `json:"destacado"`
	CreatedAt          time.Time          `json:"fecha_creacion"`
}

type serviceListResource struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"nombre"`
	Description        string  `json:"descripcion"`
	BasePrice          *string `json:"precio_base"`
	DynamicQuote       bool    `json:"cotizacion_dinamica"`
	MainImage          *string `json:"imagen_principal"`
	CategoryName       string  `json:"categoria_nombre"`
	ServiceTypeDisplay string  `json:"tipo_servicio_display"`
	EstimatedDays      int     `json:"tiempo_estimado_dias"`
}

type profileResource struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"telefono"`
	Company   string    `json:"empresa"`
	Address   string    `json:"direccion"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

type userResource struct {
	ID        int64            `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Profile   *profileResource `json:"perfil"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := money(d.Decimal)
	return &s
}

func serializeCategory(cat domain.Category, counts domain.CategoryCounts) categoryResource {
	return categoryResource{
		ID:            cat.ID,
		Name:          cat.Name,
		Description:   cat.Description,
		Icon:          cat.Icon,
		Active:        cat.Active,
		CreatedAt:     cat.CreatedAt,
		TotalProducts: counts.Products,
		TotalServices: counts.Services,
	}
}

func serializeProduct(media string, p domain.Product) productResource {
	return productResource{
		ID:                   p.ID,
		CategoryID:           p.CategoryID,
		CategoryName:         p.Category.Name,
		Name:                 p.Name,
		Description:          p.Description,
		TechnicalDescription: p.TechnicalDescription,
		Price:                money(p.Price),
		LicenseType:          p.LicenseType,
		LicenseTypeDisplay:   p.LicenseType.Label(),
		CurrentVersion:       p.CurrentVersion,
		DownloadFile:         common.MediaURL(media, p.DownloadFile),
		SystemRequirements:   p.SystemRequirements,
		MainImage:            common.MediaURL(media, p.MainImage),
		Screenshot1:          common.MediaURL(media, p.Screenshot1),
		Screenshot2:          common.MediaURL(media, p.Screenshot2),
		Screenshot3:          common.MediaURL(media, p.Screenshot3),
		Stock:                p.Stock,
		Active:               p.Active,
		Featured:             p.Featured,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func serializeProductList(media string, rows []domain.Product) []productListResource {
	items := make([]productListResource, 0, len(rows))
	for _, p := range rows {
		items = append(items, productListResource{
			ID:                 p.ID,
			Name:               p.Name,
			Description:        p.Description,
			Price:              money(p.Price),
			MainImage:          common.MediaURL(media, p.MainImage),
			CategoryName:       p.Category.Name,
			Featured:           p.Featured,
			LicenseType:        p.LicenseType,
			LicenseTypeDisplay: p.LicenseType.Label(),
			CurrentVersion:     p.CurrentVersion,
		})
	}
	return items
}

func serializeService(media string, s domain.Service) serviceResource {
	return serviceResource{
		ID:                 s.ID,
		CategoryID:         s.CategoryID,
		CategoryName:       s.Category.Name,
		Name:               s.Name,
		Description:        s.Description,
		ServiceType:        s.ServiceType,
		ServiceTypeDisplay: s.ServiceType.Label(),
		BasePrice:          nullMoney(s.BasePrice),
		DynamicQuote:       s.DynamicQuote,
		EstimatedDays:      s.EstimatedDays,
		ClientRequirements: s.ClientRequirements,
		MainImage:          common.MediaURL(media, s.MainImage),
		Active:             s.Active,
		Featured:           s.Featured,
		CreatedAt:          s.CreatedAt,
	}
}

func serializeServiceList(media string, rows []domain.Service) []serviceListResource {
	items := make([]serviceListResource, 0, len(rows))
	for _, s := range rows {
		items = append(items, serviceListResource{
			ID:                 s.ID,
			Name:               s.Name,
			Description:        s.Description,
			BasePrice:          nullMoney(s.BasePrice),
			DynamicQuote:       s.DynamicQuote,
			MainImage:          common.MediaURL(media, s.MainImage),
			CategoryName:       s.Category.Name,
			ServiceTypeDisplay: s.ServiceType.Label(),
			EstimatedDays:      s.EstimatedDays,
		})
	}
	return items
}

// serializeProfile reads username and email from p.User when it is loaded
func serializeProfile(media string, p domain.Profile) profileResource {
	res := profileResource{
		ID:        p.ID,
		Phone:     p.Phone,
		Company:   p.Company,
		Address:   p.Address,
		Avatar:    common.MediaURL(media, p.Avatar),
		CreatedAt: p.CreatedAt,
	}
	if p.User != nil {
		res.Username = p.User.Username
		res.Email = p.User.Email
	}
	return res
}

func serializeUser(media string, u domain.User) userResource {
	res := userResource{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if u.Profile != nil {
		p := *u.Profile
		if p.User == nil {
			p.User = &u
		}
		pr := serializeProfile(media, p)
		res.Profile = &pr
	}
	return res
}
