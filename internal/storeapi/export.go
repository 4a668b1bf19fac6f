package storeapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/storefront/internal/repository"
	"go.uber.org/zap"
)

type productCSVRow struct {
	ID             int64  `csv:"id"`
	Category       string `csv:"categoria"`
	Name           string `csv:"nombre"`
	Price          string `csv:"precio"`
	LicenseType    string `csv:"tipo_licencia"`
	CurrentVersion string `csv:"version_actual"`
	Stock          int    `csv:"stock"`
	Featured       bool   `csv:"destacado"`
	CreatedAt      string `csv:"fecha_creacion"`
}

// exportProducts streams every active product as CSV
func exportProducts(c echo.Context) error {
	rows, _, err := GetRepos(c).Products.List(c.Request().Context(), repository.ProductQuery{
		Search:   c.QueryParam("search"),
		Ordering: queryOrdering(c),
	})
	if err != nil {
		return failDatabase(c, "Failed to query products", err)
	}
	out := make([]*productCSVRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, &productCSVRow{
			ID:             p.ID,
			Category:       p.Category.Name,
			Name:           p.Name,
			Price:          money(p.Price),
			LicenseType:    string(p.LicenseType),
			CurrentVersion: p.CurrentVersion,
			Stock:          p.Stock,
			Featured:       p.Featured,
			CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		})
	}

	filename := fmt.Sprintf("productos-%s.csv", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	if err := gocsv.Marshal(out, c.Response()); err != nil {
		// headers are gone already, all that is left is to log
		zap.L().Error("export products", zap.Error(err))
	}
	return nil
}
