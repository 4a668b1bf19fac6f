package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Schema maps the API field names of one entity onto its table columns.
// Only columns listed here can be searched or ordered on.
type Schema struct {
	Table         string
	SearchColumns []string
	OrderColumns  map[string]string
	DefaultOrder  []clause.OrderByColumn
}

var categorySchema = Schema{
	Table:         "categories",
	SearchColumns: []string{"name", "description"},
	OrderColumns: map[string]string{
		"nombre":         "name",
		"fecha_creacion": "created_at",
	},
	DefaultOrder: []clause.OrderByColumn{
		{Column: clause.Column{Table: "categories", Name: "name"}},
	},
}

var productSchema = Schema{
	Table:         "products",
	SearchColumns: []string{"name", "description"},
	OrderColumns: map[string]string{
		"precio":         "price",
		"fecha_creacion": "created_at",
		"nombre":         "name",
	},
	DefaultOrder: []clause.OrderByColumn{
		{Column: clause.Column{Table: "products", Name: "featured"}, Desc: true},
		{Column: clause.Column{Table: "products", Name: "created_at"}, Desc: true},
	},
}

var serviceSchema = Schema{
	Table:         "services",
	SearchColumns: []string{"name", "description"},
	OrderColumns: map[string]string{
		"precio_base":          "base_price",
		"fecha_creacion":       "created_at",
		"tiempo_estimado_dias": "estimated_days",
	},
	DefaultOrder: []clause.OrderByColumn{
		{Column: clause.Column{Table: "services", Name: "featured"}, Desc: true},
		{Column: clause.Column{Table: "services", Name: "created_at"}, Desc: true},
	},
}

// OrderBy converts API ordering tokens ("precio", "-fecha_creacion") into
// ORDER BY columns. Unknown tokens are dropped; when nothing survives the
// default order is returned.
func (s Schema) OrderBy(tokens []string) []clause.OrderByColumn {
	var cols []clause.OrderByColumn
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		desc := strings.HasPrefix(tok, "-")
		col, ok := s.OrderColumns[strings.TrimPrefix(tok, "-")]
		if !ok {
			continue
		}
		cols = append(cols, clause.OrderByColumn{
			Column: clause.Column{Table: s.Table, Name: col},
			Desc:   desc,
		})
	}
	if len(cols) == 0 {
		return s.DefaultOrder
	}
	// keep results stable across pages
	return append(cols, clause.OrderByColumn{Column: clause.Column{Table: s.Table, Name: "id"}, Desc: true})
}

func (s Schema) applyOrder(db *gorm.DB, tokens []string) *gorm.DB {
	return db.Order(clause.OrderBy{Columns: s.OrderBy(tokens)})
}

// applySearch adds a case-insensitive substring match over SearchColumns
func (s Schema) applySearch(db *gorm.DB, q string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" || len(s.SearchColumns) == 0 {
		return db
	}
	var conds []string
	var args []interface{}
	if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
		for _, col := range s.SearchColumns {
			conds = append(conds, s.Table+"."+col+" ILIKE ?")
			args = append(args, "%"+q+"%")
		}
	} else {
		for _, col := range s.SearchColumns {
			conds = append(conds, "LOWER("+s.Table+"."+col+") LIKE ?")
			args = append(args, "%"+strings.ToLower(q)+"%")
		}
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// Page describes an offset window; a zero Limit means no limit
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	return db
}
