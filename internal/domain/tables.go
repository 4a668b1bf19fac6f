package domain

// Tables lists every model managed by AutoMigrate, parents first
var Tables = []interface{}{
	// Identity
	&User{},
	&Profile{},
	// Catalog
	&Category{},
	&Product{},
	&Service{},
}
