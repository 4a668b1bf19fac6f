package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLicenseTypeLabels(t *testing.T) {
	assert.Len(t, LicenseTypes, 4)
	for _, lt := range LicenseTypes {
		assert.True(t, lt.Valid(), lt)
		assert.NotEqual(t, string(lt), lt.Label(), "missing label for %s", lt)
	}
	assert.Equal(t, "Versión de Prueba", LicenseTrial.Label())

	unknown := LicenseType("lifetime")
	assert.False(t, unknown.Valid())
	assert.Equal(t, "lifetime", unknown.Label())
}

func TestServiceTypeLabels(t *testing.T) {
	assert.Len(t, ServiceTypes, 9)
	for _, st := range ServiceTypes {
		assert.True(t, st.Valid(), st)
		assert.NotEmpty(t, st.Label())
	}
	assert.Equal(t, "Solución de Redes", ServiceNetworking.Label())
	assert.False(t, ServiceType("").Valid())
}

func TestDefaults(t *testing.T) {
	p := NewProduct()
	assert.Equal(t, LicensePerpetual, p.LicenseType)
	assert.Equal(t, "1.0.0", p.CurrentVersion)
	assert.Equal(t, 999, p.Stock)
	assert.True(t, p.Active)
	assert.False(t, p.Featured)

	s := NewService()
	assert.Equal(t, 30, s.EstimatedDays)
	assert.True(t, s.Active)
	assert.False(t, s.BasePrice.Valid)
}
