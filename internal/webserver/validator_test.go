package webserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) Valid() bool { return c == "red" || c == "blue" }

type samplePayload struct {
	Name     string  `json:"nombre" validate:"required,max=5"`
	Username string  `json:"username" validate:"omitempty,username"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Color    color   `json:"color" validate:"required,choice"`
	Shade    *color  `json:"shade" validate:"omitempty,choice"`
	Days     *int    `json:"dias" validate:"omitempty,gte=1"`
	Note     *string `json:"nota" validate:"omitempty,max=3"`
}

func TestValidatorFieldErrors(t *testing.T) {
	v := NewValidator()
	shade := color("green")
	days := 0
	note := "long"

	err := v.Validate(&samplePayload{
		Name:     "too long name",
		Username: "bad name!",
		Email:    "nope",
		Color:    "pink",
		Shade:    &shade,
		Days:     &days,
		Note:     &note,
	})
	require.Error(t, err)

	fe, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, fe["nombre"])
	assert.Contains(t, fe, "username")
	assert.Equal(t, []string{"Enter a valid email address."}, fe["email"])
	assert.Equal(t, []string{`"pink" is not a valid choice.`}, fe["color"])
	assert.Contains(t, fe, "shade")
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, fe["dias"])
	assert.Contains(t, fe, "nota")
}

func TestValidatorAccepts(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&samplePayload{Name: "ok", Username: "ana.m+1@x", Color: "red"}))

	err := v.Validate(&samplePayload{})
	fe, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, fe["nombre"])
	assert.Equal(t, []string{"This field is required."}, fe["color"])
}
