package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name             string
		electrical, hvac float64
		subtotal, rebate float64
		total            float64
	}{
		{"above rebate boundary", 1200, 4500, 6150, 3500, 2650},
		{"exactly at boundary", 1000, 4550, 6000, 2500, 3500},
		{"small job", 800, 2000, 3250, 2500, 750},
		{"missing estimates", 0, 0, 450, 2500, -2050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(tt.electrical, tt.hvac)
			assert.Equal(t, tt.subtotal, got.Subtotal)
			assert.Equal(t, tt.rebate, got.Rebate)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, PermitFee, got.Permit)
		})
	}
}

func TestPriceIsIndependentPerVariant(t *testing.T) {
	ducted := Price(1500, 3800)
	ductless := Price(800, 4000)
	again := Price(1500, 3800)

	assert.Equal(t, ducted, again)
	assert.NotEqual(t, ducted.Total, ductless.Total)
}

func TestVariantsFor(t *testing.T) {
	assert.Equal(t, []Variant{VariantDuctless}, VariantsFor(DuctworkNo))
	assert.Equal(t, []Variant{VariantDucted, VariantDuctless}, VariantsFor(DuctworkYes))
	assert.Equal(t, []Variant{VariantDucted, VariantDuctless}, VariantsFor(DuctworkNotSure))
	assert.Equal(t, []Variant{VariantDucted, VariantDuctless}, VariantsFor(""))
}

func TestZoneCount(t *testing.T) {
	four := 4
	zero := 0
	assert.Equal(t, 5, ZoneCount(nil))
	assert.Equal(t, 5, ZoneCount(&zero))
	assert.Equal(t, 6, ZoneCount(&four))
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		event   WizardEvent
		want    Status
	}{
		{"lookup promotes new", StatusNew, EventPropertyLoaded, StatusPropertyLoaded},
		{"lookup leaves later status", StatusQuoted, EventPropertyLoaded, StatusQuoted},
		{"survey from property loaded", StatusPropertyLoaded, EventSurveyCompleted, StatusSurveyDone},
		{"survey from new", StatusNew, EventSurveyCompleted, StatusSurveyDone},
		{"quoted from survey", StatusSurveyDone, EventQuoted, StatusQuoted},
		{"photos after quote", StatusQuoted, EventPhotosSubmitted, StatusPhotosSubmitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStatus(tt.current, tt.event))
		})
	}
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, StatusLost.AdminOnly())
	assert.False(t, StatusQuoted.AdminOnly())
	assert.True(t, StatusFollowedUp.Valid())
	assert.False(t, Status("archived").Valid())
}
