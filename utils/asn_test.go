package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestAsnProviderName(t *testing.T) {
	assert.Equal(t, "Hetzner", AsnProviderName(intPtr(24940)))
	assert.Equal(t, "OVH", AsnProviderName(intPtr(16276)))
	assert.Equal(t, UnknownLabel, AsnProviderName(intPtr(1)))
	assert.Equal(t, UnknownLabel, AsnProviderName(nil))
}

func TestAsnDisplay(t *testing.T) {
	assert.Equal(t, "Hetzner (24940)", AsnDisplay(intPtr(24940)))
	assert.Equal(t, "64512", AsnDisplay(intPtr(64512)))
	assert.Equal(t, UnknownLabel, AsnDisplay(nil))
}

func TestInfraResolverDisabled(t *testing.T) {
	r := NewInfraResolver("", "")
	defer r.Close()

	assert.False(t, r.Enabled())
	assert.Equal(t, InfraLocation{}, r.Lookup("1.2.3.4"))

	var nilResolver *InfraResolver
	assert.False(t, nilResolver.Enabled())
	assert.Equal(t, InfraLocation{}, nilResolver.Lookup("1.2.3.4:8001"))
}

func TestInfraResolverMissingDatabase(t *testing.T) {
	r := NewInfraResolver("/nonexistent/GeoLite2-ASN.mmdb", "/nonexistent/GeoLite2-City.mmdb")
	defer r.Close()
	assert.False(t, r.Enabled())
}
