package types

import "fmt"

// Domain identifies an infrastructure sector covered by the simulation engine.
type Domain string

const (
	DomainEnergy      Domain = "energy"
	DomainWater       Domain = "water"
	DomainAgriculture Domain = "agriculture"
)

// AllDomains lists every supported domain in canonical order.
var AllDomains = []Domain{DomainEnergy, DomainWater, DomainAgriculture}

// ParseDomain converts a path/query string into a Domain.
func ParseDomain(s string) (Domain, error) {
	switch Domain(s) {
	case DomainEnergy, DomainWater, DomainAgriculture:
		return Domain(s), nil
	default:
		return "", fmt.Errorf("unknown domain %q", s)
	}
}

// Valid reports whether the domain is one of the supported sectors.
func (d Domain) Valid() bool {
	switch d {
	case DomainEnergy, DomainWater, DomainAgriculture:
		return true
	}
	return false
}

// Event types published on the analysis queue.
// Dot-namespaced, consumed by the external narrative-generation service.
const (
	EventAnalysisReady = "analysis.ready"
)
