// Package fare computes price breakdowns for a route distance and vehicle
// class. All arithmetic is carried out in integer cents; rounding happens at
// exactly two points (the per-km distance component and the VAT line), so
// the emitted breakdown always satisfies Total == Subtotal + VAT.
package fare

import (
	"errors"
	"math"

	"taxitoday/internal/domain"
)

var (
	// ErrInvalidDistance is returned when the distance is negative or not finite.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrUnknownVehicleClass is returned for a vehicle class without a tariff.
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
)

// Default pricing constants. The VAT rate is the reduced Dutch rate for
// passenger transport, expressed in basis points.
const (
	DefaultServiceFeeCents = 500
	DefaultVATRateBps      = 900
	DefaultCurrency        = "eur"
)

// Calculator computes fare breakdowns. The zero value is not usable;
// construct one with NewCalculator.
type Calculator struct {
	ServiceFeeCents int64
	VATRateBps      int64
	Currency        string
}

// NewCalculator returns a Calculator with the default service fee and VAT rate.
func NewCalculator() Calculator {
	return Calculator{
		ServiceFeeCents: DefaultServiceFeeCents,
		VATRateBps:      DefaultVATRateBps,
		Currency:        DefaultCurrency,
	}
}

// Compute derives the fare breakdown for a distance and vehicle class.
// It has no side effects and is safe for concurrent use.
func (c Calculator) Compute(distanceKm float64, class domain.VehicleClass) (domain.FareBreakdown, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return domain.FareBreakdown{}, ErrInvalidDistance
	}

	tariff, ok := domain.Tariffs[class]
	if !ok {
		return domain.FareBreakdown{}, ErrUnknownVehicleClass
	}

	// Rounding point 1: the distance component, half-up to whole cents.
	rideFare := tariff.BaseFareCents + int64(math.Round(distanceKm*float64(tariff.PerKmCents)))
	subtotal := rideFare + c.ServiceFeeCents

	// Rounding point 2: VAT, half-up to whole cents.
	vat := int64(math.Round(float64(subtotal) * float64(c.VATRateBps) / 10000.0))

	return domain.FareBreakdown{
		RideFareCents:   rideFare,
		ServiceFeeCents: c.ServiceFeeCents,
		SubtotalCents:   subtotal,
		VATCents:        vat,
		TotalCents:      subtotal + vat,
		Currency:        c.Currency,
	}, nil
}

// ParseVehicleClass converts a request string into a vehicle class.
func ParseVehicleClass(s string) (domain.VehicleClass, error) {
	switch domain.VehicleClass(s) {
	case domain.VehicleClassStandard, domain.VehicleClassComfort, domain.VehicleClassVan:
		return domain.VehicleClass(s), nil
	case "":
		return domain.VehicleClassStandard, nil // Default to standard
	default:
		return "", ErrUnknownVehicleClass
	}
}
