package fare

import (
	"math"
	"testing"

	"taxitoday/internal/domain"
)

func TestCompute_StandardTenKm(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	got, err := calc.Compute(10.0, domain.VehicleClassStandard)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got.RideFareCents != 2795 {
		t.Errorf("expected ride fare 2795, got %d", got.RideFareCents)
	}
	if got.ServiceFeeCents != 500 {
		t.Errorf("expected service fee 500, got %d", got.ServiceFeeCents)
	}
	if got.SubtotalCents != 3295 {
		t.Errorf("expected subtotal 3295, got %d", got.SubtotalCents)
	}
	if got.VATCents != 297 {
		t.Errorf("expected vat 297, got %d", got.VATCents)
	}
	if got.TotalCents != 3592 {
		t.Errorf("expected total 3592, got %d", got.TotalCents)
	}
	if got.Currency != "eur" {
		t.Errorf("expected currency eur, got %s", got.Currency)
	}
}

func TestCompute_TotalIsExactSum(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	distances := []float64{0, 0.1, 1, 3.3333, 7.77, 10, 25.5, 49.99, 120}
	classes := []domain.VehicleClass{
		domain.VehicleClassStandard,
		domain.VehicleClassComfort,
		domain.VehicleClassVan,
	}

	for _, class := range classes {
		for _, d := range distances {
			got, err := calc.Compute(d, class)
			if err != nil {
				t.Fatalf("Compute(%v, %s): %v", d, class, err)
			}
			if got.TotalCents != got.SubtotalCents+got.VATCents {
				t.Errorf("Compute(%v, %s): total %d != subtotal %d + vat %d",
					d, class, got.TotalCents, got.SubtotalCents, got.VATCents)
			}
			if got.SubtotalCents != got.RideFareCents+got.ServiceFeeCents {
				t.Errorf("Compute(%v, %s): subtotal %d != ride fare %d + service fee %d",
					d, class, got.SubtotalCents, got.RideFareCents, got.ServiceFeeCents)
			}
			if got.TotalCents < got.RideFareCents {
				t.Errorf("Compute(%v, %s): total %d below ride fare %d",
					d, class, got.TotalCents, got.RideFareCents)
			}
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	first, err := calc.Compute(13.37, domain.VehicleClassVan)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for i := 0; i < 100; i++ {
		got, err := calc.Compute(13.37, domain.VehicleClassVan)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got != first {
			t.Fatalf("non-deterministic breakdown: %+v vs %+v", got, first)
		}
	}
}

func TestCompute_ZeroDistance(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	got, err := calc.Compute(0, domain.VehicleClassStandard)
	if err != nil {
		t.Fatalf("expected zero distance to be valid, got: %v", err)
	}
	if got.RideFareCents != domain.Tariffs[domain.VehicleClassStandard].BaseFareCents {
		t.Errorf("expected ride fare to equal base fare, got %d", got.RideFareCents)
	}
}

func TestCompute_InvalidDistance(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	testCases := []struct {
		name     string
		distance float64
	}{
		{name: "negative", distance: -1},
		{name: "nan", distance: math.NaN()},
		{name: "positive infinity", distance: math.Inf(1)},
		{name: "negative infinity", distance: math.Inf(-1)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := calc.Compute(tc.distance, domain.VehicleClassStandard)
			if err != ErrInvalidDistance {
				t.Errorf("expected ErrInvalidDistance, got: %v", err)
			}
		})
	}
}

func TestCompute_UnknownClass(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	_, err := calc.Compute(5, domain.VehicleClass("LIMOUSINE"))
	if err != ErrUnknownVehicleClass {
		t.Errorf("expected ErrUnknownVehicleClass, got: %v", err)
	}
}

func TestParseVehicleClass(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    domain.VehicleClass
		wantErr bool
	}{
		{name: "standard", input: "STANDARD", want: domain.VehicleClassStandard},
		{name: "comfort", input: "COMFORT", want: domain.VehicleClassComfort},
		{name: "van", input: "VAN", want: domain.VehicleClassVan},
		{name: "empty defaults to standard", input: "", want: domain.VehicleClassStandard},
		{name: "unknown", input: "limo", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseVehicleClass(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
