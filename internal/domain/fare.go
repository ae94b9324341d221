package domain

// VehicleClass represents the vehicle category a ride is booked for.
type VehicleClass string

const (
	VehicleClassStandard VehicleClass = "STANDARD"
	VehicleClassComfort  VehicleClass = "COMFORT"
	VehicleClassVan      VehicleClass = "VAN"
)

// Tariff holds the pricing pair for a vehicle class. All amounts are in
// euro cents.
type Tariff struct {
	Name          string
	BaseFareCents int64
	PerKmCents    int64
}

// Tariffs maps each vehicle class to its tariff.
var Tariffs = map[VehicleClass]Tariff{
	VehicleClassStandard: {Name: "Standaard Taxi", BaseFareCents: 295, PerKmCents: 250},
	VehicleClassComfort:  {Name: "Comfort Taxi", BaseFareCents: 450, PerKmCents: 325},
	VehicleClassVan:      {Name: "Van Taxi", BaseFareCents: 595, PerKmCents: 395},
}

// FareBreakdown is the priced quote for a route. All amounts are integer
// minor units (cents); the TotalCents value is the authoritative charge
// amount handed to the payment provider. Display rounding never feeds back
// into these fields.
type FareBreakdown struct {
	RideFareCents   int64
	ServiceFeeCents int64
	SubtotalCents   int64
	VATCents        int64
	TotalCents      int64
	Currency        string
}
