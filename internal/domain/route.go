package domain

// Address is a display string selected by the customer, optionally carrying
// the geocoordinates resolved by the map widget. Two addresses are the same
// address when their display strings match.
type Address struct {
	Display string
	Lat     *float64
	Lng     *float64
}

// Equal reports whether two addresses refer to the same place.
func (a Address) Equal(other Address) bool {
	return a.Display == other.Display
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a.Display == ""
}

// HasCoordinates reports whether both latitude and longitude are present.
func (a Address) HasCoordinates() bool {
	return a.Lat != nil && a.Lng != nil
}

// RoutePoints is the pickup/destination pair a quote is priced for.
// It is fixed once a quote has been requested.
type RoutePoints struct {
	Pickup      Address
	Destination Address
}
