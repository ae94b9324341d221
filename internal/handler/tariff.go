package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"taxitoday/internal/domain"
)

// TariffHandler serves the tariff table shown on the marketing site.
type TariffHandler struct{}

// NewTariffHandler creates a new TariffHandler.
func NewTariffHandler() *TariffHandler {
	return &TariffHandler{}
}

// TariffResponse is one vehicle class entry in the tariff table.
type TariffResponse struct {
	VehicleClass  string `json:"vehicle_class"`
	Name          string `json:"name"`
	BaseFareCents int64  `json:"base_fare_cents"`
	PerKmCents    int64  `json:"per_km_cents"`
}

// GetTariffs handles GET /v1/tariffs
func (h *TariffHandler) GetTariffs(c *gin.Context) {
	tariffs := make([]TariffResponse, 0, len(domain.Tariffs))
	for class, tariff := range domain.Tariffs {
		tariffs = append(tariffs, TariffResponse{
			VehicleClass:  string(class),
			Name:          tariff.Name,
			BaseFareCents: tariff.BaseFareCents,
			PerKmCents:    tariff.PerKmCents,
		})
	}

	sort.Slice(tariffs, func(i, j int) bool {
		return tariffs[i].BaseFareCents < tariffs[j].BaseFareCents
	})

	respondJSON(c, http.StatusOK, gin.H{"tariffs": tariffs})
}
