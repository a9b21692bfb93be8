package directory

import "github.com/BruksfildServices01/barberbook/internal/models"

// DefaultBarbers is written on first run when seeding is enabled.
func DefaultBarbers() []models.Barber {
	return []models.Barber{
		{
			ID: "1", Name: "Studio Navalha", Rating: 4.8, Distance: "0.8 km", Price: "$$",
			Image: "https://images.barberbook.app/barbers/studio-navalha.jpg", Reviews: 124,
			Location: models.Location{Lat: -23.5614, Lng: -46.6559},
		},
		{
			ID: "2", Name: "Barbearia Central", Rating: 4.6, Distance: "1.2 km", Price: "$",
			Image: "https://images.barberbook.app/barbers/central.jpg", Reviews: 89,
			Location: models.Location{Lat: -23.5505, Lng: -46.6333},
		},
		{
			ID: "3", Name: "Corte Fino", Rating: 4.9, Distance: "2.5 km", Price: "$$$",
			Image: "https://images.barberbook.app/barbers/corte-fino.jpg", Reviews: 203,
			Location: models.Location{Lat: -23.5874, Lng: -46.6576},
		},
	}
}

// DefaultServices is written on first run when seeding is enabled.
func DefaultServices() []models.Service {
	return []models.Service{
		{ID: "1", Name: "Haircut", Description: "Classic cut with wash", Price: 40, Duration: 30, Category: "hair", IsActive: true, Version: 1},
		{ID: "2", Name: "Beard trim", Description: "Shape and hot towel", Price: 25, Duration: 20, Category: "beard", IsActive: true, Version: 1},
		{ID: "3", Name: "Haircut and beard", Price: 60, Duration: 50, Category: "combo", IsActive: true, Version: 1},
		{ID: "4", Name: "Eyebrow", Price: 15, Duration: 10, Category: "face", IsActive: true, Version: 1},
	}
}
