package dto

import "github.com/BruksfildServices01/barberbook/internal/models"

type BookingListDTO struct {
	ID          string  `json:"id"`
	BarberName  string  `json:"barberName"`
	BarberImage string  `json:"barberImage,omitempty"`
	ClientName  string  `json:"clientName,omitempty"`
	Service     string  `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

func BookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingListDTO{
			ID:          b.ID,
			BarberName:  b.BarberName,
			BarberImage: b.BarberImage,
			ClientName:  b.ClientName,
			Service:     b.Service,
			Date:        b.Date,
			Time:        b.Time,
			Price:       b.Price,
			Status:      b.Status,
		})
	}
	return out
}
