package wire

import (
	"dormitory-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", bookingHandler.SeatStudent)                  // POST /api/bookings
		r.Get("/{id}", bookingHandler.GetBooking)                // GET /api/bookings/{id}
		r.Get("/{id}/payments", bookingHandler.ListPayments)     // GET /api/bookings/{id}/payments
		r.Post("/{id}/close", bookingHandler.CloseBooking)       // POST /api/bookings/{id}/close
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)     // POST /api/bookings/{id}/cancel
		r.Post("/{id}/transfer", bookingHandler.TransferStudent) // POST /api/bookings/{id}/transfer
	})
}
