package bookings

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"pablospizza/db"
	"pablospizza/globals"
	"pablospizza/models"
	"pablospizza/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func signPayload(data string) string {
	mac := hmac.New(sha256.New, globals.JwtSecret)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// ConfirmationPDF handles GET /api/bookings/:id/confirmation, a printable
// sheet with the event details and a signed QR payload for on-site check-in.
// Only confirmed or completed bookings have one.
func ConfirmationPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}
	if booking.Status != models.BookingConfirmed && booking.Status != models.BookingCompleted {
		utils.RespondWithError(w, http.StatusConflict, "booking is not confirmed")
		return
	}

	payload := fmt.Sprintf("%s|%s|%s", booking.ID, booking.EventDate, booking.EventTime)
	qrPayload := fmt.Sprintf("%s|%s", payload, signPayload(payload))

	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Pablo's Pizza - Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Client: %s", booking.ClientName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Service: %s (%s)", booking.ServiceType, booking.EventType))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s  Time: %s", booking.EventDate, booking.EventTime))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Participants: %d", booking.Participants))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", booking.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Estimated price: $%.2f", booking.EstimatedPrice))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%s.pdf", booking.ID))
	w.Write(buf.Bytes())
}
