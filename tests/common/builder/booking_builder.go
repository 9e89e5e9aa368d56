//go:build unit || e2e

package builder

import (
	"time"

	reqdto "salon-scheduler/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Date         string
	Slot         string
	Services     []reqdto.ServiceSelection
	StaffID      *uuid.UUID
	GiftCardCode *string
	Note         *string
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		Date: NextOpenDate(),
		Slot: "10:00",
		Services: []reqdto.ServiceSelection{
			{Slug: "hydro-facial", PackageType: "single"},
		},
	}
}

// NextOpenDate returns the next date the seeded working hours mark as open
// (closed Sunday and Monday).
func NextOpenDate() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() == time.Sunday || d.Weekday() == time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDTO() reqdto.SubmitBookingRequest {
	return reqdto.SubmitBookingRequest{
		Date:         b.Date,
		Slot:         b.Slot,
		Services:     b.Services,
		StaffID:      b.StaffID,
		GiftCardCode: b.GiftCardCode,
		Note:         b.Note,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithDate(date string) *BookingBuilder {
	b.Date = date
	return b
}

func (b *BookingBuilder) WithSlot(slot string) *BookingBuilder {
	b.Slot = slot
	return b
}

func (b *BookingBuilder) WithService(slug, packageType string) *BookingBuilder {
	b.Services = []reqdto.ServiceSelection{{Slug: slug, PackageType: packageType}}
	return b
}

func (b *BookingBuilder) AddService(slug, packageType string) *BookingBuilder {
	b.Services = append(b.Services, reqdto.ServiceSelection{Slug: slug, PackageType: packageType})
	return b
}

func (b *BookingBuilder) WithStaffID(staffID uuid.UUID) *BookingBuilder {
	b.StaffID = &staffID
	return b
}

func (b *BookingBuilder) WithGiftCard(code string) *BookingBuilder {
	b.GiftCardCode = &code
	return b
}

func (b *BookingBuilder) WithNote(note string) *BookingBuilder {
	b.Note = &note
	return b
}

func (b *BookingBuilder) AsForfait() *BookingBuilder {
	for i := range b.Services {
		b.Services[i].PackageType = "forfait"
	}
	return b
}
