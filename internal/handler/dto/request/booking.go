package request

import (
	"strings"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

// ServiceSelection pairs one catalog slug with its package type.
type ServiceSelection struct {
	Slug        string `json:"slug" binding:"required"`
	PackageType string `json:"package_type" binding:"required,oneof=single forfait"`
}

type SubmitBookingRequest struct {
	Date         string             `json:"date" binding:"required"` // YYYY-MM-DD
	Slot         string             `json:"slot" binding:"required"` // HH:MM
	Services     []ServiceSelection `json:"services" binding:"required,min=1,dive"`
	StaffID      *uuid.UUID         `json:"staff_id,omitempty"`
	GiftCardCode *string            `json:"gift_card_code,omitempty"`
	Note         *string            `json:"note,omitempty"`
}

func (r SubmitBookingRequest) ParseDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

func (r SubmitBookingRequest) ParseSlot() (int, error) {
	return schedule.ParseSlotLabel(r.Slot)
}

func (r SubmitBookingRequest) Selections() ([]catalog.Selection, error) {
	selections := make([]catalog.Selection, 0, len(r.Services))
	for _, s := range r.Services {
		pkg, err := catalog.NewPackageType(s.PackageType)
		if err != nil {
			return nil, err
		}
		selections = append(selections, catalog.Selection{
			Slug:        strings.ToLower(strings.TrimSpace(s.Slug)),
			PackageType: pkg,
		})
	}
	return selections, nil
}

func (r SubmitBookingRequest) GetGiftCardCode() *string {
	if r.GiftCardCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.GiftCardCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r SubmitBookingRequest) GetNote() string {
	if r.Note == nil {
		return ""
	}
	return strings.TrimSpace(*r.Note)
}
