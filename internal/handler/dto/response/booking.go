package response

import (
	"log/slog"
	"time"

	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	ClientID        uuid.UUID  `json:"client_id"`
	ClientEmail     string     `json:"client_email"`
	StaffID         *uuid.UUID `json:"staff_id,omitempty"`
	Date            string     `json:"date"`
	Slot            string     `json:"slot"`
	DurationMinutes int        `json:"duration_minutes"`
	ServiceSlugs    []string   `json:"service_slugs"`
	PackageTypes    []string   `json:"package_types"`
	Status          string     `json:"status"`
	TotalPriceCents int64      `json:"total_price_cents"`
	GiftCardApplied int64      `json:"gift_card_applied_cents"`
	Note            *string    `json:"note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type BookingListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	Slot            string    `json:"slot"`
	DurationMinutes int       `json:"duration_minutes"`
	ServiceSlugs    []string  `json:"service_slugs"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"next_cursor,omitempty"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	if err := copier.Copy(&resp, view); err != nil {
		slog.Error("failed to map booking view", "error", err)
	}
	return &resp
}

func FromBookingListItems(items []*queries.BookingListItem, nextCursor *string) *BookingListResponse {
	resp := &BookingListResponse{
		Items:      make([]*BookingListItemResponse, len(items)),
		NextCursor: nextCursor,
	}
	for i, item := range items {
		var mapped BookingListItemResponse
		if err := copier.Copy(&mapped, item); err != nil {
			slog.Error("failed to map booking list item", "error", err)
		}
		resp.Items[i] = &mapped
	}
	return resp
}
