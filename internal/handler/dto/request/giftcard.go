package request

type VerifyGiftCardRequest struct {
	Code       string `json:"code" binding:"required"`
	TotalCents int64  `json:"total_cents" binding:"required,min=0"`
}
