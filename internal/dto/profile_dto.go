package dto

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	TradeType   *string `json:"trade_type,omitempty"`
}
