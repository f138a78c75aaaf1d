package dto

// ==================== API 请求 ====================

// LoginRequest POST /baemin/login 请求体
type LoginRequest struct {
	ID string `json:"id" binding:"required"`
	PW string `json:"pw" binding:"required"`
}

// OrdersRequest POST /baemin/orders 请求体
// Start / End 为上游要求的日期串（yyyy-MM-dd），原样透传
type OrdersRequest struct {
	ID    string `json:"id" binding:"required"`
	PW    string `json:"pw" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}
