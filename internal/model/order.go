package model

import "strings"

// ==================== 内部订单状态码 ====================

// 内部状态枚举（闭集）。上游可能引入新的临时状态，
// 无法识别的一律归 0，不报错。
const (
	StatusUnknown    = 0
	StatusOrdered    = 1
	StatusAccepted   = 2
	StatusPickedUp   = 3
	StatusDelivering = 4
	StatusClosed     = 5
	StatusCancelled  = 9
)

// statusMapping 上游状态串 -> 内部状态码
var statusMapping = map[string]int{
	"ORDERED":    StatusOrdered,
	"ACCEPTED":   StatusAccepted,
	"PICKED_UP":  StatusPickedUp,
	"DELIVERING": StatusDelivering,
	"CLOSED":     StatusClosed,
	"CANCELLED":  StatusCancelled,
}

// MapStatus 映射上游状态串（大小写不敏感）；未知串返回 StatusUnknown
func MapStatus(s string) int {
	if code, ok := statusMapping[strings.ToUpper(s)]; ok {
		return code
	}
	return StatusUnknown
}

// ==================== 归一化订单模型 ====================

// OptionCategory 选项分类（上游无此数据，占位保持 schema 稳定）
type OptionCategory struct {
	OptionCategoryID   string `json:"option_category_id"`
	OptionCategoryName string `json:"option_category_name"`
}

// Option 订单项选项
type Option struct {
	OptionID       string         `json:"option_id"`
	OptionName     string         `json:"option_name"`
	OptionPrice    int64          `json:"option_price"`
	OptionQty      int            `json:"option_qty"`
	OptionCategory OptionCategory `json:"option_category"`
}

// Coupon 优惠券（上游未提供映射，恒为空列表）
type Coupon struct {
	CouponID       string `json:"coupon_id"`
	CouponName     string `json:"coupon_name"`
	DiscountAmount int64  `json:"discount_amount"`
}

// OrderItem 订单项
// ItemPrice 为单价 = totalPrice / quantity，数量为 0 时记 0
type OrderItem struct {
	ItemID    string   `json:"item_id"`
	ItemName  string   `json:"item_name"`
	ItemPrice float64  `json:"item_price"`
	ItemQty   int      `json:"item_qty"`
	Option    []Option `json:"option"`
	Coupon    []Coupon `json:"coupon"`
}

// PayInfo 支付信息子记录
type PayInfo struct {
	UserID       string `json:"user_id"`
	TranNo       string `json:"tran_no"`
	TranType     string `json:"tran_type"`
	TotalAmount  int64  `json:"total_amount"`
	ResultCode   string `json:"result_code"`
	ApprovalNum  string `json:"approval_num"`
	ApprovalDate string `json:"approval_date"`
}

// Order 归一化订单（对外稳定 schema，生成后不可变）
type Order struct {
	UID             string `json:"uid"`               // 店主标识
	PID             string `json:"pid"`               // 门店标识
	OrderDate       int64  `json:"order_date"`        // Unix 秒，解析失败记 0
	PosOrderID      string `json:"pos_order_id"`
	OrderDeliveryID string `json:"order_delivery_id"` // 上游订单号
	Status          int    `json:"status"`
	PgStatus        int    `json:"pg_status"`
	OrderPath       string `json:"order_path"`
	OrderType       string `json:"order_type"`
	PayType         string `json:"pay_type"`

	TotalPrice    int64 `json:"total_price"`    // 含配送费
	PayPrice      int64 `json:"pay_price"`      // 实付金额
	DeliveryPrice int64 `json:"delivery_price"` // 配送费

	OrderItemQty int         `json:"order_item_qty"`
	OrderInfo    []OrderItem `json:"order_info"`
	OrderPreview string      `json:"order_item"` // “아메리카노 외 2건” 摘要串
	PayInfo      PayInfo     `json:"pay_info"`
}
