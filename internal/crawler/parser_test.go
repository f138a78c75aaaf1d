package crawler

import (
	"encoding/json"
	"testing"
	"time"

	"baemin_crawler_v1_202601/internal/dto"
	"baemin_crawler_v1_202601/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRawOrder 两个订单项：아메리카노 x2 / 라떼 x1
func sampleRawOrder() dto.RawOrder {
	raw := `{
		"orderNumber": "B2X0001",
		"status": "CLOSED",
		"orderDateTime": "2026-01-02T12:30:00",
		"deliveryType": "DELIVERY",
		"deliveryTip": 3000,
		"extraDeliveryTip": 500,
		"discountPrice": 1000,
		"payAmount": 17500,
		"items": [
			{"name": "아메리카노", "quantity": 2, "totalPrice": 10000,
			 "options": [{"name": "샷 추가", "price": 500}]},
			{"name": "라떼", "quantity": 1, "totalPrice": 5000, "options": []}
		]
	}`
	var order dto.RawOrder
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		panic(err)
	}
	return order
}

func TestParseOrder_Normalization(t *testing.T) {
	order := ParseOrder(sampleRawOrder(), "13579246")

	// 门店编号同时充当 uid / pid
	assert.Equal(t, "13579246", order.UID)
	assert.Equal(t, "13579246", order.PID)
	assert.Equal(t, "B2X0001", order.OrderDeliveryID)

	// 状态映射：两个状态字段同源
	assert.Equal(t, model.StatusClosed, order.Status)
	assert.Equal(t, model.StatusClosed, order.PgStatus)

	// 总金额 = 商品合计 + 配送费 + 追加配送费 - 折扣
	assert.Equal(t, int64(10000+5000+3000+500-1000), order.TotalPrice)
	assert.Equal(t, int64(17500), order.PayPrice)
	assert.Equal(t, int64(3000), order.DeliveryPrice)

	// 摘要串与数量
	assert.Equal(t, "아메리카노 외 1건", order.OrderPreview)
	assert.Equal(t, 3, order.OrderItemQty)

	// 固定字段
	assert.Equal(t, "direct", order.OrderPath)
	assert.Equal(t, "DELIVERY", order.OrderType)
	assert.Equal(t, "BAEMIN", order.PayType)

	// 支付子记录
	assert.Equal(t, "13579246", order.PayInfo.UserID)
	assert.Equal(t, "0000", order.PayInfo.ResultCode)
	assert.Equal(t, int64(17500), order.PayInfo.TotalAmount)
}

func TestParseOrder_Items(t *testing.T) {
	order := ParseOrder(sampleRawOrder(), "1")
	require.Len(t, order.OrderInfo, 2)

	first := order.OrderInfo[0]
	assert.Equal(t, "아메리카노", first.ItemName)
	assert.Equal(t, 2, first.ItemQty)
	assert.InDelta(t, 5000.0, first.ItemPrice, 0.001) // 单价 = 10000/2
	require.Len(t, first.Option, 1)
	assert.Equal(t, "샷 추가", first.Option[0].OptionName)
	assert.Equal(t, int64(500), first.Option[0].OptionPrice)
	assert.Equal(t, 2, first.Option[0].OptionQty)

	second := order.OrderInfo[1]
	assert.InDelta(t, 5000.0, second.ItemPrice, 0.001)

	// 无优惠券映射，恒为空列表而不是 null
	assert.NotNil(t, first.Coupon)
	assert.Empty(t, first.Coupon)
}

func TestParseOrder_OrderDate(t *testing.T) {
	order := ParseOrder(sampleRawOrder(), "1")

	want := time.Date(2026, 1, 2, 12, 30, 0, 0, time.Local).Unix()
	assert.Equal(t, want, order.OrderDate)
}

func TestParseOrder_BadTimeAndUnknownStatus(t *testing.T) {
	raw := sampleRawOrder()
	raw.OrderDateTime = "언제인지 모름"
	raw.Status = "SOMETHING_NEW"

	order := ParseOrder(raw, "1")
	assert.Equal(t, int64(0), order.OrderDate)
	assert.Equal(t, model.StatusUnknown, order.Status)
}

func TestParseOrder_ZeroQuantityAvoidsDivideByZero(t *testing.T) {
	raw := sampleRawOrder()
	raw.Items = []dto.RawItem{{Name: "무료 증정"}}

	order := ParseOrder(raw, "1")
	require.Len(t, order.OrderInfo, 1)
	assert.Zero(t, order.OrderInfo[0].ItemPrice)
	assert.Zero(t, order.OrderInfo[0].ItemQty)
}

func TestParseOrder_SingleItemPreview(t *testing.T) {
	raw := sampleRawOrder()
	raw.Items = raw.Items[:1]

	order := ParseOrder(raw, "1")
	// 单项订单摘要不带 "외 N건" 后缀
	assert.Equal(t, "아메리카노", order.OrderPreview)
}

func TestParseOrder_NoItems(t *testing.T) {
	raw := sampleRawOrder()
	raw.Items = nil

	order := ParseOrder(raw, "1")
	assert.Empty(t, order.OrderPreview)
	assert.Zero(t, order.OrderItemQty)
	// 只剩费用项
	assert.Equal(t, int64(3000+500-1000), order.TotalPrice)
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"ORDERED", model.StatusOrdered},
		{"ACCEPTED", model.StatusAccepted},
		{"PICKED_UP", model.StatusPickedUp},
		{"DELIVERING", model.StatusDelivering},
		{"CLOSED", model.StatusClosed},
		{"CANCELLED", model.StatusCancelled},
		{"closed", model.StatusClosed}, // 大小写不敏感
		{"REFUNDED", model.StatusUnknown},
		{"", model.StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, model.MapStatus(tt.in), "status=%q", tt.in)
	}
}
