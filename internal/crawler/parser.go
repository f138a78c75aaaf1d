package crawler

import (
	"fmt"
	"time"

	"baemin_crawler_v1_202601/internal/dto"
	"baemin_crawler_v1_202601/internal/model"
)

// ==================== 订单归一化 ====================
// 纯转换，不做 I/O，不抛错：单条脏数据只影响自己的字段取零值，
// 绝不中断整批订单。

// orderTimeLayouts 上游时间串的已知格式（ISO-8601，带/不带时区）
var orderTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseOrderTime ISO-8601 → Unix 秒，解析失败记 0
func parseOrderTime(s string) int64 {
	if s == "" {
		return 0
	}
	for _, layout := range orderTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// parseItems 解析订单项列表
// 返回：项列表、摘要串（"첫번째 항목 외 N건"）、总数量、商品金额合计
func parseItems(items []dto.RawItem) ([]model.OrderItem, string, int, int64) {
	orderItems := make([]model.OrderItem, 0, len(items))
	preview := ""
	qtySum := 0
	var priceSum int64

	if len(items) > 0 {
		preview = items[0].Name
		if len(items) > 1 {
			preview += fmt.Sprintf(" 외 %d건", len(items)-1)
		}
	}

	for _, item := range items {
		qty := int(item.Quantity.Int())
		total := item.TotalPrice.Int()

		// 单价 = 总价/数量；数量为 0 记 0，避免除零
		var unit float64
		if qty > 0 {
			unit = float64(total) / float64(qty)
		}

		options := make([]model.Option, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, model.Option{
				OptionID:    "",
				OptionName:  opt.Name,
				OptionPrice: opt.Price.Int(),
				OptionQty:   qty,
				OptionCategory: model.OptionCategory{
					OptionCategoryID:   "",
					OptionCategoryName: "",
				},
			})
		}

		orderItems = append(orderItems, model.OrderItem{
			ItemID:    "",
			ItemName:  item.Name,
			ItemPrice: unit,
			ItemQty:   qty,
			Option:    options,
			Coupon:    []model.Coupon{}, // 上游无优惠券数据，恒为空
		})

		qtySum += qty
		priceSum += total
	}

	return orderItems, preview, qtySum, priceSum
}

// ParseOrder 上游原始订单 → 归一化订单
// pid 为门店编号，同时充当 uid（店主维度在上层已经收敛到门店）
func ParseOrder(raw dto.RawOrder, pid string) model.Order {
	items, preview, totalQty, itemsTotal := parseItems(raw.Items)

	deliveryTip := raw.DeliveryTip.Int()
	extraTip := raw.ExtraDeliveryTip.Int()
	discount := raw.DiscountPrice.Int()
	payAmount := raw.PayAmount.Int()

	// 总金额 = 商品合计 + 配送费 + 追加配送费 - 折扣
	totalPrice := itemsTotal + deliveryTip + extraTip - discount

	statusCode := model.MapStatus(raw.Status)

	return model.Order{
		UID:             pid,
		PID:             pid,
		OrderDate:       parseOrderTime(raw.OrderDateTime),
		PosOrderID:      "",
		OrderDeliveryID: raw.OrderNumber,
		Status:          statusCode,
		PgStatus:        statusCode,
		OrderPath:       "direct",
		OrderType:       raw.DeliveryType,
		PayType:         "BAEMIN",

		TotalPrice:    totalPrice,
		PayPrice:      payAmount,
		DeliveryPrice: deliveryTip,

		OrderItemQty: totalQty,
		OrderInfo:    items,
		OrderPreview: preview,
		PayInfo: model.PayInfo{
			UserID:       pid,
			TranNo:       "",
			TranType:     "",
			TotalAmount:  payAmount,
			ResultCode:   "0000",
			ApprovalNum:  "",
			ApprovalDate: "",
		},
	}
}
