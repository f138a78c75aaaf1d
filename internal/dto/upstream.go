package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ==================== 防御性标量 ====================
// 上游接口没有契约保障，数值字段偶尔会以字符串或 null 出现。
// 解析失败一律记 0 / 空串，绝不让单条脏数据拖垮整页。

// Number 宽容数值：接受数字、带引号数字、null
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Int 取整
func (n Number) Int() int64 { return int64(n) }

// Float 取浮点
func (n Number) Float() float64 { return float64(n) }

// ID 宽容标识符：接受字符串或数字字面量
type ID string

func (v *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*v = ""
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*v = ""
			return nil
		}
		*v = ID(str)
		return nil
	}
	// 数字字面量按原样取字面值
	*v = ID(s)
	return nil
}

func (v ID) String() string { return string(v) }

// ==================== 登录接口 ====================

// LoginInitResponse GET /v1/login/init 响应
// tag 即本次会话的 RSA 模数（十六进制）
type LoginInitResponse struct {
	Data struct {
		Tag           string `json:"tag"`
		NeedRecaptcha bool   `json:"needRecaptcha"`
	} `json:"data"`
}

// LoginPayload POST /v1/login 请求体
// 真实密码只进 Value2 密文；PW 字段放同构伪装串
type LoginPayload struct {
	ID        string `json:"id"`
	PW        string `json:"pw"`
	Value1    string `json:"value1"`
	Value2    string `json:"value2"`
	Token     string `json:"token"`
	AutoLogin bool   `json:"autoLogin"`
}

// LoginResponse POST /v1/login 响应
type LoginResponse struct {
	Status string `json:"status"`
}

// LoginStatusSuccess 登录成功的状态标记
const LoginStatusSuccess = "SUCCESS"

// ==================== 账号 / 门店接口 ====================

// ProfileResponse GET /v1/session/profile 响应
type ProfileResponse struct {
	ShopOwnerNumber ID `json:"shopOwnerNumber"`
}

// ShopEntry 门店条目，只取编号
type ShopEntry struct {
	ShopNo ID `json:"shopNo"`
}

// ShopListResponse 门店列表响应
type ShopListResponse struct {
	Content []ShopEntry `json:"content"`
}

// ==================== 订单接口 ====================

// OrderPageResponse GET /v4/orders 单页响应
type OrderPageResponse struct {
	TotalSize int          `json:"totalSize"`
	Contents  []OrderEntry `json:"contents"`
}

// OrderEntry 列表条目，订单本体挂在 order 字段下
type OrderEntry struct {
	Order RawOrder `json:"order"`
}

// RawOrder 上游原始订单
type RawOrder struct {
	OrderNumber      string    `json:"orderNumber"`
	Status           string    `json:"status"`
	OrderDateTime    string    `json:"orderDateTime"`
	DeliveryType     string    `json:"deliveryType"`
	DeliveryTip      Number    `json:"deliveryTip"`
	ExtraDeliveryTip Number    `json:"extraDeliveryTip"`
	DiscountPrice    Number    `json:"discountPrice"`
	PayAmount        Number    `json:"payAmount"`
	Items            []RawItem `json:"items"`
}

// RawItem 原始订单项
type RawItem struct {
	Name       string      `json:"name"`
	Quantity   Number      `json:"quantity"`
	TotalPrice Number      `json:"totalPrice"`
	Options    []RawOption `json:"options"`
}

// RawOption 原始选项
type RawOption struct {
	Name  string `json:"name"`
	Price Number `json:"price"`
}
