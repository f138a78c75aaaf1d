package crawler

import (
	"context"
	"fmt"
	"net/http"

	"baemin_crawler_v1_202601/internal/dto"
	"baemin_crawler_v1_202601/internal/session"

	"go.uber.org/zap"
)

// ==================== 账号 / 门店发现 ====================

// selfHeaders 自助服务接口的公共请求头
func selfHeaders() map[string]string {
	return map[string]string{
		"Accept":          "application/json, text/plain, */*",
		"service-channel": "SELF_SERVICE_PC",
		"Referer":         "https://self.baemin.com/",
	}
}

// FetchOwnerNumber 查询店主账号番号 (shopOwnerNumber)
func (c *Crawler) FetchOwnerNumber(ctx context.Context, cookies map[string]string) (string, error) {
	var out dto.ProfileResponse
	res := c.sess.Get(ctx, c.APIBaseURL+"/v1/session/profile", session.ReqOptions{
		Headers: selfHeaders(),
		Cookies: cookies,
		Out:     &out,
	})

	if res.Blocked {
		return "", errAccessBlocked("账号番号查询命中反爬拦截页")
	}
	if res.Status != http.StatusOK {
		return "", errUpstream(fmt.Sprintf("账号番号查询失败: HTTP %d", res.Status), res.Err)
	}

	ownerNo := out.ShopOwnerNumber.String()
	if ownerNo == "" {
		return "", errUpstream("shopOwnerNumber 缺失", res.Err)
	}

	c.log.Info("账号番号已解析", zap.String("owner_no", ownerNo))
	return ownerNo, nil
}

// FetchShops 查询店主名下门店列表（单页覆盖常见商户规模）
func (c *Crawler) FetchShops(ctx context.Context, cookies map[string]string, ownerNo string) ([]dto.ShopEntry, error) {
	var out dto.ShopListResponse
	res := c.sess.Get(ctx,
		c.APIBaseURL+"/v4/store/shops/temporary-stop-status/by-shop-owner-number",
		session.ReqOptions{
			Headers: selfHeaders(),
			Cookies: cookies,
			Params: map[string]string{
				"shopOwnerNo":  ownerNo,
				"lastOffsetId": "",
				"pageSize":     "100",
				"desc":         "true",
			},
			Out: &out,
		})

	if res.Blocked {
		return nil, errAccessBlocked("门店列表查询命中反爬拦截页")
	}
	if res.Status != http.StatusOK {
		return nil, errUpstream(fmt.Sprintf("门店列表查询失败: HTTP %d", res.Status), res.Err)
	}

	c.log.Info("门店列表已获取",
		zap.String("owner_no", ownerNo), zap.Int("shop_count", len(out.Content)))
	return out.Content, nil
}
