package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"baemin_crawler_v1_202601/internal/dto"
	"baemin_crawler_v1_202601/internal/model"
	"baemin_crawler_v1_202601/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ==================== 订单抓取流水线 ====================

// orderHeaders 订单接口请求头（UA 每次随机）
func orderHeaders(ua string) map[string]string {
	return map[string]string{
		"accept":          "application/json, text/plain, */*",
		"origin":          "https://self.baemin.com",
		"service-channel": "SELF_SERVICE_PC",
		"User-Agent":      ua,
	}
}

// orderParams 订单列表查询参数
func orderParams(ownerNo, shopNo, start, end, status string, offset int) map[string]string {
	return map[string]string{
		"offset":          strconv.Itoa(offset),
		"limit":           strconv.Itoa(pageLimit),
		"purchaseType":    "",
		"startDate":       start,
		"endDate":         end,
		"shopOwnerNumber": ownerNo,
		"shopNumbers":     shopNo,
		"orderStatus":     status,
	}
}

// FetchStoreOrders 抓取单门店单状态的全部订单（分页自动展开）
// 先用 offset=0 探测 totalSize；0 条直接返回空（不是错误）。
// 随后按偏移并发拉取所有分页，任一分页失败则整个 门店×状态 失败，
// 错误里带上出错的 offset —— 不静默返回半截结果。
func (c *Crawler) FetchStoreOrders(ctx context.Context, cookies map[string]string,
	ownerNo, shopNo, start, end, status string) ([]dto.OrderEntry, error) {

	headers := orderHeaders(c.sess.RandomUA())
	orderURL := c.APIBaseURL + "/v4/orders"

	// 1. 探测页：拿 totalSize
	var first dto.OrderPageResponse
	res := c.sess.Get(ctx, orderURL, session.ReqOptions{
		Headers: headers,
		Cookies: cookies,
		Params:  orderParams(ownerNo, shopNo, start, end, status, 0),
		Out:     &first,
	})

	if res.Blocked {
		return nil, errAccessBlocked(
			fmt.Sprintf("订单查询命中反爬拦截页: shop=%s, status=%s", shopNo, status))
	}
	if res.Status != http.StatusOK {
		return nil, errUpstream(
			fmt.Sprintf("订单查询失败: shop=%s, status=%s, HTTP %d", shopNo, status, res.Status),
			res.Err)
	}

	total := first.TotalSize
	if total <= 0 {
		return nil, nil
	}
	totalPages := (total + pageLimit - 1) / pageLimit

	c.log.Info("订单分页展开",
		zap.String("shop_no", shopNo), zap.String("order_status", status),
		zap.Int("total_size", total), zap.Int("total_pages", totalPages))

	// 2. 并发拉取所有分页；按页槽位回填，最终顺序跟随偏移顺序
	pages := make([][]dto.OrderEntry, totalPages)
	g, gctx := errgroup.WithContext(ctx)
	for page := 0; page < totalPages; page++ {
		offset := page * pageLimit
		slot := page
		g.Go(func() error {
			entries, err := c.fetchOrderPage(gctx, headers, cookies, ownerNo, shopNo, start, end, status, offset)
			if err != nil {
				return err
			}
			pages[slot] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. 顺序合并
	merged := make([]dto.OrderEntry, 0, total)
	for _, entries := range pages {
		merged = append(merged, entries...)
	}
	return merged, nil
}

// fetchOrderPage 拉取单个分页
func (c *Crawler) fetchOrderPage(ctx context.Context, headers, cookies map[string]string,
	ownerNo, shopNo, start, end, status string, offset int) ([]dto.OrderEntry, error) {

	var out dto.OrderPageResponse
	res := c.sess.Get(ctx, c.APIBaseURL+"/v4/orders", session.ReqOptions{
		Headers: headers,
		Cookies: cookies,
		Params:  orderParams(ownerNo, shopNo, start, end, status, offset),
		Out:     &out,
	})

	if res.Blocked {
		return nil, errAccessBlocked(fmt.Sprintf("订单分页命中反爬拦截页: offset=%d", offset))
	}
	if res.Status != http.StatusOK {
		return nil, errUpstream(
			fmt.Sprintf("订单分页查询失败: offset=%d, HTTP %d", offset, res.Status), res.Err)
	}
	return out.Contents, nil
}

// FetchAllOrders 聚合抓取入口：登录（或复用缓存）→ 发现门店 → 逐门店逐状态抓取
// 门店 × 状态 两层循环严格串行，只有分页层并发 —— 这是刻意压低的扇出上限，
// 保证并发闸门对上游限频始终有意义。任一组合失败即放弃整个聚合请求。
func (c *Crawler) FetchAllOrders(ctx context.Context, id, pw, start, end string) ([]model.Order, error) {
	// 1. 会话：缓存命中直接用，否则现场登录
	cookies, ok, err := c.cookies.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("读取 Cookie 缓存失败: %w", err)
	}
	if !ok {
		cookies, err = c.Login(ctx, id, pw)
		if err != nil {
			return nil, err
		}
	}

	// 2. 发现账号与门店
	ownerNo, err := c.FetchOwnerNumber(ctx, cookies)
	if err != nil {
		return nil, err
	}
	shops, err := c.FetchShops(ctx, cookies, ownerNo)
	if err != nil {
		return nil, err
	}

	// 3. 门店 × 状态 串行抓取并按遍历顺序拼接
	all := make([]model.Order, 0)
	for _, shop := range shops {
		shopNo := shop.ShopNo.String()
		for _, status := range orderStatuses {
			entries, err := c.FetchStoreOrders(ctx, cookies, ownerNo, shopNo, start, end, status)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				all = append(all, ParseOrder(entry.Order, shopNo))
			}
		}
	}

	c.log.Info("聚合抓取完成",
		zap.String("account_id", id),
		zap.Int("shop_count", len(shops)),
		zap.Int("order_count", len(all)))
	return all, nil
}
