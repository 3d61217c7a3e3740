// Package calendar 从 isdayoff.ru 风格的生产日历接口获取节假日/双休日位图，
// 并提供手工列表作为该接口不可用时的兜底。
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const holidayCode = '1'

// Error 表示获取或解析生产日历时发生的错误
type Error struct {
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("生产日历错误: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("生产日历错误: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fetcher 从外部数据源获取某年某月的节假日集合
type Fetcher interface {
	Fetch(ctx context.Context, year int, month time.Month) (map[time.Time]bool, error)
}

// HTTPFetcher 通过 isdayoff.ru 风格接口获取节假日位图：响应体是一串 "0"/"1" 字符，
// 每个字符对应当月一天，"1" 表示当天不上班（周末或法定假日）
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewHTTPFetcher 创建一个 HTTP 节假日拉取器
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

// Fetch 实现 Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, year int, month time.Month) (map[time.Time]bool, error) {
	url := fmt.Sprintf("%s?year=%d&month=%d&cc=ru", f.BaseURL, year, int(month))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Reason: "构造请求失败", Cause: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &Error{Reason: "无法访问生产日历数据源", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Reason: fmt.Sprintf("生产日历数据源返回状态码 %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Reason: "读取响应体失败", Cause: err}
	}

	return parseBitmap(strings.TrimSpace(string(body)), year, month)
}

func parseBitmap(bitmap string, year int, month time.Month) (map[time.Time]bool, error) {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if len(bitmap) != daysInMonth {
		return nil, &Error{Reason: fmt.Sprintf("期望 %d 个字符，实际收到 %d 个", daysInMonth, len(bitmap))}
	}

	holidays := make(map[time.Time]bool, daysInMonth)
	for i, c := range bitmap {
		day := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
		holidays[day] = c == holidayCode
	}
	return holidays, nil
}

// ParseManual 解析逗号分隔的 YYYY-MM-DD 日期列表作为节假日集合，落在指定年月之外的
// 日期会被跳过而不是报错（供接口不可用时的手工兜底使用）
func ParseManual(holidaysStr string, year int, month time.Month) (map[time.Time]bool, error) {
	holidays := make(map[time.Time]bool)
	for _, raw := range strings.Split(holidaysStr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, &Error{Reason: fmt.Sprintf("节假日日期格式错误: %q，期望 YYYY-MM-DD", raw), Cause: err}
		}
		if d.Year() != year || d.Month() != month {
			continue
		}
		holidays[time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)] = true
	}
	return holidays, nil
}

// AllDays 返回某年某月的全部日期
func AllDays(year int, month time.Month) []time.Time {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	days := make([]time.Time, daysInMonth)
	for i := 0; i < daysInMonth; i++ {
		days[i] = time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
	}
	return days
}
