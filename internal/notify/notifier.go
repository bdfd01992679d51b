package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// 触发类型
const (
	TriggerOrderConfirmation = "order_confirmation"
	TriggerPaymentReceived   = "payment_received"
)

// Event 推送给自动化平台的事件载荷
type Event struct {
	TriggerType   string   `json:"trigger_type"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail []string `json:"customer_email"`
	OrderID       string   `json:"order_id"`
	OrderStatus   string   `json:"order_status"`
	OrderTotal    float64  `json:"order_total"`
	TrackingLink  string   `json:"tracking_link,omitempty"`
	SupportEmail  string   `json:"support_email,omitempty"`
	Year          int      `json:"year,omitempty"`
}

// Notifier webhook 通知器
// 事务提交后调用，尽力投递一次，失败只记日志，不影响调用方
type Notifier struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// New 创建通知器，endpoint 为空时所有事件为空操作
func New(endpoint string, logger *zap.Logger) *Notifier {
	return &Notifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled 是否配置了 webhook 地址
func (n *Notifier) Enabled() bool {
	return n.endpoint != ""
}

// Send 异步投递事件，立即返回
func (n *Notifier) Send(event Event) {
	if !n.Enabled() {
		return
	}
	if event.Year == 0 {
		event.Year = time.Now().Year()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := n.post(ctx, event); err != nil {
			n.logger.Warn("webhook 投递失败",
				zap.String("trigger_type", event.TriggerType),
				zap.String("order_id", event.OrderID),
				zap.Error(err))
		}
	}()
}

func (n *Notifier) post(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建webhook请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求webhook失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook返回状态 %d", resp.StatusCode)
	}
	return nil
}
