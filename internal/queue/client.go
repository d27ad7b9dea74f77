package queue

import (
	"fmt"
	"strings"

	"github.com/himalbox/internal/config"
	"github.com/himalbox/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端，未启用时返回空转客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(cfg)),
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) enqueue(task *asynq.Task, buildErr error, opts []asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	if buildErr != nil {
		return buildErr
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err := c.client.Enqueue(task, options...)
	return err
}

// EnqueuePaymentStatusNotify 推送支付状态通知任务
func (c *Client) EnqueuePaymentStatusNotify(payload PaymentStatusNotifyPayload, opts ...asynq.Option) error {
	task, err := NewPaymentStatusNotifyTask(payload)
	return c.enqueue(task, err, opts)
}

// EnqueuePackageArrivalNotify 推送包裹到仓通知任务
func (c *Client) EnqueuePackageArrivalNotify(payload PackageArrivalNotifyPayload, opts ...asynq.Option) error {
	task, err := NewPackageArrivalNotifyTask(payload)
	return c.enqueue(task, err, opts)
}

// EnqueueProofReviewNotify 推送凭证审核结果通知任务
func (c *Client) EnqueueProofReviewNotify(payload ProofReviewNotifyPayload, opts ...asynq.Option) error {
	task, err := NewProofReviewNotifyTask(payload)
	return c.enqueue(task, err, opts)
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
