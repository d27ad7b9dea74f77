package queue

import (
	"encoding/json"

	"github.com/himalbox/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPaymentStatusNotify 支付状态通知任务
	TaskPaymentStatusNotify = constants.TaskPaymentStatusNotify
	// TaskPackageArrivalNotify 包裹到仓通知任务
	TaskPackageArrivalNotify = constants.TaskPackageArrivalNotify
	// TaskProofReviewNotify 凭证审核结果通知任务
	TaskProofReviewNotify = constants.TaskProofReviewNotify
)

// PaymentStatusNotifyPayload 支付状态通知任务载荷
type PaymentStatusNotifyPayload struct {
	PaymentNo string `json:"payment_no"`
	UserID    uint   `json:"user_id"`
	Status    string `json:"status"`
}

// PackageArrivalNotifyPayload 包裹到仓通知任务载荷
type PackageArrivalNotifyPayload struct {
	ParcelID   uint   `json:"parcel_id"`
	UserID     uint   `json:"user_id"`
	TrackingNo string `json:"tracking_no"`
}

// ProofReviewNotifyPayload 凭证审核结果通知任务载荷
type ProofReviewNotifyPayload struct {
	ProofID uint   `json:"proof_id"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
}

// NewPaymentStatusNotifyTask 创建支付状态通知任务
func NewPaymentStatusNotifyTask(payload PaymentStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentStatusNotify, body), nil
}

// NewPackageArrivalNotifyTask 创建包裹到仓通知任务
func NewPackageArrivalNotifyTask(payload PackageArrivalNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPackageArrivalNotify, body), nil
}

// NewProofReviewNotifyTask 创建凭证审核结果通知任务
func NewProofReviewNotifyTask(payload ProofReviewNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProofReviewNotify, body), nil
}
