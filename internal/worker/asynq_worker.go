package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/provider"
	"github.com/himalbox/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPaymentStatusNotify, c.handlePaymentStatusNotify)
	mux.HandleFunc(queue.TaskPackageArrivalNotify, c.handlePackageArrivalNotify)
	mux.HandleFunc(queue.TaskProofReviewNotify, c.handleProofReviewNotify)
}

func (c *Consumer) handlePaymentStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PaymentStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.PaymentNo) == "" {
		logger.Debugw("worker_payment_status_notify_skip_invalid_payload", "payment_no", payload.PaymentNo)
		return nil
	}
	if payload.UserID == 0 {
		// 游客没有站内信箱
		logger.Debugw("worker_payment_status_notify_skip_guest", "payment_no", payload.PaymentNo)
		return nil
	}
	payment, err := c.PaymentRepo.GetByPaymentNo(payload.PaymentNo)
	if err != nil {
		logger.Warnw("worker_payment_status_notify_fetch_failed", "payment_no", payload.PaymentNo, "error", err)
		return err
	}
	if payment == nil {
		logger.Debugw("worker_payment_status_notify_skip_payment_not_found", "payment_no", payload.PaymentNo)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = payment.Status
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_payment_status_notify_skip_service_nil", "payment_no", payload.PaymentNo)
		return nil
	}
	title := fmt.Sprintf("Payment %s is %s", payment.PaymentNo, status)
	body := fmt.Sprintf("Your payment of %s %s via %s is now %s.",
		payment.Currency, payment.Amount.String(), payment.GatewayCode, status)
	if err := c.NotificationService.Notify(payload.UserID, constants.NotificationTypePaymentStatus, title, body, models.JSON{
		"payment_no":   payment.PaymentNo,
		"gateway_code": payment.GatewayCode,
		"status":       status,
	}); err != nil {
		logger.Warnw("worker_payment_status_notify_write_failed",
			"payment_no", payment.PaymentNo,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePackageArrivalNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_package_arrival_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PackageArrivalNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_package_arrival_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ParcelID == 0 {
		logger.Debugw("worker_package_arrival_notify_skip_invalid_payload", "parcel_id", payload.ParcelID)
		return nil
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_package_arrival_notify_skip_guest", "parcel_id", payload.ParcelID)
		return nil
	}
	parcel, err := c.ParcelRepo.GetByID(payload.ParcelID)
	if err != nil {
		logger.Warnw("worker_package_arrival_notify_fetch_failed", "parcel_id", payload.ParcelID, "error", err)
		return err
	}
	if parcel == nil {
		logger.Debugw("worker_package_arrival_notify_skip_parcel_not_found", "parcel_id", payload.ParcelID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_package_arrival_notify_skip_service_nil", "parcel_id", payload.ParcelID)
		return nil
	}
	title := fmt.Sprintf("Package %s arrived at warehouse", parcel.TrackingNo)
	body := fmt.Sprintf("Your package %s has been received and weighed at %s kg.",
		parcel.TrackingNo, parcel.WeightKg.String())
	if err := c.NotificationService.Notify(payload.UserID, constants.NotificationTypePackageArrival, title, body, models.JSON{
		"parcel_id":   parcel.ID,
		"tracking_no": parcel.TrackingNo,
		"weight_kg":   parcel.WeightKg.String(),
	}); err != nil {
		logger.Warnw("worker_package_arrival_notify_write_failed",
			"parcel_id", parcel.ID,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleProofReviewNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_proof_review_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ProofReviewNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_proof_review_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProofID == 0 {
		logger.Debugw("worker_proof_review_notify_skip_invalid_payload", "proof_id", payload.ProofID)
		return nil
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_proof_review_notify_skip_guest", "proof_id", payload.ProofID)
		return nil
	}
	proof, err := c.ProofRepo.GetByID(payload.ProofID)
	if err != nil {
		logger.Warnw("worker_proof_review_notify_fetch_failed", "proof_id", payload.ProofID, "error", err)
		return err
	}
	if proof == nil {
		logger.Debugw("worker_proof_review_notify_skip_proof_not_found", "proof_id", payload.ProofID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_proof_review_notify_skip_service_nil", "proof_id", payload.ProofID)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = proof.Status
	}
	var title, body string
	if status == constants.ProofStatusVerified {
		title = "Payment proof verified"
		body = fmt.Sprintf("Your payment proof for %s %s has been verified. The related quotes are marked as paid.",
			proof.Currency, proof.Amount.String())
	} else {
		title = "Payment proof rejected"
		body = fmt.Sprintf("Your payment proof for %s %s was rejected. %s",
			proof.Currency, proof.Amount.String(), strings.TrimSpace(proof.ReviewNote))
		body = strings.TrimSpace(body)
	}
	if err := c.NotificationService.Notify(payload.UserID, constants.NotificationTypeProofReview, title, body, models.JSON{
		"proof_id": proof.ID,
		"status":   status,
	}); err != nil {
		logger.Warnw("worker_proof_review_notify_write_failed",
			"proof_id", proof.ID,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	return nil
}
