package controller

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/midtrans/midtrans-go/coreapi"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dto "dojoku_backend/internals/features/finance/payments/dto"
	model "dojoku_backend/internals/features/finance/payments/model"
	service "dojoku_backend/internals/features/finance/payments/service"
	helper "dojoku_backend/internals/helpers"
	"dojoku_backend/internals/observability"
)

type WebhookController struct {
	DB       *gorm.DB
	Payments *service.PaymentService
}

func NewWebhookController(db *gorm.DB) *WebhookController {
	return &WebhookController{
		DB:       db,
		Payments: service.NewPaymentService(db),
	}
}

/* =========================================================
   POST /webhooks/payments: gateway-agnostic sink.

   Signature verification is the caller's responsibility;
   this endpoint only decodes and dispatches. It always acks
   unrecognized references so gateways stop retrying.
========================================================= */

func (h *WebhookController) HandlePaymentWebhook(c *fiber.Ctx) error {
	var notif dto.PaymentNotification
	if err := c.BodyParser(&notif); err != nil {
		// Malformed body: ack anyway, there is nothing to retry into.
		slog.Warn("webhook: undecodable payload", "err", err)
		observability.GatewayEvents.WithLabelValues(string(model.GatewayEventStatusIgnored)).Inc()
		return helper.Success(c, "ignored", nil)
	}
	return h.dispatch(c, notif)
}

/* =========================================================
   POST /webhooks/midtrans: provider adapter.
   Decodes Midtrans's native notification shape and maps it
   onto the generic sink. order_id carries our external
   reference.
========================================================= */

func (h *WebhookController) HandleMidtransWebhook(c *fiber.Ctx) error {
	var notif coreapi.TransactionStatusResponse
	if err := c.BodyParser(&notif); err != nil {
		slog.Warn("midtrans webhook: undecodable payload", "err", err)
		observability.GatewayEvents.WithLabelValues(string(model.GatewayEventStatusIgnored)).Inc()
		return helper.Success(c, "ignored", nil)
	}

	status := strings.ToLower(notif.TransactionStatus)
	if status == "capture" && strings.ToLower(notif.FraudStatus) != "accept" {
		status = "pending"
	}

	return h.dispatch(c, dto.PaymentNotification{
		ExternalReference: notif.OrderID,
		Status:            status,
		Gateway:           "Midtrans",
	})
}

func (h *WebhookController) dispatch(c *fiber.Ctx, notif dto.PaymentNotification) error {
	ref := notif.ExternalReference
	event := model.PaymentGatewayEventModel{
		GatewayEventProvider:    orDefault(notif.Gateway, "unknown"),
		GatewayEventExternalRef: &ref,
		GatewayEventPayload:     datatypes.JSON(c.Body()),
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&event).Error; err != nil {
		slog.Error("webhook: failed to log gateway event", "err", err)
		return helper.Error(c, fiber.StatusInternalServerError, "event log failed")
	}

	outcome, err := h.Payments.ApplyGatewayNotification(
		c.UserContext(), notif.ExternalReference, notif.Status, notif.Gateway)

	now := time.Now()
	update := map[string]interface{}{
		"gateway_event_status":       outcome,
		"gateway_event_processed_at": now,
	}
	if err != nil {
		msg := err.Error()
		update["gateway_event_error"] = msg
	}
	if dbErr := h.DB.WithContext(c.UserContext()).Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ?", event.GatewayEventID).
		Updates(update).Error; dbErr != nil {
		slog.Error("webhook: failed to update gateway event", "err", dbErr)
	}

	observability.GatewayEvents.WithLabelValues(string(outcome)).Inc()

	if err != nil {
		// Infrastructure failure: let the gateway retry.
		slog.Error("webhook: dispatch failed", "ref", notif.ExternalReference, "err", err)
		return helper.Error(c, fiber.StatusInternalServerError, "dispatch failed")
	}
	return helper.Success(c, string(outcome), nil)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
