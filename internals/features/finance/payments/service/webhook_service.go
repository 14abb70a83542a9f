package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	paymentModel "dojoku_backend/internals/features/finance/payments/model"
	helper "dojoku_backend/internals/helpers"
)

/* =========================================================
   Gateway-agnostic notification dispatch.

   external_reference is "<kind>_<id>" with kind monthly or
   registration. Unknown references and non-approved
   statuses are acknowledged without state change so the
   gateway does not retry forever.
========================================================= */

const (
	RefKindMonthly      = "monthly"
	RefKindRegistration = "registration"
)

// ParseExternalReference splits "<kind>_<uuid>".
func ParseExternalReference(ref string) (kind string, id uuid.UUID, err error) {
	parts := strings.SplitN(strings.TrimSpace(ref), "_", 2)
	if len(parts) != 2 {
		return "", uuid.Nil, fmt.Errorf("malformed external reference %q", ref)
	}
	kind = parts[0]
	if kind != RefKindMonthly && kind != RefKindRegistration {
		return "", uuid.Nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	id, err = uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid reference id in %q", ref)
	}
	return kind, id, nil
}

// IsApprovedStatus normalizes the "paid" statuses the gateways send.
func IsApprovedStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved", "paid", "settlement", "capture":
		return true
	}
	return false
}

// ApplyGatewayNotification resolves a notification to its bill or
// registration and drives the payment processor. The returned status is
// what gets stamped on the gateway event log row; only infrastructure
// failures come back as an error.
func (s *PaymentService) ApplyGatewayNotification(ctx context.Context, ref, status, gateway string) (paymentModel.GatewayEventStatus, error) {
	if !IsApprovedStatus(status) {
		return paymentModel.GatewayEventStatusIgnored, nil
	}

	kind, id, err := ParseExternalReference(ref)
	if err != nil {
		// Unknown references are acked to satisfy gateway retry policies.
		return paymentModel.GatewayEventStatusIgnored, nil
	}

	form := strings.TrimSpace(gateway)
	if form == "" {
		form = "Gateway"
	}

	switch kind {
	case RefKindMonthly:
		_, err = s.PayBill(ctx, id, form, nil)
	case RefKindRegistration:
		_, err = s.PayRegistration(ctx, id, form, nil)
	}
	if err != nil {
		var ae *helper.AppError
		if errors.As(err, &ae) {
			// Duplicate delivery or stale reference: no-op, still acked.
			return paymentModel.GatewayEventStatusIgnored, nil
		}
		return paymentModel.GatewayEventStatusFailed, err
	}
	return paymentModel.GatewayEventStatusApplied, nil
}
