package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	billModel "dojoku_backend/internals/features/finance/billings/model"
	paymentModel "dojoku_backend/internals/features/finance/payments/model"
)

func TestParseExternalReference(t *testing.T) {
	id := uuid.New()

	kind, got, err := ParseExternalReference("monthly_" + id.String())
	if err != nil || kind != RefKindMonthly || got != id {
		t.Fatalf("monthly ref: kind=%s id=%s err=%v", kind, got, err)
	}

	kind, got, err = ParseExternalReference("registration_" + id.String())
	if err != nil || kind != RefKindRegistration || got != id {
		t.Fatalf("registration ref: kind=%s id=%s err=%v", kind, got, err)
	}

	for _, bad := range []string{
		"",
		"monthly",
		"order_" + id.String(),
		"monthly_not-a-uuid",
	} {
		if _, _, err := ParseExternalReference(bad); err == nil {
			t.Fatalf("ref %q accepted", bad)
		}
	}
}

func TestIsApprovedStatus(t *testing.T) {
	for _, s := range []string{"approved", "PAID", " settlement ", "capture"} {
		if !IsApprovedStatus(s) {
			t.Fatalf("status %q should be approved", s)
		}
	}
	for _, s := range []string{"pending", "deny", "expire", "refunded", ""} {
		if IsApprovedStatus(s) {
			t.Fatalf("status %q should not be approved", s)
		}
	}
}

func TestApplyGatewayNotificationPaysBillOnce(t *testing.T) {
	db := newTestDB(t)
	bill := seedPendingBill(t, db, 15000)
	svc := NewPaymentService(db)
	ctx := context.Background()
	ref := fmt.Sprintf("monthly_%s", bill.MonthlyBillID)

	status, err := svc.ApplyGatewayNotification(ctx, ref, "approved", "Gateway")
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if status != paymentModel.GatewayEventStatusApplied {
		t.Fatalf("status = %s, want applied", status)
	}

	var loaded billModel.MonthlyBillModel
	if err := db.Take(&loaded, "monthly_bill_id = ?", bill.MonthlyBillID).Error; err != nil {
		t.Fatalf("load bill: %v", err)
	}
	if loaded.MonthlyBillStatus != billModel.MonthlyBillStatusPaid {
		t.Fatalf("bill status = %s, want paid", loaded.MonthlyBillStatus)
	}

	// Gateways retry; a duplicate delivery is acked but changes nothing.
	status, err = svc.ApplyGatewayNotification(ctx, ref, "approved", "Gateway")
	if err != nil {
		t.Fatalf("duplicate delivery: %v", err)
	}
	if status != paymentModel.GatewayEventStatusIgnored {
		t.Fatalf("duplicate status = %s, want ignored", status)
	}
	if n := countTransactions(t, db); n != 1 {
		t.Fatalf("transactions = %d, want exactly 1", n)
	}
}

func TestApplyGatewayNotificationIgnoresUnknownReference(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)
	ctx := context.Background()

	for _, ref := range []string{
		"garbage",
		"monthly_" + uuid.NewString(), // valid shape, no such bill
	} {
		status, err := svc.ApplyGatewayNotification(ctx, ref, "approved", "Gateway")
		if err != nil {
			t.Fatalf("ref %q: %v", ref, err)
		}
		if status != paymentModel.GatewayEventStatusIgnored {
			t.Fatalf("ref %q status = %s, want ignored", ref, status)
		}
	}
}

func TestApplyGatewayNotificationIgnoresNonApproved(t *testing.T) {
	db := newTestDB(t)
	bill := seedPendingBill(t, db, 15000)
	svc := NewPaymentService(db)

	status, err := svc.ApplyGatewayNotification(context.Background(),
		"monthly_"+bill.MonthlyBillID.String(), "pending", "Gateway")
	if err != nil {
		t.Fatalf("delivery: %v", err)
	}
	if status != paymentModel.GatewayEventStatusIgnored {
		t.Fatalf("status = %s, want ignored", status)
	}

	var loaded billModel.MonthlyBillModel
	if err := db.Take(&loaded, "monthly_bill_id = ?", bill.MonthlyBillID).Error; err != nil {
		t.Fatalf("load bill: %v", err)
	}
	if loaded.MonthlyBillStatus != billModel.MonthlyBillStatusPending {
		t.Fatalf("bill status = %s, want still pending", loaded.MonthlyBillStatus)
	}
}

func TestApplyGatewayNotificationPaysRegistration(t *testing.T) {
	db := newTestDB(t)
	reg := seedRegistration(t, db, 8000)
	svc := NewPaymentService(db)

	status, err := svc.ApplyGatewayNotification(context.Background(),
		"registration_"+reg.RegistrationID.String(), "settlement", "Midtrans")
	if err != nil {
		t.Fatalf("delivery: %v", err)
	}
	if status != paymentModel.GatewayEventStatusApplied {
		t.Fatalf("status = %s, want applied", status)
	}
	if n := countTransactions(t, db); n != 1 {
		t.Fatalf("transactions = %d, want 1", n)
	}
}
