package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	helper "dojoku_backend/internals/helpers"
)

/* =========================================================
   GET /balance?from&to
   Period balance + per-category expense breakdown + the
   virtual cash buckets (always cumulative, not bounded by
   the period).
========================================================= */

func (h *TransactionController) GetBalance(c *fiber.Ctx) error {
	var from, to *time.Time
	const dFmt = "2006-01-02"
	if fs := strings.TrimSpace(c.Query("from")); fs != "" {
		if t, err := time.Parse(dFmt, fs); err == nil {
			from = &t
		}
	}
	if ts := strings.TrimSpace(c.Query("to")); ts != "" {
		if t, err := time.Parse(dFmt, ts); err == nil {
			to = &t
		}
	}

	balance, err := h.Ledger.Balance(c.UserContext(), from, to)
	if err != nil {
		return helper.JSONError(c, err)
	}

	buckets, totalCash, err := h.Buckets.ListBuckets(c.UserContext())
	if err != nil {
		return helper.JSONError(c, err)
	}

	return helper.Success(c, "ok", fiber.Map{
		"balance": balance,
		"virtual_cash": fiber.Map{
			"buckets":     buckets,
			"total_cents": totalCash,
		},
	})
}
