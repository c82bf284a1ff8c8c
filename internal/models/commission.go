package models

import "time"

// CommissionStatus enumerates commission bookkeeping states. Transitions run
// pending -> approved -> paid; only payout checks the current state.
type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
)

// Commission is a percentage-based payment owed to an agent for a referred
// student. This is bookkeeping state only; no funds move here.
type Commission struct {
	ID         string           `db:"id" json:"commissionId"`
	AgentID    string           `db:"agent_id" json:"agentId"`
	StudentID  string           `db:"student_id" json:"studentId"`
	Amount     float64          `db:"amount" json:"amount"`
	Percentage float64          `db:"percentage" json:"percentage"`
	Status     CommissionStatus `db:"status" json:"status"`
	PaidAt     *time.Time       `db:"paid_at" json:"paidAt,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// CommissionSummary holds per-status totals derived from a commission set.
// Pure projection, never persisted.
type CommissionSummary struct {
	TotalPending     float64 `json:"totalPending"`
	TotalApproved    float64 `json:"totalApproved"`
	TotalPaid        float64 `json:"totalPaid"`
	LifetimeEarnings float64 `json:"lifetimeEarnings"`
}

// Summarize computes status totals for a commission set. Lifetime earnings
// equal the paid total.
func Summarize(commissions []Commission) CommissionSummary {
	var summary CommissionSummary
	for _, c := range commissions {
		switch c.Status {
		case CommissionStatusPending:
			summary.TotalPending += c.Amount
		case CommissionStatusApproved:
			summary.TotalApproved += c.Amount
		case CommissionStatusPaid:
			summary.TotalPaid += c.Amount
		}
	}
	summary.LifetimeEarnings = summary.TotalPaid
	return summary
}
