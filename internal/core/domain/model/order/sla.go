package order

import (
	"time"
)

// Escalation is a level notified once an order has stayed in a status for After.
type Escalation struct {
	Level   string
	Channel string
	After   time.Duration
}

// SLAPolicy bounds how long an order may stay in a status. Escalations are
// ordered by After.
type SLAPolicy struct {
	Threshold   time.Duration
	Escalations []Escalation
}

//nolint:exhaustive // statuses without a policy are not monitored
var slaPolicies = map[Status]SLAPolicy{
	SourcingVendor: {
		Threshold: 4 * time.Hour,
		Escalations: []Escalation{
			{Level: "procurement_lead", Channel: "slack", After: 4 * time.Hour},
			{Level: "operations_manager", Channel: "email", After: 6 * time.Hour},
		},
	},
	VendorNegotiation: {
		Threshold: 12 * time.Hour,
		Escalations: []Escalation{
			{Level: "procurement_manager", Channel: "slack", After: 12 * time.Hour},
			{Level: "general_manager", Channel: "email", After: 16 * time.Hour},
		},
	},
	CustomerQuotation: {
		Threshold: 24 * time.Hour,
		Escalations: []Escalation{
			{Level: "sales_lead", Channel: "email", After: 24 * time.Hour},
			{Level: "operations_manager", Channel: "slack", After: 36 * time.Hour},
		},
	},
	WaitingPayment: {
		Threshold: 72 * time.Hour,
		Escalations: []Escalation{
			{Level: "finance_team", Channel: "email", After: 72 * time.Hour},
		},
	},
	InProduction: {
		Threshold: 48 * time.Hour,
		Escalations: []Escalation{
			{Level: "production_manager", Channel: "slack", After: 48 * time.Hour},
			{Level: "operations_manager", Channel: "email", After: 72 * time.Hour},
		},
	},
	QualityCheck: {
		Threshold: 12 * time.Hour,
		Escalations: []Escalation{
			{Level: "qa_lead", Channel: "slack", After: 12 * time.Hour},
		},
	},
	Shipped: {
		Threshold: 48 * time.Hour,
		Escalations: []Escalation{
			{Level: "logistics_manager", Channel: "email", After: 48 * time.Hour},
			{Level: "operations_manager", Channel: "slack", After: 72 * time.Hour},
		},
	},
}

// SLAPolicyFor returns the policy of status, if it has one.
func SLAPolicyFor(status Status) (SLAPolicy, bool) {
	p, ok := slaPolicies[status]
	return p, ok
}

// SLAMonitoredStatuses lists the statuses that have a policy, in lifecycle order.
func SLAMonitoredStatuses() []Status {
	var monitored []Status
	for _, s := range AllStatuses() {
		if _, ok := slaPolicies[s]; ok {
			monitored = append(monitored, s)
		}
	}
	return monitored
}

// SLAOutcome is what a CheckSLA call observed for the first time.
type SLAOutcome struct {
	Status      Status
	Elapsed     time.Duration
	Threshold   time.Duration
	Breached    bool
	Escalations []Escalation
}

func (r SLAOutcome) IsEmpty() bool {
	return !r.Breached && len(r.Escalations) == 0
}

// CheckSLA compares the time spent in the current status with its policy and
// records a breach and every escalation that became due. Each of them is
// reported once per stay in a status.
func (o *Order) CheckSLA(now time.Time) SLAOutcome {
	policy, ok := slaPolicies[o.status]
	if !ok || o.status.IsTerminal() {
		return SLAOutcome{}
	}

	elapsed := now.Sub(o.statusEnteredAt)
	outcome := SLAOutcome{Status: o.status, Elapsed: elapsed, Threshold: policy.Threshold}

	if o.slaBreachedAt.IsZero() && elapsed >= policy.Threshold {
		o.slaBreachedAt = now.UTC()
		outcome.Breached = true
	}
	for o.slaEscalations < len(policy.Escalations) && elapsed >= policy.Escalations[o.slaEscalations].After {
		outcome.Escalations = append(outcome.Escalations, policy.Escalations[o.slaEscalations])
		o.slaEscalations++
	}

	if !outcome.IsEmpty() {
		o.version = o.persistedVersion + 1
	}
	return outcome
}
