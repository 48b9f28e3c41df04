package entities

// Subscription plans and their daily token allowances.
const (
	PlanFree    = "free"
	PlanPro     = "pro"
	PlanPremium = "premium"

	DefaultPlan = PlanFree
)

var planAllowances = map[string]int{
	PlanFree:    1_000,
	PlanPro:     20_000,
	PlanPremium: 100_000,
}

// User is a registered bot user with a daily token budget.
type User struct {
	ID              int64  `json:"id"`
	Plan            string `json:"plan"`
	TokensRemaining int    `json:"tokens_remaining"`
	LastReset       string `json:"last_reset"` // ISO date, UTC
}

// KnownPlan reports whether plan is a valid plan name.
func KnownPlan(plan string) bool {
	_, ok := planAllowances[plan]
	return ok
}

// DailyAllowance returns the daily token allowance for plan, falling back to
// the default plan's allowance for unknown plans.
func DailyAllowance(plan string) int {
	if n, ok := planAllowances[plan]; ok {
		return n
	}
	return planAllowances[DefaultPlan]
}

// PlanNames lists the available plan names for user-facing messages.
func PlanNames() []string {
	return []string{PlanFree, PlanPro, PlanPremium}
}
