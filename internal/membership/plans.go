package membership

type Plan struct {
	Type               PlanType `json:"type"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	MonthlyFee         float64  `json:"monthlyFee"`
	AccessAllLocations bool     `json:"accessAllLocations"`
}

var plans = []Plan{
	{
		Type:        PlanBasic,
		Name:        "Basic",
		Description: "Home gym access during staffed hours",
		MonthlyFee:  29,
	},
	{
		Type:        PlanPremium,
		Name:        "Premium",
		Description: "Home gym access around the clock, group classes included",
		MonthlyFee:  49,
	},
	{
		Type:               PlanVIP,
		Name:               "VIP",
		Description:        "Every location, group classes and guest passes",
		MonthlyFee:         99,
		AccessAllLocations: true,
	},
}

func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanPrice returns the monthly fee of a plan, or 0 for an unknown one.
func PlanPrice(t PlanType) float64 {
	for _, p := range plans {
		if p.Type == t {
			return p.MonthlyFee
		}
	}
	return 0
}
