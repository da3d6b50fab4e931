// Package catalog holds the static, versioned plan definitions. Plans are
// built once at process start, never mutated at runtime, and referenced by
// id from subscriptions. Retired plans stay in the catalog (soft-retire) so
// existing subscriptions keep resolving.
package catalog

import (
	"errors"
	"sort"
)

var ErrPlanNotFound = errors.New("plan not found")

type Tier string

const (
	TierFree         Tier = "free"
	TierProfessional Tier = "professional"
	TierBusiness     Tier = "business"
	TierEnterprise   Tier = "enterprise"
)

// tierRank orders tiers for upgrade-path validation and catalog listing.
var tierRank = map[Tier]int{
	TierFree:         0,
	TierProfessional: 1,
	TierBusiness:     2,
	TierEnterprise:   3,
}

// FeatureKey is the closed set of recognized feature flags. Unrecognized
// keys in a definition are ignored; unknown keys at lookup time are false.
type FeatureKey string

const (
	FeatureUnlimitedAnalyses FeatureKey = "unlimitedAnalyses"
	FeaturePremiumProcessing FeatureKey = "premiumProcessing"
	FeatureAllExportFormats  FeatureKey = "allExportFormats"
	FeaturePrioritySupport   FeatureKey = "prioritySupport"
	FeatureTeamCollaboration FeatureKey = "teamCollaboration"
	FeatureBulkOperations    FeatureKey = "bulkOperations"
	FeatureAPIAccess         FeatureKey = "apiAccess"
	FeatureSingleSignOn      FeatureKey = "singleSignOn"
	FeatureCustomBranding    FeatureKey = "customBranding"
	FeatureUnlimitedSeats    FeatureKey = "unlimitedSeats"
)

var recognizedKeys = map[FeatureKey]bool{
	FeatureUnlimitedAnalyses: true,
	FeaturePremiumProcessing: true,
	FeatureAllExportFormats:  true,
	FeaturePrioritySupport:   true,
	FeatureTeamCollaboration: true,
	FeatureBulkOperations:    true,
	FeatureAPIAccess:         true,
	FeatureSingleSignOn:      true,
	FeatureCustomBranding:    true,
	FeatureUnlimitedSeats:    true,
}

// Unlimited is the sentinel for "no numeric limit" on quotas and seats.
const Unlimited = -1

type Plan struct {
	Id                string
	Tier              Tier
	Name              string
	Tagline           string
	PriceMonthly      float64
	PriceAnnual       float64
	QuotaPerPeriod    int // analyses per billing period, Unlimited = no cap
	IncludedSeats     int
	PerExtraSeatPrice *float64
	FileSizeLimitMB   int
	BulkUploadLimit   int
	APICallLimit      int
	TrialDays         int // 0 = plan is not trialable

	features map[FeatureKey]bool
}

// HasFeature is the single typed lookup for feature flags. Closed world:
// a key absent from the plan's flag map means the feature is unavailable.
func (p Plan) HasFeature(key FeatureKey) bool {
	return p.features[key]
}

func (p Plan) Unlimited() bool {
	return p.QuotaPerPeriod == Unlimited
}

func (p Plan) Trialable() bool {
	return p.TrialDays > 0
}

func (p Plan) Rank() int {
	return tierRank[p.Tier]
}

type Catalog struct {
	plans map[string]Plan
}

// New builds the catalog from the static definitions. Feature keys outside
// the recognized set are dropped here, never reported as errors.
func New() *Catalog {
	c := &Catalog{plans: make(map[string]Plan)}
	for _, def := range definitions() {
		flags := make(map[FeatureKey]bool, len(def.featureList))
		for _, key := range def.featureList {
			if recognizedKeys[key] {
				flags[key] = true
			}
		}
		plan := def.Plan
		plan.features = flags
		c.plans[plan.Id] = plan
	}
	return c
}

func (c *Catalog) Get(planId string) (Plan, error) {
	plan, ok := c.plans[planId]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// List returns all plans ordered by tier rank (Free < Professional <
// Business < Enterprise).
func (c *Catalog) List() []Plan {
	plans := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Rank() < plans[j].Rank()
	})
	return plans
}

func (c *Catalog) FreePlan() Plan {
	plan, _ := c.Get(string(TierFree))
	return plan
}

// CanUpgrade reports whether moving from one plan to another is a strict
// tier increase.
func (c *Catalog) CanUpgrade(fromPlanId, toPlanId string) bool {
	from, err := c.Get(fromPlanId)
	if err != nil {
		return false
	}
	to, err := c.Get(toPlanId)
	if err != nil {
		return false
	}
	return to.Rank() > from.Rank()
}

// NextTier returns the plan one rank above the given tier, ok=false at the
// top of the ladder.
func (c *Catalog) NextTier(tier Tier) (Plan, bool) {
	rank, ok := tierRank[tier]
	if !ok {
		return Plan{}, false
	}
	for _, p := range c.List() {
		if p.Rank() == rank+1 {
			return p, true
		}
	}
	return Plan{}, false
}
