// FILE: pkg/billing/prompt/definitions.go
package prompt

// Variant is one A/B arm of a prompt. Copy is static; the selector picks
// the arm deterministically per user.
type Variant struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	CTALabel string `json:"cta_label"`
}

// Prompt is one upgrade nudge keyed by the trigger context it answers.
type Prompt struct {
	Id         string    `json:"id"`
	Trigger    string    `json:"trigger"`
	TargetPlan string    `json:"target_plan"`
	Variants   []Variant `json:"variants"`
}

// Prompt ids, referenced from denial payloads and conversion events.
const (
	PromptUsageLimitWarning  = "usage_limit_warning"
	PromptUsageLimitExceeded = "usage_limit_exceeded"
	PromptBulkUploadGate     = "bulk_upload_gate"
	PromptPremiumAIGate      = "premium_ai_gate"
	PromptAPIAccessGate      = "api_access_gate"
	PromptTrialReminder      = "trial_reminder"
	PromptPeriodicReminder   = "periodic_reminder"
	PromptAbandonedCart      = "abandoned_cart"
)

func definitions() []Prompt {
	return []Prompt{
		{
			Id:         PromptUsageLimitWarning,
			Trigger:    TriggerUsageWarning,
			TargetPlan: "professional",
			Variants: []Variant{
				{Key: "variant_a", Title: "Almost out of analyses", Body: "You have one free analysis left this month. Upgrade to Professional for unlimited analyses.", CTALabel: "Upgrade now"},
				{Key: "variant_b", Title: "One analysis remaining", Body: "Heads up: your free plan resets next month. Go unlimited with Professional today.", CTALabel: "Go unlimited"},
			},
		},
		{
			Id:         PromptUsageLimitExceeded,
			Trigger:    TriggerUsageExceeded,
			TargetPlan: "professional",
			Variants: []Variant{
				{Key: "variant_a", Title: "Monthly limit reached", Body: "You've used all your free analyses this month. Upgrade to Professional and never hit a limit again.", CTALabel: "Upgrade to Professional"},
				{Key: "variant_b", Title: "Out of analyses", Body: "Your quota resets at the start of next period. Start a free 14-day Professional trial to keep going now.", CTALabel: "Start free trial"},
				{Key: "variant_c", Title: "Don't stop now", Body: "Unlimited analyses, premium AI models, and every export format. Professional starts at $19/month.", CTALabel: "See plans"},
			},
		},
		{
			Id:         PromptBulkUploadGate,
			Trigger:    TriggerBulkUpload,
			TargetPlan: "business",
			Variants: []Variant{
				{Key: "variant_a", Title: "Bulk upload is a Business feature", Body: "Process up to 100 resumes at once with the Business plan.", CTALabel: "Upgrade to Business"},
				{Key: "variant_b", Title: "Process resumes in batches", Body: "Business teams screen entire candidate pools in one upload. Try Business free for 14 days.", CTALabel: "Start free trial"},
			},
		},
		{
			Id:         PromptPremiumAIGate,
			Trigger:    TriggerPremiumFeature,
			TargetPlan: "professional",
			Variants: []Variant{
				{Key: "variant_a", Title: "Unlock premium AI processing", Body: "Premium models produce deeper match insights. Available on Professional and above.", CTALabel: "Upgrade now"},
				{Key: "variant_b", Title: "Better matches with premium AI", Body: "Professional subscribers get our strongest models for every analysis.", CTALabel: "Go Professional"},
			},
		},
		{
			Id:         PromptAPIAccessGate,
			Trigger:    TriggerAPIAccess,
			TargetPlan: "business",
			Variants: []Variant{
				{Key: "variant_a", Title: "API access requires Business", Body: "Integrate resume analysis into your own pipeline with the Business API, 1,000 calls included.", CTALabel: "Upgrade to Business"},
			},
		},
		{
			Id:         PromptTrialReminder,
			Trigger:    TriggerTrialEnding,
			TargetPlan: "professional",
			Variants: []Variant{
				{Key: "variant_a", Title: "Your trial ends soon", Body: "Keep unlimited analyses and premium AI by subscribing before your trial ends.", CTALabel: "Subscribe now"},
				{Key: "variant_b", Title: "Don't lose your progress", Body: "Your trial is almost over. Subscribe to keep everything you've unlocked.", CTALabel: "Keep my plan"},
			},
		},
		{
			Id:         PromptPeriodicReminder,
			Trigger:    TriggerPeriodic,
			TargetPlan: "professional",
			Variants: []Variant{
				{Key: "variant_a", Title: "Get more from your job search", Body: "Professional users run 8x more analyses and land interviews faster.", CTALabel: "See what you're missing"},
			},
		},
		{
			Id:         PromptAbandonedCart,
			Trigger:    TriggerAbandonedCheckout,
			TargetPlan: "",
			Variants: []Variant{
				{Key: "variant_a", Title: "Finish your upgrade", Body: "You were one step away from upgrading. Pick up where you left off.", CTALabel: "Complete checkout"},
				{Key: "variant_b", Title: "Still thinking it over?", Body: "Your upgrade is waiting. Complete checkout in under a minute.", CTALabel: "Resume checkout"},
			},
		},
	}
}
