// FILE: internal/dto/plan_dto.go
package dto

type PlanResponse struct {
	Id              string   `json:"id"`
	Name            string   `json:"name"`
	Tagline         string   `json:"tagline,omitempty"`
	PriceMonthly    float64  `json:"price_monthly"`
	PriceAnnual     float64  `json:"price_annual"`
	QuotaPerPeriod  int      `json:"quota_per_period"`
	IncludedSeats   int      `json:"included_seats"`
	FileSizeLimitMB int      `json:"file_size_limit_mb"`
	BulkUploadLimit int      `json:"bulk_upload_limit,omitempty"`
	APICallLimit    int      `json:"api_call_limit,omitempty"`
	TrialDays       int      `json:"trial_days,omitempty"`
	Features        []string `json:"features"`
}

type PricingQuoteResponse struct {
	PlanId        string  `json:"plan_id"`
	BillingCycle  string  `json:"billing_cycle"`
	Seats         int     `json:"seats"`
	Region        string  `json:"region"`
	Currency      string  `json:"currency"`
	BaseAmount    float64 `json:"base_amount"`
	SeatSurcharge float64 `json:"seat_surcharge"`
	TaxAmount     float64 `json:"tax_amount"`
	TotalAmount   float64 `json:"total_amount"`
	AnnualSavings float64 `json:"annual_savings,omitempty"`
}
