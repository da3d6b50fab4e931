// FILE: internal/service/plan_service.go
package service

import (
	"context"
	"math"

	"resume-analyzer-be/internal/dto"
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/catalog"
	"resume-analyzer-be/pkg/billing/pricing"
)

type IPlanService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetQuote(ctx context.Context, planId, cycle string, seats int, region string) (*dto.PricingQuoteResponse, error)
}

type planService struct {
	catalog    *catalog.Catalog
	calculator *pricing.Calculator
}

func NewPlanService(cat *catalog.Catalog, calculator *pricing.Calculator) IPlanService {
	return &planService{catalog: cat, calculator: calculator}
}

var featureLabels = map[catalog.FeatureKey]string{
	catalog.FeatureUnlimitedAnalyses: "Unlimited Analyses",
	catalog.FeaturePremiumProcessing: "Premium AI Processing",
	catalog.FeatureAllExportFormats:  "All Export Formats",
	catalog.FeaturePrioritySupport:   "Priority Support",
	catalog.FeatureTeamCollaboration: "Team Collaboration",
	catalog.FeatureBulkOperations:    "Bulk Operations",
	catalog.FeatureAPIAccess:         "API Access",
	catalog.FeatureSingleSignOn:      "Single Sign-On",
	catalog.FeatureCustomBranding:    "Custom Branding",
	catalog.FeatureUnlimitedSeats:    "Unlimited Seats",
}

// featureOrder keeps list output stable across requests.
var featureOrder = []catalog.FeatureKey{
	catalog.FeatureUnlimitedAnalyses,
	catalog.FeaturePremiumProcessing,
	catalog.FeatureAllExportFormats,
	catalog.FeaturePrioritySupport,
	catalog.FeatureTeamCollaboration,
	catalog.FeatureBulkOperations,
	catalog.FeatureAPIAccess,
	catalog.FeatureSingleSignOn,
	catalog.FeatureCustomBranding,
	catalog.FeatureUnlimitedSeats,
}

func (s *planService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	var res []*dto.PlanResponse
	for _, p := range s.catalog.List() {
		features := []string{"Resume Analysis"}
		for _, key := range featureOrder {
			if p.HasFeature(key) {
				features = append(features, featureLabels[key])
			}
		}
		res = append(res, &dto.PlanResponse{
			Id:              p.Id,
			Name:            p.Name,
			Tagline:         p.Tagline,
			PriceMonthly:    p.PriceMonthly,
			PriceAnnual:     p.PriceAnnual,
			QuotaPerPeriod:  p.QuotaPerPeriod,
			IncludedSeats:   p.IncludedSeats,
			FileSizeLimitMB: p.FileSizeLimitMB,
			BulkUploadLimit: p.BulkUploadLimit,
			APICallLimit:    p.APICallLimit,
			TrialDays:       p.TrialDays,
			Features:        features,
		})
	}
	return res, nil
}

func (s *planService) GetQuote(ctx context.Context, planId, cycle string, seats int, region string) (*dto.PricingQuoteResponse, error) {
	billingCycle := entity.BillingCycleMonthly
	if cycle == string(entity.BillingCycleAnnual) {
		billingCycle = entity.BillingCycleAnnual
	}

	quote, err := s.calculator.Price(planId, billingCycle, seats, region)
	if err != nil {
		return nil, err
	}

	tax := roundCents(quote.Amount * quote.TaxRate)
	return &dto.PricingQuoteResponse{
		PlanId:        quote.PlanId,
		BillingCycle:  string(quote.BillingCycle),
		Seats:         quote.Seats,
		Region:        quote.RegionCode,
		Currency:      quote.Currency,
		BaseAmount:    roundCents(quote.Amount - quote.PerSeatSurcharge),
		SeatSurcharge: roundCents(quote.PerSeatSurcharge),
		TaxAmount:     tax,
		TotalAmount:   roundCents(quote.Amount + tax),
		AnnualSavings: roundCents(quote.AnnualSavings),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
