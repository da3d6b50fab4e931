// FILE: pkg/billing/catalog/definitions.go
// Tier definitions. Prices are USD before regional adjustment; annual prices
// bake in two free months.
package catalog

type planDefinition struct {
	Plan
	featureList []FeatureKey
}

func float(v float64) *float64 { return &v }

func definitions() []planDefinition {
	return []planDefinition{
		{
			Plan: Plan{
				Id:              "free",
				Tier:            TierFree,
				Name:            "Free Tier",
				Tagline:         "Try AI-powered resume analysis",
				PriceMonthly:    0,
				PriceAnnual:     0,
				QuotaPerPeriod:  3,
				IncludedSeats:   1,
				FileSizeLimitMB: 5,
				BulkUploadLimit: 1,
				APICallLimit:    0,
				TrialDays:       0,
			},
		},
		{
			Plan: Plan{
				Id:              "professional",
				Tier:            TierProfessional,
				Name:            "Professional",
				Tagline:         "Unlimited analyses for serious job seekers",
				PriceMonthly:    19,
				PriceAnnual:     190,
				QuotaPerPeriod:  Unlimited,
				IncludedSeats:   1,
				FileSizeLimitMB: 50,
				BulkUploadLimit: 1,
				APICallLimit:    0,
				TrialDays:       14,
			},
			featureList: []FeatureKey{
				FeatureUnlimitedAnalyses,
				FeaturePremiumProcessing,
				FeatureAllExportFormats,
			},
		},
		{
			Plan: Plan{
				Id:                "business",
				Tier:              TierBusiness,
				Name:              "Business",
				Tagline:           "Team collaboration for growing companies",
				PriceMonthly:      99,
				PriceAnnual:       990,
				QuotaPerPeriod:    Unlimited,
				IncludedSeats:     5,
				PerExtraSeatPrice: float(15),
				FileSizeLimitMB:   50,
				BulkUploadLimit:   100,
				APICallLimit:      1000,
				TrialDays:         14,
			},
			featureList: []FeatureKey{
				FeatureUnlimitedAnalyses,
				FeaturePremiumProcessing,
				FeatureAllExportFormats,
				FeaturePrioritySupport,
				FeatureTeamCollaboration,
				FeatureBulkOperations,
				FeatureAPIAccess,
				FeatureCustomBranding,
			},
		},
		{
			Plan: Plan{
				Id:              "enterprise",
				Tier:            TierEnterprise,
				Name:            "Enterprise",
				Tagline:         "Complete solution for large organizations",
				PriceMonthly:    500,
				PriceAnnual:     5000,
				QuotaPerPeriod:  Unlimited,
				IncludedSeats:   Unlimited,
				FileSizeLimitMB: 100,
				BulkUploadLimit: 100,
				APICallLimit:    Unlimited,
				TrialDays:       30,
			},
			featureList: []FeatureKey{
				FeatureUnlimitedAnalyses,
				FeaturePremiumProcessing,
				FeatureAllExportFormats,
				FeaturePrioritySupport,
				FeatureTeamCollaboration,
				FeatureBulkOperations,
				FeatureAPIAccess,
				FeatureSingleSignOn,
				FeatureCustomBranding,
				FeatureUnlimitedSeats,
			},
		},
	}
}
