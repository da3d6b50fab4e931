// Package pricing derives a concrete price for a plan given billing cycle,
// seat count, and region. Pure computation over the plan catalog and the
// static region table.
package pricing

import (
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/catalog"
)

type Quote struct {
	PlanId             string
	BillingCycle       entity.BillingCycle
	Seats              int
	RegionCode         string
	BasePrice          float64
	RegionalMultiplier float64
	Amount             float64
	Currency           string
	PerSeatSurcharge   float64
	AnnualSavings      float64
	TaxRate            float64
}

type Calculator struct {
	catalog *catalog.Catalog
}

func NewCalculator(cat *catalog.Catalog) *Calculator {
	return &Calculator{catalog: cat}
}

// Price computes the charge for a plan. The only failure mode is an unknown
// plan id; an unrecognized region silently falls back to the rest-of-world
// multiplier.
func (c *Calculator) Price(planId string, cycle entity.BillingCycle, seats int, regionCode string) (*Quote, error) {
	plan, err := c.catalog.Get(planId)
	if err != nil {
		return nil, err
	}
	if seats < 1 {
		seats = 1
	}
	region := lookupRegion(regionCode)

	base := plan.PriceMonthly
	if cycle == entity.BillingCycleAnnual {
		base = plan.PriceAnnual
	}
	amount := base * region.Multiplier

	var surcharge float64
	if plan.PerExtraSeatPrice != nil && plan.IncludedSeats != catalog.Unlimited && seats > plan.IncludedSeats {
		extra := float64(seats - plan.IncludedSeats)
		surcharge = extra * *plan.PerExtraSeatPrice * region.Multiplier
		amount += surcharge
	}

	var savings float64
	if cycle == entity.BillingCycleAnnual {
		savings = plan.PriceMonthly*12*region.Multiplier - amount
	}

	return &Quote{
		PlanId:             plan.Id,
		BillingCycle:       cycle,
		Seats:              seats,
		RegionCode:         regionCode,
		BasePrice:          base,
		RegionalMultiplier: region.Multiplier,
		Amount:             amount,
		Currency:           region.Currency,
		PerSeatSurcharge:   surcharge,
		AnnualSavings:      savings,
		TaxRate:            region.TaxRate,
	}, nil
}
