package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                 uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanId                 string     `gorm:"type:varchar(50);not null"`
	Status                 string     `gorm:"type:subscription_status;not null;index"`
	BillingCycle           string     `gorm:"type:billing_cycle;not null;default:'monthly'"`
	CurrentPeriodStart     time.Time  `gorm:"not null"`
	CurrentPeriodEnd       time.Time  `gorm:"not null;index"`
	TrialStart             *time.Time `gorm:""`
	TrialEnd               *time.Time `gorm:"index"`
	UsageThisPeriod        int        `gorm:"not null;default:0"`
	CancelAtPeriodEnd      bool       `gorm:"not null;default:false"`
	CancelledAt            *time.Time `gorm:""`
	AutoConvert            bool       `gorm:"not null;default:false"`
	GatewayCustomerRef     *string    `gorm:"type:varchar(255)"`
	GatewaySubscriptionRef *string    `gorm:"type:varchar(255);index"`
	CheckoutStartedAt      *time.Time `gorm:""`
	CheckoutTargetPlan     *string    `gorm:"type:varchar(50)"`
	LastEventAt            *time.Time `gorm:""`
	Version                int        `gorm:"not null;default:1"`
	CreatedAt              time.Time  `gorm:"autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
