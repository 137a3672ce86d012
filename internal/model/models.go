package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardCompany identifies the issuer whose notification email format applies.
// The set is closed; adding an issuer means adding a format entry in the
// extractor registry.
type CardCompany string

const (
	CardCompanyMUFG    CardCompany = "mufg"
	CardCompanySMBC    CardCompany = "smbc"
	CardCompanyRakuten CardCompany = "rakuten"
	CardCompanyJCB     CardCompany = "jcb"
)

// CardCompanies lists all known issuers in extractor priority order.
var CardCompanies = []CardCompany{
	CardCompanyMUFG,
	CardCompanySMBC,
	CardCompanyRakuten,
	CardCompanyJCB,
}

// IsValid reports whether c is a known issuer tag.
func (c CardCompany) IsValid() bool {
	for _, known := range CardCompanies {
		if c == known {
			return true
		}
	}
	return false
}

// CardUsage is one transaction observation extracted from a notification
// email. Records are immutable once created; corrections are delete +
// recreate.
type CardUsage struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	CardName      string      `db:"card_name" json:"cardName"`
	Amount        int64       `db:"amount" json:"amount"` // whole yen, >= 0
	WhereToUse    string      `db:"where_to_use" json:"whereToUse"`
	DatetimeOfUse time.Time   `db:"datetime_of_use" json:"datetimeOfUse"`
	CardCompany   CardCompany `db:"card_company" json:"cardCompany"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
}

// ReportType is the aggregation window kind.
type ReportType string

const (
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeMonthly ReportType = "monthly"
)

// IsValid reports whether t is a known report type.
func (t ReportType) IsValid() bool {
	return t == ReportTypeWeekly || t == ReportTypeMonthly
}

// ThresholdLevel ranks spend severity within a period. Zero means no
// threshold has been crossed.
type ThresholdLevel int

const (
	ThresholdLevelNone ThresholdLevel = 0
	ThresholdLevel1    ThresholdLevel = 1
	ThresholdLevel2    ThresholdLevel = 2
	ThresholdLevel3    ThresholdLevel = 3
)

// ThresholdTable holds the three ascending alert thresholds for one report
// type, in whole yen. It is sourced externally and may change between
// aggregation runs.
type ThresholdTable struct {
	ReportType ReportType `db:"report_type" json:"reportType"`
	Level1     int64      `db:"level1" json:"level1"`
	Level2     int64      `db:"level2" json:"level2"`
	Level3     int64      `db:"level3" json:"level3"`
}

// Validate checks that all three levels are present and strictly ascending.
// An incomplete table is treated as unavailable rather than silently
// defaulted, so a misconfigured store cannot suppress alerts.
func (t *ThresholdTable) Validate() error {
	if t.Level1 <= 0 || t.Level2 <= 0 || t.Level3 <= 0 {
		return fmt.Errorf("threshold table for %s has missing levels", t.ReportType)
	}
	if !(t.Level1 < t.Level2 && t.Level2 < t.Level3) {
		return fmt.Errorf("threshold table for %s is not ascending: %d, %d, %d",
			t.ReportType, t.Level1, t.Level2, t.Level3)
	}
	return nil
}

// CrossedLevel returns the highest level whose threshold total meets or
// exceeds. Levels are checked high to low so a total past LEVEL3 reports 3.
func (t *ThresholdTable) CrossedLevel(total int64) ThresholdLevel {
	switch {
	case total >= t.Level3:
		return ThresholdLevel3
	case total >= t.Level2:
		return ThresholdLevel2
	case total >= t.Level1:
		return ThresholdLevel1
	default:
		return ThresholdLevelNone
	}
}

// Report is the aggregation result for one half-open period
// [PeriodStart, PeriodEnd). Reports are derived from card usages and can
// be recomputed at any time; the persisted copy is a convenience, not the
// system of record for amounts.
type Report struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ReportType   ReportType     `db:"report_type" json:"reportType"`
	PeriodStart  time.Time      `db:"period_start" json:"periodStart"`
	PeriodEnd    time.Time      `db:"period_end" json:"periodEnd"`
	TotalAmount  int64          `db:"total_amount" json:"totalAmount"`
	UsageCount   int            `db:"usage_count" json:"usageCount"`
	CrossedLevel ThresholdLevel `db:"crossed_level" json:"crossedLevel"`
	GeneratedAt  time.Time      `db:"generated_at" json:"generatedAt"`
}

// AlertEvent records that a period's spend newly crossed a threshold level.
// At most one event is emitted per (reportType, periodStart, level).
type AlertEvent struct {
	ReportType  ReportType     `json:"reportType"`
	PeriodStart time.Time      `json:"periodStart"`
	PeriodEnd   time.Time      `json:"periodEnd"`
	Level       ThresholdLevel `json:"level"`
	TotalAmount int64          `json:"totalAmount"`
	EmittedAt   time.Time      `json:"emittedAt"`
}

// PushSubscription is one Web Push endpoint registered to receive alerts.
type PushSubscription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	P256dh    string    `db:"p256dh" json:"p256dh"`
	Auth      string    `db:"auth" json:"auth"`
	UserAgent *string   `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
