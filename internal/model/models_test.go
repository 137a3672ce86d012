package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardCompanyIsValid(t *testing.T) {
	for _, company := range CardCompanies {
		assert.True(t, company.IsValid(), string(company))
	}

	assert.False(t, CardCompany("visa").IsValid())
	assert.False(t, CardCompany("").IsValid())
}

func TestReportTypeIsValid(t *testing.T) {
	assert.True(t, ReportTypeWeekly.IsValid())
	assert.True(t, ReportTypeMonthly.IsValid())
	assert.False(t, ReportType("daily").IsValid())
}

func TestThresholdTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   ThresholdTable
		wantErr bool
	}{
		{
			name:  "ascending",
			table: ThresholdTable{ReportType: ReportTypeWeekly, Level1: 1000, Level2: 5000, Level3: 10000},
		},
		{
			name:    "missing level",
			table:   ThresholdTable{ReportType: ReportTypeWeekly, Level1: 1000, Level3: 10000},
			wantErr: true,
		},
		{
			name:    "not ascending",
			table:   ThresholdTable{ReportType: ReportTypeWeekly, Level1: 5000, Level2: 1000, Level3: 10000},
			wantErr: true,
		},
		{
			name:    "equal levels",
			table:   ThresholdTable{ReportType: ReportTypeWeekly, Level1: 1000, Level2: 1000, Level3: 10000},
			wantErr: true,
		},
		{
			name:    "negative level",
			table:   ThresholdTable{ReportType: ReportTypeWeekly, Level1: -1, Level2: 5000, Level3: 10000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThresholdTableCrossedLevel(t *testing.T) {
	table := ThresholdTable{ReportType: ReportTypeWeekly, Level1: 1000, Level2: 5000, Level3: 10000}

	tests := []struct {
		total int64
		want  ThresholdLevel
	}{
		{0, ThresholdLevelNone},
		{999, ThresholdLevelNone},
		{1000, ThresholdLevel1},
		{4999, ThresholdLevel1},
		{5000, ThresholdLevel2},
		{7000, ThresholdLevel2},
		{10000, ThresholdLevel3},
		{1000000, ThresholdLevel3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.CrossedLevel(tt.total), "total=%d", tt.total)
	}
}
