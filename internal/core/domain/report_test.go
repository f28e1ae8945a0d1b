package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportDefaults(t *testing.T) {
	risks := ReportDefaults(ReportRisks)
	assert.Equal(t, 0, risks["overall_risk_score"])
	assert.Equal(t, "UNKNOWN", risks["risk_level"])

	assert.Equal(t, []any{}, ReportDefaults(ReportPermissions)["permissions"])
	assert.Equal(t, []any{}, ReportDefaults(ReportHiddenClauses)["hidden_clauses"])
	assert.Empty(t, ReportDefaults(ReportKind("other")))
}

func TestReportKind_IsValid(t *testing.T) {
	assert.True(t, ReportRisks.IsValid())
	assert.True(t, ReportPermissions.IsValid())
	assert.True(t, ReportHiddenClauses.IsValid())
	assert.False(t, ReportKind("full").IsValid())
}

func TestReport_Failed(t *testing.T) {
	assert.False(t, Report{"risk_level": "LOW"}.Failed())
	assert.True(t, Report{ReportKeyError: "AI Error: quota"}.Failed())
}

func TestDevicePermissions(t *testing.T) {
	perms := DevicePermissions()

	assert.Len(t, perms, 15)
	assert.Equal(t, "Camera", perms[0])
	assert.Contains(t, perms, "Advertising ID / Cross-App Tracking")
}

func TestDefaultPrompts_CoverEveryName(t *testing.T) {
	prompts := DefaultPrompts()
	for _, name := range PromptNames() {
		assert.NotEmpty(t, prompts[name], name)
	}
	assert.Contains(t, prompts[PromptGroundedAnswer], NotFoundAnswer)
}
