package domain

// Report is a structured analysis produced by the language model.
// The shape is defined by the prompt that produced it, so it is kept as a
// decoded JSON object rather than a fixed struct.
type Report map[string]any

// ReportKind identifies one of the structured analyses.
type ReportKind string

// Report kinds.
const (
	ReportRisks         ReportKind = "risks"
	ReportPermissions   ReportKind = "permissions"
	ReportHiddenClauses ReportKind = "hidden_clauses"
)

// IsValid returns true if the report kind is recognised.
func (k ReportKind) IsValid() bool {
	switch k {
	case ReportRisks, ReportPermissions, ReportHiddenClauses:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ReportKind) String() string {
	return string(k)
}

// Fallback keys set on reports whose model output could not be used.
const (
	ReportKeyError       = "error"
	ReportKeyRawResponse = "raw_response"

	// ReportParseFailure is the error marker of unparseable model output.
	ReportParseFailure = "Failed to parse AI response"
)

// ReportDefaults returns the fields a degraded report of the given kind
// always carries so consumers can rely on them.
func ReportDefaults(kind ReportKind) Report {
	switch kind {
	case ReportRisks:
		return Report{"overall_risk_score": 0, "risk_level": "UNKNOWN"}
	case ReportPermissions:
		return Report{"permissions": []any{}}
	case ReportHiddenClauses:
		return Report{"hidden_clauses": []any{}}
	default:
		return Report{}
	}
}

// Failed reports whether the report carries an error marker.
func (r Report) Failed() bool {
	_, ok := r[ReportKeyError]
	return ok
}

// FullAnalysis combines the summary with every structured report.
type FullAnalysis struct {
	URL           string `json:"url"`
	Summary       string `json:"summary"`
	Risks         Report `json:"risk_analysis"`
	Permissions   Report `json:"permission_mapping"`
	HiddenClauses Report `json:"hidden_clauses_analysis"`
}

// DevicePermissions lists the device-level permissions a policy is mapped onto.
func DevicePermissions() []string {
	return []string{
		"Camera",
		"Microphone",
		"Location (GPS)",
		"Contacts",
		"Storage / Files",
		"Notifications",
		"Background Activity Tracking",
		"Clipboard Access",
		"Biometric Data (Face / Fingerprint)",
		"Bluetooth / Nearby Devices",
		"Calendar",
		"Call Logs",
		"SMS / Messages",
		"Advertising ID / Cross-App Tracking",
		"Network / Wi-Fi Information",
	}
}
