package domain

// Well-known prompt names. These are the contract between prompt consumers
// and prompt stores; each name maps to one user-editable template file.
const (
	// PromptPolicySummary produces the risk summary. Placeholder: %s (policy text).
	PromptPolicySummary = "policy_summary"

	// PromptQueryExpansion produces paraphrases of a question.
	// Placeholder: %s (question).
	PromptQueryExpansion = "query_expansion"

	// PromptGroundedAnswer answers from retrieved context.
	// Placeholders: %s (context), %s (question).
	PromptGroundedAnswer = "grounded_answer"

	// PromptRiskReport produces the risk report JSON. Placeholder: %s (policy text).
	PromptRiskReport = "risk_report"

	// PromptPermissionMap produces the permission mapping JSON.
	// Placeholders: %s (permission list), %s (policy text).
	PromptPermissionMap = "permission_map"

	// PromptHiddenClauses produces the hidden clause JSON. Placeholder: %s (policy text).
	PromptHiddenClauses = "hidden_clauses"
)

// PromptNames returns every well-known prompt name.
func PromptNames() []string {
	return []string{
		PromptPolicySummary,
		PromptQueryExpansion,
		PromptGroundedAnswer,
		PromptRiskReport,
		PromptPermissionMap,
		PromptHiddenClauses,
	}
}

// DefaultPrompts returns the built-in prompt templates keyed by name.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
func DefaultPrompts() map[string]string {
	return map[string]string{
		PromptPolicySummary: `You are a Privacy Expert. Analyze the following privacy policy text.
Identify the most critical risks for the user.

Output Format:
- **Data Collected:** (List key items)
- **Third Party Sharing:** (Who gets the data?)
- **User Rights:** (Can they delete data?)
- **Risk Score:** (1-10, give a number based on invasiveness)

Policy Text:
%s`,

		PromptQueryExpansion: `You are an AI assistant optimizing queries for a Privacy Policy search.
The user asked: "%s"

Generate 2 variations of this question to improve retrieval from a legal document:
1. A keyword-heavy version (using terms like 'legal basis', 'consent', 'third-party', 'opt-out').
2. A version asking about specific mechanisms or tools mentioned in the policy.

Output ONLY the 2 variations separated by a new line. Do not number them.`,

		PromptGroundedAnswer: `You are answering questions using a privacy policy document.

Instructions:
- Answer ONLY using the information found in the context.
- Do NOT add outside knowledge.
- Provide a concise, structured answer.
- If multiple parts of the answer exist, summarize them clearly.
- If the answer is not found, say:
  "` + NotFoundAnswer + `"

Context:
%s

Question:
%s

Answer:`,

		PromptRiskReport: `You are a senior privacy policy auditor. Analyze the following privacy policy text and return a JSON response.

You MUST return ONLY valid JSON, no markdown, no explanation, no code fences. Just raw JSON.

Return this exact structure:
{
    "overall_risk_score": <number 1-10>,
    "risk_level": "<LOW|MEDIUM|HIGH|CRITICAL>",
    "data_collected": [
        {"category": "<category name>", "items": ["<item1>", "<item2>"], "severity": "<low|medium|high>"}
    ],
    "third_party_sharing": [
        {"entity": "<company/type>", "purpose": "<why>", "data_shared": ["<what data>"]}
    ],
    "hidden_clauses": [
        {"clause": "<summary of the hidden/dangerous clause>", "risk": "<why this is dangerous>", "severity": "<medium|high|critical>"}
    ],
    "user_rights": {
        "can_delete_data": <true|false>,
        "can_opt_out": <true|false>,
        "data_portability": <true|false>,
        "consent_withdrawal": <true|false>,
        "details": "<brief explanation>"
    },
    "retention_policy": "<how long data is kept>",
    "red_flags": ["<flag1>", "<flag2>"]
}

Privacy Policy Text:
%s`,

		PromptPermissionMap: `You are a mobile privacy expert. Analyze the following privacy policy and map it to device-level permissions.

For each permission from this list: [%s]

Determine if the policy indicates the app uses/requests that permission.

You MUST return ONLY valid JSON, no markdown, no explanation, no code fences. Just raw JSON.

Return this exact structure:
{
    "permissions": [
        {
            "name": "<permission name>",
            "requested": <true|false>,
            "confidence": "<high|medium|low>",
            "purpose": "<why the app needs this based on the policy>",
            "policy_evidence": "<exact quote or paraphrase from the policy>",
            "deny_consequence": "<what happens if user denies this permission>",
            "recommendation": "<ALLOW|DENY|CONDITIONAL>",
            "recommendation_reason": "<why this recommendation>"
        }
    ],
    "total_permissions_requested": <number>,
    "unnecessary_permissions": ["<permission that seems excessive>"],
    "permission_risk_score": <number 1-10>
}

Privacy Policy Text:
%s`,

		PromptHiddenClauses: `You are a consumer rights attorney specializing in digital privacy.
Analyze this privacy policy and find ALL hidden, misleading, or dangerous clauses that an average user would miss.

Focus on:
1. Perpetual content ownership / license grants
2. Data selling to third parties (even if disguised)
3. Arbitration clauses that waive class-action rights
4. Auto-renewal / cancellation traps
5. Right to change terms without notice
6. Data retention after account deletion
7. Cross-device tracking
8. Sharing data with government/law enforcement without warrant
9. Using data for AI/ML training
10. Broad indemnification clauses

You MUST return ONLY valid JSON, no markdown, no explanation, no code fences. Just raw JSON.

Return this exact structure:
{
    "hidden_clauses": [
        {
            "title": "<short title>",
            "original_text": "<quote or close paraphrase from policy>",
            "plain_english": "<what this actually means for the user>",
            "severity": "<low|medium|high|critical>",
            "category": "<one of the 10 categories above>",
            "action_recommended": "<what the user should do>"
        }
    ],
    "transparency_score": <1-10, where 10 is fully transparent>,
    "overall_assessment": "<one paragraph summary of how trustworthy this policy is>"
}

Privacy Policy Text:
%s`,
	}
}
