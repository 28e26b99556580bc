package ai

import (
	"fmt"

	studentdomain "github.com/opencampus/beacon/internal/student/domain"
)

const systemPrompt = "You are a university student success prediction system. Always respond with valid JSON only."

// renderPrompt produces the fixed natural-language feature summary submitted
// to the model. The wording stays stable so responses are comparable across
// students.
func renderPrompt(s studentdomain.FeatureSnapshot) string {
	yesNo := func(v bool) string {
		if v {
			return "Yes"
		}
		return "No"
	}

	return fmt.Sprintf(`You are an academic risk prediction system for universities. Analyze the following student data and predict their dropout risk.

Student Data:
- GPA: %.2f (scale 0-4.0)
- Attendance: %.1f%%
- Average LMS Logins per week: %.1f
- Has Financial Aid: %s
- Current Course Load: %d courses
- First Generation: %s

Based on research, provide:
1. A risk score (0-100, where 100 is highest risk)
2. A risk tier (Low, Medium, or High)
3. Top 3 specific intervention recommendations

Format your response as JSON:
{
  "risk_score": <number>,
  "risk_tier": "<Low|Medium|High>",
  "interventions": ["recommendation 1", "recommendation 2", "recommendation 3"]
}`,
		s.CumulativeGPA,
		s.RecentAttendancePct,
		s.AvgWeeklyLogins,
		yesNo(s.HasFinancialAid),
		s.CourseLoad,
		yesNo(s.FirstGeneration),
	)
}
