package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Student struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	Name             string       `gorm:"not null" json:"name"`
	Major            string       `json:"major,omitempty"`
	CumulativeGPA    float64      `gorm:"column:cumulative_gpa" json:"cumulative_gpa"`
	FirstGen         bool         `gorm:"column:first_gen" json:"first_gen"`
	Age              int          `json:"age,omitempty"`
	Gender           string       `json:"gender,omitempty"`
	CreditsCompleted int          `json:"credits_completed"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Student) TableName() string { return "students" }

type Term struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"column:term_name;not null" json:"term_name"`
	StartDate time.Time    `gorm:"not null" json:"start_date"`
	Weeks     int          `json:"weeks"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Term) TableName() string { return "terms" }

type Course struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Dept  string       `gorm:"not null" json:"dept"`
	Level int          `gorm:"not null" json:"level"`
	Title string       `gorm:"not null" json:"title"`
}

func (Course) TableName() string { return "courses" }

type TermGPA struct {
	StudentID snowflake.ID `gorm:"primaryKey" json:"student_id"`
	TermID    snowflake.ID `gorm:"primaryKey" json:"term_id"`
	TermGPA   float64      `gorm:"column:term_gpa" json:"term_gpa"`
}

func (TermGPA) TableName() string { return "term_gpas" }

// AttendanceRecord is one per-month attendance percentage for a student in a
// course. The most recent record feeds the risk feature snapshot.
type AttendanceRecord struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID     snowflake.ID `gorm:"not null;index" json:"student_id"`
	CourseID      snowflake.ID `gorm:"not null" json:"course_id"`
	TermID        snowflake.ID `gorm:"not null" json:"term_id"`
	Month         string       `json:"month,omitempty"`
	AttendancePct float64      `gorm:"column:attendance_pct" json:"attendance_pct"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AttendanceRecord) TableName() string { return "attendance" }

// LMSEvent is one activity roll-up from the learning-management system.
type LMSEvent struct {
	ID                   int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID            snowflake.ID `gorm:"not null;index" json:"student_id"`
	CourseID             snowflake.ID `gorm:"not null" json:"course_id"`
	TermID               snowflake.ID `gorm:"not null" json:"term_id"`
	Date                 time.Time    `json:"date"`
	Logins               int          `json:"logins"`
	TimeOnPlatformMin    int          `gorm:"column:time_on_platform_min" json:"time_on_platform_min"`
	AssignmentsSubmitted int          `json:"assignments_submitted"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (LMSEvent) TableName() string { return "lms_events" }

type FinancialAid struct {
	StudentID             snowflake.ID `gorm:"primaryKey" json:"student_id"`
	AidAmountUSD          float64      `gorm:"column:aid_amount_usd" json:"aid_amount_usd"`
	HouseholdIncomeUSD    float64      `gorm:"column:household_income_usd" json:"household_income_usd,omitempty"`
	OutstandingBalanceUSD float64      `gorm:"column:outstanding_balance_usd" json:"outstanding_balance_usd,omitempty"`
	ScholarshipFlag       bool         `json:"scholarship_flag"`
	WorkHoursPerWeek      float64      `json:"work_hours_per_week,omitempty"`
}

func (FinancialAid) TableName() string { return "financial_aid" }

type Enrollment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID snowflake.ID `gorm:"not null;index" json:"student_id"`
	CourseID  snowflake.ID `gorm:"not null" json:"course_id"`
	TermID    snowflake.ID `gorm:"not null" json:"term_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

// FeatureSnapshot is the fixed feature vector a risk prediction is computed
// from. It is derived at prediction time and never stored.
type FeatureSnapshot struct {
	CumulativeGPA       float64 `json:"cumulative_gpa"`
	RecentAttendancePct float64 `json:"recent_attendance_pct"`
	AvgWeeklyLogins     float64 `json:"avg_weekly_logins"`
	HasFinancialAid     bool    `json:"has_financial_aid"`
	CourseLoad          int     `json:"course_load"`
	FirstGeneration     bool    `json:"first_generation"`
}

// Detail bundles everything the student detail view needs in one response.
type Detail struct {
	Student      Student            `json:"student"`
	TermGPAs     []TermGPA          `json:"term_gpas"`
	Attendance   []AttendanceRecord `json:"attendance"`
	LMSEvents    []LMSEvent         `json:"lms_events"`
	FinancialAid *FinancialAid      `json:"financial_aid,omitempty"`
	Enrollments  []Enrollment       `json:"enrollments"`
}
