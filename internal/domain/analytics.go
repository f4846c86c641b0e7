package domain

// Overview holds the headline counters shown at the top of the dashboard.
type Overview struct {
	TotalUsers  int `json:"totalUsers"`
	NewUsers    int `json:"newUsers"`
	WeeklyUsers int `json:"weeklyUsers"`
	TodayUsers  int `json:"todayUsers"`
}

// GenderCount is one slice of the gender distribution.
type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// AgeBucket is one bar of the age distribution.
type AgeBucket struct {
	AgeRange string `json:"ageRange"`
	Count    int    `json:"count"`
}

// TrendPoint is one day of the registration trend.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Analytics aggregates every series the dashboard renders.
type Analytics struct {
	Overview Overview
	Gender   []GenderCount
	Age      []AgeBucket
	Trends   []TrendPoint
	Recent   []UserRecord
}
