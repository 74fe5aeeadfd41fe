package dto

// StudentDashboardResponse lists every course with its lecturer so the
// student can pick who to rate.
type StudentDashboardResponse struct {
	Role    string           `json:"role"`
	Courses []CourseResponse `json:"courses"`
}

// LecturerDashboardResponse mirrors the lecturer dashboard view: aggregate
// statistics, the most recent feedback, own courses, the latest suggestion
// and ready-to-plot chart data.
type LecturerDashboardResponse struct {
	Role             string              `json:"role"`
	AvgRating        float64             `json:"avg_rating"`
	AvgTeaching      float64             `json:"avg_teaching"`
	AvgCommunication float64             `json:"avg_communication"`
	AvgEngagement    float64             `json:"avg_engagement"`
	TotalFeedback    int64               `json:"total_feedback"`
	RecentFeedback   []FeedbackResponse  `json:"recent_feedback"`
	Courses          []CourseResponse    `json:"courses"`
	LatestSuggestion *SuggestionResponse `json:"latest_suggestion,omitempty"`
	ChartLabels      []string            `json:"chart_labels"`
	ChartData        []float64           `json:"chart_data"`
}
