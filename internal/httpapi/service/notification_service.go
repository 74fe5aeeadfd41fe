package service

import (
	"fmt"
	"log/slog"
	"strings"

	"rateme/internal/httpapi/models"
	"rateme/internal/mailer"
)

// NotificationService renders and sends the lecturer-facing emails. Delivery
// is best-effort: every method reports success as a bool and a failure only
// shows up in the log, never in the triggering request's response.
type NotificationService interface {
	SendFeedbackNotification(feedback *models.Feedback) bool
	SendSuggestionNotification(lecturer *models.User, suggestion *models.Suggestion) bool
}

type notificationService struct {
	mailer       mailer.Mailer
	dashboardURL string
	log          *slog.Logger
}

func NewNotificationService(m mailer.Mailer, dashboardURL string, log *slog.Logger) NotificationService {
	return &notificationService{
		mailer:       m,
		dashboardURL: dashboardURL,
		log:          log,
	}
}

// SendFeedbackNotification emails the lecturer when new feedback arrives.
// Expects feedback with Lecturer and Course preloaded.
func (s *notificationService) SendFeedbackNotification(feedback *models.Feedback) bool {
	lecturer := feedback.Lecturer

	var details strings.Builder
	fmt.Fprintf(&details, "<p><strong>Overall Rating:</strong> %g/5</p>", feedback.Rating)
	if feedback.TeachingRating != nil {
		fmt.Fprintf(&details, "<p><strong>Teaching Quality:</strong> %g/5</p>", *feedback.TeachingRating)
	}
	if feedback.CommunicationRating != nil {
		fmt.Fprintf(&details, "<p><strong>Communication:</strong> %g/5</p>", *feedback.CommunicationRating)
	}
	if feedback.EngagementRating != nil {
		fmt.Fprintf(&details, "<p><strong>Engagement:</strong> %g/5</p>", *feedback.EngagementRating)
	}
	if feedback.Comment != nil && *feedback.Comment != "" {
		fmt.Fprintf(&details, "<blockquote><em>%q</em></blockquote>", *feedback.Comment)
	}

	html := fmt.Sprintf(`<html><body>
<h2>New Feedback Received</h2>
<p>Hi %s,</p>
<p>You've received new feedback for your course <strong>%s (%s)</strong>.</p>
%s
<p><a href="%s">View Dashboard</a></p>
<p style="color:#666;font-size:12px;">This is an automated message from the feedback system.</p>
</body></html>`,
		lecturer.FullName(), feedback.Course.Name, feedback.Course.Code, details.String(), s.dashboardURL)

	msg := &mailer.Message{
		ToName:      lecturer.FullName(),
		ToEmail:     lecturer.Email,
		Subject:     fmt.Sprintf("New Feedback Received - %s", feedback.Course.Code),
		TextContent: stripTags(html),
		HTMLContent: html,
	}

	if err := s.mailer.Send(msg); err != nil {
		s.log.Warn("failed to send feedback notification", "lecturer", lecturer.Username, "error", err)
		return false
	}
	return true
}

// SendSuggestionNotification emails the lecturer when new AI suggestions
// have been generated. Only a preview of the text is embedded.
func (s *notificationService) SendSuggestionNotification(lecturer *models.User, suggestion *models.Suggestion) bool {
	preview := suggestion.SuggestionsText
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}

	html := fmt.Sprintf(`<html><body>
<h2>New AI Suggestions Ready</h2>
<p>Hi %s,</p>
<p>Your improvement suggestions have been generated based on <strong>%d feedback items</strong>.</p>
<div style="white-space:pre-line;">%s</div>
<p><a href="%s">View Full Suggestions</a></p>
</body></html>`,
		lecturer.FullName(), suggestion.BasedOnFeedbackCount, preview, s.dashboardURL)

	msg := &mailer.Message{
		ToName:      lecturer.FullName(),
		ToEmail:     lecturer.Email,
		Subject:     "New AI suggestions are ready for you to check out!",
		TextContent: stripTags(html),
		HTMLContent: html,
	}

	if err := s.mailer.Send(msg); err != nil {
		s.log.Warn("failed to send suggestion notification", "lecturer", lecturer.Username, "error", err)
		return false
	}
	return true
}

// stripTags produces the plain-text alternative from the HTML body.
func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
