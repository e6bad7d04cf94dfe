package chatbot

import (
	"strings"

	"github.com/sevaqueue/seva-api/internal/model"
)

// FAQEntry maps trigger keywords to a canned answer. Matching is plain
// case-insensitive substring containment over the citizen's message.
type FAQEntry struct {
	Keywords []string
	Answer   string
}

const fallbackAnswer = "Sorry, I could not find an answer for that. " +
	"Please visit the department counter or call the helpline for assistance."

type Service struct {
	entries []FAQEntry
}

func NewService(entries []FAQEntry) *Service {
	if entries == nil {
		entries = DefaultEntries()
	}
	return &Service{entries: entries}
}

// Query returns the answer of the first entry whose keyword appears in
// the message. No state machine, no scoring; first containment wins.
func (s *Service) Query(message string) model.ChatQueryResponse {
	lowered := strings.ToLower(message)

	for _, entry := range s.entries {
		for _, kw := range entry.Keywords {
			if strings.Contains(lowered, kw) {
				return model.ChatQueryResponse{Answer: entry.Answer, Matched: true}
			}
		}
	}

	return model.ChatQueryResponse{Answer: fallbackAnswer, Matched: false}
}

// DefaultEntries covers the common citizen questions.
func DefaultEntries() []FAQEntry {
	return []FAQEntry{
		{
			Keywords: []string{"book", "appointment", "slot"},
			Answer:   "To book an appointment, pick a department, choose a date, and select one of the suggested time slots. You will receive a token number by email.",
		},
		{
			Keywords: []string{"cancel"},
			Answer:   "You can cancel a booking from the My Bookings page any time before the appointment starts.",
		},
		{
			Keywords: []string{"document", "papers", "id proof"},
			Answer:   "Carry a government-issued photo ID and the documents listed on the department's service page.",
		},
		{
			Keywords: []string{"timing", "hours", "open", "close"},
			Answer:   "Department working hours vary; check the department page for opening, closing and lunch-break timings.",
		},
		{
			Keywords: []string{"token", "queue", "wait"},
			Answer:   "Your token number is assigned when you book. The estimated wait time is shown on the department's capacity page.",
		},
		{
			Keywords: []string{"otp", "code", "verify"},
			Answer:   "A 6-digit verification code is emailed to you during booking. Codes expire after a few minutes; request a new one if yours has lapsed.",
		},
	}
}
