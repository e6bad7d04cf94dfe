package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_MatchesKeyword(t *testing.T) {
	svc := NewService(nil)

	resp := svc.Query("How do I book an appointment?")

	assert.True(t, resp.Matched)
	assert.Contains(t, resp.Answer, "book an appointment")
}

func TestQuery_CaseInsensitive(t *testing.T) {
	svc := NewService(nil)

	resp := svc.Query("CANCEL my visit please")

	assert.True(t, resp.Matched)
	assert.Contains(t, resp.Answer, "cancel")
}

func TestQuery_FirstEntryWins(t *testing.T) {
	svc := NewService([]FAQEntry{
		{Keywords: []string{"slot"}, Answer: "first"},
		{Keywords: []string{"slot", "book"}, Answer: "second"},
	})

	resp := svc.Query("is there a slot to book?")

	assert.True(t, resp.Matched)
	assert.Equal(t, "first", resp.Answer)
}

func TestQuery_Fallback(t *testing.T) {
	svc := NewService(nil)

	resp := svc.Query("what is the meaning of life")

	assert.False(t, resp.Matched)
	assert.Equal(t, fallbackAnswer, resp.Answer)
}
