package intent

import (
	"reflect"
	"testing"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
)

func TestParseEnrollmentWithPhone(t *testing.T) {
	const message = "I want to enroll, my phone is 9876543210"

	parsed := Parse(message)
	if parsed.Intent != domain.IntentEnrollment {
		t.Fatalf("expected enrollment intent, got %s", parsed.Intent)
	}
	if parsed.ContactInfo == nil || parsed.ContactInfo.Phone != "9876543210" {
		t.Fatalf("expected phone 9876543210, got %+v", parsed.ContactInfo)
	}
	if parsed.ContactInfo.PhoneE164 != "+919876543210" {
		t.Fatalf("expected E.164 phone, got %q", parsed.ContactInfo.PhoneE164)
	}
	if parsed.QuickScore != 70 {
		t.Fatalf("expected quick score 70, got %d", parsed.QuickScore)
	}
	if !ShouldCreateLead(parsed) {
		t.Fatalf("expected message to create a lead")
	}
}

func TestIntentPriorityEnrollmentBeatsPricing(t *testing.T) {
	parsed := Parse("What is the fee? I want to enroll for the next batch")
	if parsed.Intent != domain.IntentEnrollment {
		t.Fatalf("expected enrollment intent, got %s", parsed.Intent)
	}
}

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		text string
		want domain.Intent
	}{
		{"How much is the course?", domain.IntentPricing},
		{"What are the timings for the morning batch", domain.IntentSchedule},
		{"Do you teach B2?", domain.IntentLevelInfo},
		{"Can you share more details", domain.IntentInquiry},
		{"hello", domain.IntentGeneral},
		{"fees ethra aanu?", domain.IntentPricing},
		{"Registration open aano", domain.IntentEnrollment},
	}

	for _, tc := range cases {
		if got := DetectIntent(tc.text); got != tc.want {
			t.Fatalf("expected %s for %q, got %s", tc.want, tc.text, got)
		}
	}
}

func TestContactExtraction(t *testing.T) {
	contact := ExtractContact("call me at 9876543210 or a@b.com")
	if contact == nil {
		t.Fatalf("expected contact info")
	}
	if contact.Phone != "9876543210" {
		t.Fatalf("expected phone 9876543210, got %q", contact.Phone)
	}
	if contact.Email != "a@b.com" {
		t.Fatalf("expected email a@b.com, got %q", contact.Email)
	}
}

func TestContactExtractionStripsSeparators(t *testing.T) {
	contact := ExtractContact("my number is +91 98765-43210")
	if contact == nil || contact.Phone != "+919876543210" {
		t.Fatalf("expected +919876543210, got %+v", contact)
	}
}

func TestContactNameAloneCountsAsContact(t *testing.T) {
	parsed := Parse("Hi, my name is Anjali Nair")
	if parsed.ContactInfo == nil || parsed.ContactInfo.Name != "Anjali Nair" {
		t.Fatalf("expected name Anjali Nair, got %+v", parsed.ContactInfo)
	}
	if !parsed.ContactInfo.Present() {
		t.Fatalf("expected a name to count as contact")
	}
	if parsed.QuickScore != 35 {
		t.Fatalf("expected general 5 + contact 30 = 35, got %d", parsed.QuickScore)
	}
	if !ShouldCreateLead(parsed) {
		t.Fatalf("expected a named sender to open a lead")
	}
}

func TestContactIgnoresNonNames(t *testing.T) {
	if contact := ExtractContact("I am Interested in classes"); contact != nil {
		t.Fatalf("expected no contact, got %+v", contact)
	}
	if contact := ExtractContact("no numbers like 12345 here"); contact != nil {
		t.Fatalf("expected no contact, got %+v", contact)
	}
}

func TestDetectLevel(t *testing.T) {
	cases := []struct {
		text string
		want domain.Level
	}{
		{"I finished a2 last year", domain.LevelA2},
		{"I am a beginner", domain.LevelA1},
		{"intermediate learner", domain.LevelB1},
		{"advanced grammar please", domain.LevelC1},
		{"beginner but I have B1 certificate", domain.LevelB1},
		{"room a12 is booked", domain.LevelNone},
	}

	for _, tc := range cases {
		if got := DetectLevel(tc.text); got != tc.want {
			t.Fatalf("expected %q for %q, got %q", tc.want, tc.text, got)
		}
	}
}

func TestExtractKeywordsSortedAndUnique(t *testing.T) {
	got := ExtractKeywords("Online German classes in the evening, online or offline, Goethe exam")
	want := []string{"evening", "exam", "german", "goethe", "offline", "online"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDetectSentiment(t *testing.T) {
	cases := []struct {
		text string
		want domain.Sentiment
	}{
		{"I am not interested", domain.SentimentNegative},
		{"Thanks, this is great", domain.SentimentPositive},
		{"good but expensive", domain.SentimentNeutral},
		{"ok", domain.SentimentNeutral},
	}

	for _, tc := range cases {
		if got := DetectSentiment(tc.text); got != tc.want {
			t.Fatalf("expected %s for %q, got %s", tc.want, tc.text, got)
		}
	}
}

func TestDetectUrgency(t *testing.T) {
	if got := DetectUrgency("need to start soon, ideally today"); got != domain.UrgencyHigh {
		t.Fatalf("expected high urgency, got %s", got)
	}
	if got := DetectUrgency("maybe next month"); got != domain.UrgencyMedium {
		t.Fatalf("expected medium urgency, got %s", got)
	}
	if got := DetectUrgency("just browsing"); got != domain.UrgencyLow {
		t.Fatalf("expected low urgency, got %s", got)
	}
}

func TestQuickScoreIsClamped(t *testing.T) {
	message := "I want to enroll in the online A1 German course, morning or evening batch, weekend too, " +
		"intensive 2 months with Goethe certificate, call 9876543210 urgently"
	parsed := Parse(message)
	if parsed.QuickScore != 100 {
		t.Fatalf("expected clamped quick score 100, got %d", parsed.QuickScore)
	}
}

func TestShouldCreateLeadGate(t *testing.T) {
	if ShouldCreateLead(Parse("hello")) {
		t.Fatalf("expected a greeting not to create a lead")
	}
	if !ShouldCreateLead(Parse("when is the next batch")) {
		t.Fatalf("expected schedule intent to create a lead")
	}
	if ShouldCreateLead(Parse("more details")) {
		t.Fatalf("expected a bare inquiry under the threshold not to create a lead")
	}
}

func TestParseIsDeterministic(t *testing.T) {
	const message = "Hi I'm Rahul, fees for B1 online? reach me at rahul@example.com asap"
	first := Parse(message)
	for i := 0; i < 20; i++ {
		if got := Parse(message); !reflect.DeepEqual(first, got) {
			t.Fatalf("expected identical parse, got %+v vs %+v", first, got)
		}
	}
}
