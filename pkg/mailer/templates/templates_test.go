package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRenderReceipt(t *testing.T) {
	paid := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	d := NewReceiptData("Asha", "asha@example.com", "Go in Practice", "999.00 INR",
		WithOrder("order_abc", "pay_123"), WithTime(paid))
	data := ApplyBrand(ToMap(d), Brand{AppName: "Coursely"})

	subject, text, html, err := Render(EnrollmentReceipt, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "Go in Practice") {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"999.00 INR", "order_abc", "pay_123", "01 March 2026, 10:30", "Coursely"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderWelcomeDefaults(t *testing.T) {
	subject, text, _, err := Render(Welcome, ToMap(NewWelcomeData("", "x@example.com")))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "the course marketplace") {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(text, "Hi there") {
		t.Errorf("text = %q", text)
	}
}

func TestRenderUnknown(t *testing.T) {
	if Known("nope") {
		t.Fatal("unknown template reported as known")
	}
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestApplyBrandKeepsProducerValues(t *testing.T) {
	m := ApplyBrand(map[string]any{"AppName": "Mine"}, Brand{AppName: "Theirs", SupportURL: "https://help"})
	if m["AppName"] != "Mine" || m["SupportURL"] != "https://help" {
		t.Errorf("got %v", m)
	}
}
