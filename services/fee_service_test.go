package services

import (
	"testing"
	"time"
)

func TestSummarizeFeesEmpty(t *testing.T) {
	now := time.Now()
	summary := SummarizeFees(nil, now)
	if summary.TotalFeeRows != 0 || summary.PaidCount != 0 || summary.UnpaidCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.ByClass) != 0 {
		t.Fatalf("expected no class breakdown")
	}
}

func TestSummarizeFees(t *testing.T) {
	rows := []feeSummaryRow{
		{Amount: 100, Status: "paid", ClassName: "Grade 1"},
		{Amount: 200, Status: "unpaid", ClassName: "Grade 1"},
		{Amount: 50, Status: "partial", ClassName: "Grade 2"},
		{Amount: 300, Status: "unpaid", ClassName: "Grade 2"},
		{Amount: 25, Status: "unpaid", ClassName: ""},
	}
	summary := SummarizeFees(rows, time.Now())

	if summary.PaidCount != 1 || summary.PaidTotal != 100 {
		t.Fatalf("paid: count=%d total=%v", summary.PaidCount, summary.PaidTotal)
	}
	if summary.UnpaidCount != 4 || summary.UnpaidTotal != 575 {
		t.Fatalf("unpaid: count=%d total=%v", summary.UnpaidCount, summary.UnpaidTotal)
	}
	if summary.TotalFeeRows != 5 {
		t.Fatalf("total rows: %d", summary.TotalFeeRows)
	}
}

func TestSummarizeFeesClassOrdering(t *testing.T) {
	rows := []feeSummaryRow{
		{Amount: 100, Status: "unpaid", ClassName: "Grade 1"},
		{Amount: 400, Status: "unpaid", ClassName: "Grade 2"},
		{Amount: 400, Status: "partial", ClassName: "Grade 3"},
		{Amount: 10, Status: "unpaid", ClassName: ""},
	}
	summary := SummarizeFees(rows, time.Now())

	if len(summary.ByClass) != 4 {
		t.Fatalf("expected 4 classes, got %d", len(summary.ByClass))
	}
	// Descending by outstanding, name breaks ties.
	want := []string{"Grade 2", "Grade 3", "Grade 1", "Unassigned"}
	for i, name := range want {
		if summary.ByClass[i].ClassName != name {
			t.Fatalf("position %d: got %q, want %q", i, summary.ByClass[i].ClassName, name)
		}
	}
}

func TestSummarizeFeesPartialCountsAsOutstanding(t *testing.T) {
	rows := []feeSummaryRow{{Amount: 75, Status: "partial", ClassName: "Grade 5"}}
	summary := SummarizeFees(rows, time.Now())
	if summary.UnpaidCount != 1 || summary.UnpaidTotal != 75 {
		t.Fatalf("partial fee not counted as outstanding: %+v", summary)
	}
	if summary.ByClass[0].Outstanding != 75 {
		t.Fatalf("class outstanding: %v", summary.ByClass[0].Outstanding)
	}
}
