package recovery

import (
	"testing"
	"time"

	"modmail/internal/domain"
)

func TestSortChronological(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msgs := []domain.Message{
		{ID: "30", Timestamp: base.Add(time.Second)},
		{ID: "100", Timestamp: base},
		{ID: "9", Timestamp: base},
	}
	sortChronological(msgs)
	got := []domain.MessageID{msgs[0].ID, msgs[1].ID, msgs[2].ID}
	want := []domain.MessageID{"9", "100", "30"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
