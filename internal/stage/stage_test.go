package stage

import (
	"errors"
	"testing"
)

func TestCounted(t *testing.T) {
	cases := []struct {
		name      string
		succeeded int
		failed    int
		want      Status
	}{
		{"all ok", 4, 0, StatusOK},
		{"all failed", 0, 3, StatusFailed},
		{"mixed", 2, 1, StatusPartial},
		{"zero items", 0, 0, StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Counted("fetch", tc.succeeded, tc.failed, "")
			if result.Status != tc.want {
				t.Fatalf("got %s, want %s", result.Status, tc.want)
			}
			if tc.want == StatusFailed && result.Err == nil {
				t.Fatal("failed result must carry an error")
			}
		})
	}
}

func TestStatusSucceeded(t *testing.T) {
	if !StatusOK.Succeeded() || !StatusPartial.Succeeded() {
		t.Fatal("ok and partial count as succeeded")
	}
	if StatusFailed.Succeeded() || StatusSkipped.Succeeded() {
		t.Fatal("failed and skipped must not count as succeeded")
	}
}

func TestFailedCarriesDetail(t *testing.T) {
	err := errors.New("boom")
	result := Failed("upload", err)
	if result.Detail != "boom" || !errors.Is(result.Err, err) {
		t.Fatalf("unexpected result: %+v", result)
	}
}
