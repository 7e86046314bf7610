package version

import "testing"

func TestInfoDefaults(t *testing.T) {
	bi := Info()
	if bi.Service != "datapulse-api" || bi.Version != "dev" {
		t.Fatalf("info = %+v", bi)
	}
	if bi.Commit == "" || bi.Date == "" {
		t.Fatalf("commit/date should never be blank: %+v", bi)
	}
}
