package domain

import "testing"

func TestWantsSubmissionMail(t *testing.T) {
	cases := []struct {
		o    Owner
		want bool
	}{
		{Owner{Email: "a@b.c", NotifyNewSubmissions: true}, true},
		{Owner{Email: "a@b.c", NotifyNewSubmissions: true, UnsubscribeAll: true}, false},
		{Owner{Email: "a@b.c"}, false},
		{Owner{NotifyNewSubmissions: true}, false},
	}
	for i, tc := range cases {
		if got := tc.o.WantsSubmissionMail(); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}
