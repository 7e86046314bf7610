package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"datapulse/internal/core/trend"
	"datapulse/internal/modkit/repokit"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/platform/store"
	kit "datapulse/internal/platform/testkit"
	"datapulse/internal/services/api/insights/domain"
	"datapulse/internal/services/api/insights/repo"
	projects "datapulse/internal/services/projects/domain"
)

var now = time.Date(2026, 5, 14, 15, 4, 5, 0, time.UTC)

type fakeRepo struct {
	total, recent, previous int64
	tags                    []domain.TagCount
	rows                    map[string][]byte
	upserts                 int

	from, mid, to time.Time
	tagsSince     time.Time
}

func (f *fakeRepo) Total(context.Context, int64) (int64, error) { return f.total, nil }

func (f *fakeRepo) Volume(_ context.Context, _ int64, from, mid, to time.Time) (int64, int64, error) {
	f.from, f.mid, f.to = from, mid, to
	return f.recent, f.previous, nil
}

func (f *fakeRepo) TagCounts(_ context.Context, _ int64, since time.Time) ([]domain.TagCount, error) {
	f.tagsSince = since
	return f.tags, nil
}

func rowKey(pid int64, period string, day time.Time) string {
	return strconv.FormatInt(pid, 10) + "/" + period + "/" + day.Format("2006-01-02")
}

func (f *fakeRepo) Saved(_ context.Context, pid int64, period string, day time.Time) ([]byte, error) {
	raw, ok := f.rows[rowKey(pid, period, day)]
	if !ok {
		return nil, perr.ErrNotFound
	}
	return raw, nil
}

func (f *fakeRepo) Upsert(_ context.Context, pid int64, period string, day time.Time, summary []byte) error {
	if f.rows == nil {
		f.rows = map[string][]byte{}
	}
	f.upserts++
	f.rows[rowKey(pid, period, day)] = summary
	return nil
}

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (nopTx) Tx(ctx context.Context, fn func(store.RowQuerier) error) error  { return fn(nopTx{}) }

type ownerOnly struct{ uid string }

func (o ownerOnly) ByAPIKey(context.Context, string) (projects.Project, error) {
	return projects.Project{}, perr.ErrNotFound
}

func (o ownerOnly) Owned(_ context.Context, uid string, id int64) (projects.Project, error) {
	if uid != o.uid {
		return projects.Project{}, perr.NotFoundf("Project not found or access denied")
	}
	return projects.Project{ID: id, OwnerID: uid}, nil
}

func (o ownerOnly) ListOwned(context.Context, string) ([]projects.Project, error) { return nil, nil }
func (o ownerOnly) Owner(context.Context, int64) (projects.Owner, error)          { return projects.Owner{}, nil }
func (o ownerOnly) All(context.Context) ([]int64, error)                          { return []int64{1}, nil }
func (o ownerOnly) Forget(string)                                                 {}

func newSvc(f *fakeRepo) *Svc {
	s := New(nopTx{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }), ownerOnly{uid: "u1"})
	s.now = func() time.Time { return now }
	return s
}

func TestComposeSummary(t *testing.T) {
	tags := []domain.TagCount{
		{Tag: "support", Count: 2},
		{Tag: "login_issue", Count: 4},
		{Tag: "pricing", Count: 2},
		{Tag: "feedback", Count: 2},
	}
	sum := Compose(40, 6, tags, []trend.Trend{{Type: trend.TypeSpike, Message: "up", Severity: trend.SeverityHigh}})

	if sum.TotalSubmissions != 40 || sum.NewSubmissions != 6 {
		t.Fatalf("counts = %+v", sum)
	}
	want := []string{"login_issue", "feedback", "pricing"}
	if len(sum.TopTags) != 3 {
		t.Fatalf("top tags = %+v", sum.TopTags)
	}
	for i, tag := range want {
		if sum.TopTags[i].Tag != tag {
			t.Fatalf("top tag %d = %q, want %q", i, sum.TopTags[i].Tag, tag)
		}
	}
	if len(sum.Trends) != 1 || sum.Trends[0].Type != trend.TypeSpike || sum.Trends[0].Message != "up" {
		t.Fatalf("trends = %+v", sum.Trends)
	}
	if len(sum.Insights) != 2 || sum.Insights[0] != "You received 6 submissions today" ||
		sum.Insights[1] != "Most submissions were related to login issue" {
		t.Fatalf("insights = %q", sum.Insights)
	}
}

func TestComposeInsightWording(t *testing.T) {
	if got := Compose(0, 0, nil, nil).Insights; len(got) != 1 || got[0] != "No new submissions today" {
		t.Fatalf("zero = %q", got)
	}
	if got := Compose(1, 1, nil, nil).Insights; len(got) != 1 || got[0] != "You received 1 submission today" {
		t.Fatalf("one = %q", got)
	}
}

func TestSuggestions(t *testing.T) {
	got := Suggestions([]domain.TagCount{{Tag: "login_issue", Count: 3}, {Tag: "urgent", Count: 1}})
	if len(got) != 4 {
		t.Fatalf("suggestions = %+v", got)
	}
	if got[0].Label != "Last 24 hours" || got[0].Filter["time"] != "24h" || got[1].Filter["time"] != "7d" {
		t.Fatalf("time chips = %+v", got[:2])
	}
	if got[2].Label != "login issue" || got[2].Filter["tag"] != "login_issue" {
		t.Fatalf("tag chip = %+v", got[2])
	}
	for i, want := range []string{"time", "time", "tag", "tag"} {
		if got[i].Type != want {
			t.Fatalf("chip %d type = %q, want %q", i, got[i].Type, want)
		}
	}
}

func TestGenerateDailyOverwritesTodaysRow(t *testing.T) {
	f := &fakeRepo{total: 10, recent: 2}
	s := newSvc(f)

	if _, err := s.GenerateDaily(context.Background(), 1); err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}
	f.total, f.recent = 11, 3
	second, err := s.GenerateDaily(context.Background(), 1)
	if err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}
	if f.upserts != 2 || len(f.rows) != 1 {
		t.Fatalf("upserts=%d rows=%d", f.upserts, len(f.rows))
	}
	var stored domain.Summary
	for _, raw := range f.rows {
		if err := json.Unmarshal(raw, &stored); err != nil {
			t.Fatalf("stored summary: %v", err)
		}
	}
	if stored.TotalSubmissions != 11 || stored.NewSubmissions != second.NewSubmissions {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestSummaryReadPath(t *testing.T) {
	f := &fakeRepo{total: 5, recent: 1}
	s := newSvc(f)

	sum, err := s.Summary(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalSubmissions != 5 || f.upserts != 0 {
		t.Fatalf("computed summary = %+v upserts=%d", sum, f.upserts)
	}

	if _, err := s.GenerateDaily(context.Background(), 1); err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}
	f.total = 99
	sum, err = s.Summary(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalSubmissions != 5 {
		t.Fatalf("stored row should win, got total %d", sum.TotalSubmissions)
	}
}

func TestTrendWindowsAndSpikeBoundary(t *testing.T) {
	f := &fakeRepo{recent: 140, previous: 100}
	s := newSvc(f)

	got, err := s.Trends(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("140/100 should yield an empty list, got %+v", got)
	}
	if !f.to.Equal(now) || !f.mid.Equal(now.Add(-24*time.Hour)) || !f.from.Equal(now.Add(-48*time.Hour)) {
		t.Fatalf("windows = %v %v %v", f.from, f.mid, f.to)
	}
	if !f.tagsSince.Equal(f.mid) {
		t.Fatalf("tag window starts %v", f.tagsSince)
	}

	f.recent = 141
	f.tags = []domain.TagCount{{Tag: "support", Count: 3}}
	got, err = s.Trends(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	if len(got) != 2 || got[0].Type != trend.TypeSpike || got[1].Type != trend.TypeKeywordTrend {
		t.Fatalf("trends = %+v", got)
	}
	kit.MustContain(t, got[0].Message, "41%")
}

func TestOwnershipChecked(t *testing.T) {
	s := newSvc(&fakeRepo{})
	ctx := context.Background()
	_, err1 := s.Summary(ctx, "u2", 1)
	_, err2 := s.Trends(ctx, "u2", 1)
	_, err3 := s.Suggestions(ctx, "u2", 1)
	for i, err := range []error{err1, err2, err3} {
		if perr.HTTPStatus(err) != http.StatusNotFound {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}
