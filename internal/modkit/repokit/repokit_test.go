package repokit

import (
	"context"
	"errors"
	"testing"

	"datapulse/internal/platform/store"
	kit "datapulse/internal/platform/testkit"
)

type fakeQ struct {
	txCalls int
	pingErr error
}

func (f *fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (f *fakeQ) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	f.txCalls++
	return fn(f)
}
func (f *fakeQ) Ping(context.Context) error { return f.pingErr }

type repo struct{ q Queryer }

func TestBindFuncAndMustBind(t *testing.T) {
	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })
	q := &fakeQ{}
	if got := MustBind[repo](b, q); got.q != q {
		t.Fatalf("bound queryer mismatch")
	}
	kit.MustPanic(t, func() { _ = MustBind[repo](b, nil) })
}

func TestWithTx(t *testing.T) {
	q := &fakeQ{}
	sentinel := errors.New("rollback")
	if err := WithTx(context.Background(), q, func(Queryer) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}
	if q.txCalls != 1 {
		t.Fatalf("tx calls = %d", q.txCalls)
	}
}

func TestMustPing(t *testing.T) {
	MustPing(context.Background(), "pg", &fakeQ{})
	kit.MustPanic(t, func() { MustPing(context.Background(), "pg", &fakeQ{pingErr: errors.New("down")}) })
	kit.MustPanic(t, func() { MustPing(context.Background(), "pg", nil) })
}
