package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakePoolStat struct {
	acquired, idle, total int32
	empty                 int64
}

func (f fakePoolStat) AcquiredConns() int32     { return f.acquired }
func (f fakePoolStat) IdleConns() int32         { return f.idle }
func (f fakePoolStat) TotalConns() int32        { return f.total }
func (f fakePoolStat) EmptyAcquireCount() int64 { return f.empty }

func TestUpdateDBPoolMetrics(t *testing.T) {
	before := testutil.ToFloat64(DBPoolEmptyAcquires)

	UpdateDBPoolMetrics(fakePoolStat{acquired: 3, idle: 7, total: 10, empty: int64(before) + 4})

	if got := testutil.ToFloat64(DBPoolConnsAcquired); got != 3 {
		t.Errorf("acquired = %v, want 3", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsIdle); got != 7 {
		t.Errorf("idle = %v, want 7", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 10 {
		t.Errorf("open = %v, want 10", got)
	}
	if got := testutil.ToFloat64(DBPoolEmptyAcquires); got != before+4 {
		t.Errorf("empty acquires = %v, want %v", got, before+4)
	}

	// Re-reporting the same cumulative count must not double count.
	UpdateDBPoolMetrics(fakePoolStat{empty: int64(before) + 4})
	if got := testutil.ToFloat64(DBPoolEmptyAcquires); got != before+4 {
		t.Errorf("empty acquires after repeat = %v, want %v", got, before+4)
	}
}

func TestUpdateDBPoolMetrics_IgnoresUnknown(t *testing.T) {
	// Must not panic on arbitrary input.
	UpdateDBPoolMetrics(struct{}{})
	UpdateDBPoolMetrics(nil)
}
