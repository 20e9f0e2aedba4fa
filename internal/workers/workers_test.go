package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"projecthub/internal/platform/metrics"
	"projecthub/internal/platform/repositories"
)

type fakeInvites struct {
	counts repositories.InviteCounts
	err    error
}

func (f fakeInvites) Stats(context.Context) (repositories.InviteCounts, error) {
	return f.counts, f.err
}

type fakeOrgs struct {
	n   int
	err error
}

func (f fakeOrgs) CountActive(context.Context) (int, error) {
	return f.n, f.err
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestRunOncePublishesGauges(t *testing.T) {
	s := NewSweeper(
		fakeInvites{counts: repositories.InviteCounts{Issued: 3, Used: 2, Expired: 1}},
		fakeOrgs{n: 4},
	)

	require.NoError(t, s.RunOnce(context.Background()))

	require.Equal(t, 3.0, gaugeValue(t, metrics.InviteLedger.WithLabelValues("issued")))
	require.Equal(t, 2.0, gaugeValue(t, metrics.InviteLedger.WithLabelValues("used")))
	require.Equal(t, 1.0, gaugeValue(t, metrics.InviteLedger.WithLabelValues("expired")))
	require.Equal(t, 4.0, gaugeValue(t, metrics.ActiveOrganizations))
}

func TestRunOnceCollectsErrors(t *testing.T) {
	s := NewSweeper(
		fakeInvites{err: errors.New("invites down")},
		fakeOrgs{err: errors.New("orgs down")},
	)

	err := s.RunOnce(context.Background())
	require.ErrorContains(t, err, "invites down")
	require.ErrorContains(t, err, "orgs down")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(fakeInvites{}, fakeOrgs{},
		WithSchedule("not a schedule"),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)
	require.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewSweeper(fakeInvites{}, fakeOrgs{}, WithSchedule("@every 1h"))
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
