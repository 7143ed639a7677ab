package serviceImp

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"agrovision/entities"
	"agrovision/pkg/report/service"
)

// Schedules maps each report period to its cron spec.
var Schedules = []struct {
	Period entities.ReportPeriod
	Spec   string
}{
	{entities.PeriodDaily, "0 6 * * *"},
	{entities.PeriodWeekly, "0 8 * * 1"},
	{entities.PeriodMonthly, "0 9 1 * *"},
}

const jobTimeout = 2 * time.Minute

// NewScheduler registers one job per report period. The caller starts and
// stops the returned cron.
func NewScheduler(s service.ReportService, loc *time.Location, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{log})))
	for _, sc := range Schedules {
		period := sc.Period
		if _, err := c.AddFunc(sc.Spec, func() { run(s, period, log) }); err != nil {
			return nil, fmt.Errorf("schedule %s report: %w", period, err)
		}
	}
	return c, nil
}

func run(s service.ReportService, period entities.ReportPeriod, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.Generate(ctx, period); err != nil {
		log.Error().Err(err).Str("periodo", string(period)).Msg("report job failed")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, kv ...any) {
	l.log.Debug().Fields(kv).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Error().Err(err).Fields(kv).Msg(msg)
}
