package api

import (
	"context"

	"github.com/yourname/sleeprelay/internal"
	"github.com/yourname/sleeprelay/internal/service"
)

// Relay is the service behind the handlers; *service.Relay implements it.
type Relay interface {
	RecordSleepStart(ctx context.Context) (*service.SleepResult, error)
	RecordWakeEvent(ctx context.Context) (*service.WakeResult, error)
	Events(ctx context.Context, limit int) ([]internal.RelayEvent, error)
}

type App interface {
	Logger() internal.Logger
	Relay() Relay
}

type app struct {
	logger internal.Logger
	relay  Relay
}

func NewApp(logger internal.Logger, relay Relay) App {
	return &app{logger: logger, relay: relay}
}

func (a *app) Logger() internal.Logger { return a.logger }
func (a *app) Relay() Relay            { return a.relay }
