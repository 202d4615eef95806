package actor

import (
	"context"
	"fmt"

	"pisignage2mqtt/internal/config"
	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/core/service"
	"pisignage2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// AutomationActor loads blueprint files, registers their schedules as quartz
// cron jobs and executes actions by messaging the signage actor. Every loaded
// automation can also be fired manually.
type AutomationActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash

	config       *config.Config
	signageActor *actor.PID
	blueprints   map[string]service.Blueprint
	pairing      *service.DefaultPairingLogic
	scheduler    quartz.Scheduler
	cancelSched  context.CancelFunc

	logger *zap.Logger
}

type automationFire struct {
	name string
}

func NewAutomationActor(config *config.Config, signageActor *actor.PID, logger *zap.Logger) *AutomationActor {
	act := &AutomationActor{
		config:       config,
		signageActor: signageActor,
		behavior:     actor.NewBehavior(),
		stash:        &actorutil.Stash{},
		pairing:      &service.DefaultPairingLogic{},
		logger:       actorutil.ActorLogger(domain.ACTOR_ID_AUTOMATION, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *AutomationActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *AutomationActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("automation@starting started")

		blueprints, err := service.LoadBlueprints(state.config.AutomationConfig.BlueprintsDir)
		if err != nil {
			panic(err)
		}
		state.blueprints = make(map[string]service.Blueprint, len(blueprints))
		for _, bp := range blueprints {
			state.blueprints[bp.Name] = bp
		}
		if err := state.startScheduler(ctx, blueprints); err != nil {
			panic(err)
		}
		state.logger.Info("automation: blueprints loaded", zap.Int("count", len(blueprints)))

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.stopScheduler()
	default:
		state.logger.Debug("automation@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *AutomationActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("automation@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_AUTOMATION,
			Healthy: true,
			State:   "idle",
		})
	case automationFire:
		state.logger.Info("automation: scheduled fire", zap.String("name", msg.name))
		if bp, ok := state.blueprints[msg.name]; ok {
			state.execute(ctx, bp)
		}
	case domain.TriggerAutomationRequest:
		state.logger.Info("automation: manual trigger", zap.String("name", msg.Name))
		bp, ok := state.blueprints[msg.Name]
		if !ok {
			actorutil.ForRequest(msg).Respond(ctx, domain.TriggerAutomationResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: fmt.Errorf("unknown automation %q", msg.Name),
				},
			})
			return
		}
		state.execute(ctx, bp)
		actorutil.ForRequest(msg).Respond(ctx, domain.TriggerAutomationResponse{})
	case domain.ListAutomationsRequest:
		names := make([]string, 0, len(state.blueprints))
		for name := range state.blueprints {
			names = append(names, name)
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.ListAutomationsResponse{Names: names})
	case *actor.Stopping:
		state.stopScheduler()
	case *actor.Restarting:
		state.stopScheduler()
	default:
		state.logger.Debug("automation@default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *AutomationActor) startScheduler(ctx actor.Context, blueprints []service.Blueprint) error {
	root := ctx.ActorSystem().Root
	self := ctx.Self()
	for _, bp := range blueprints {
		expr, ok := bp.CronExpression()
		if !ok {
			continue
		}
		if state.scheduler == nil {
			state.scheduler = quartz.NewStdScheduler()
			schedCtx, cancel := context.WithCancel(context.Background())
			state.cancelSched = cancel
			state.scheduler.Start(schedCtx)
		}
		trigger, err := quartz.NewCronTrigger(expr)
		if err != nil {
			return fmt.Errorf("automation %s: %w", bp.Name, err)
		}
		name := bp.Name
		fireJob := job.NewFunctionJob(func(_ context.Context) (int, error) {
			// jobs run off the actor goroutine, route through the root context
			root.Send(self, automationFire{name: name})
			return 0, nil
		})
		err = state.scheduler.ScheduleJob(quartz.NewJobDetail(fireJob, quartz.NewJobKey(name)), trigger)
		if err != nil {
			return fmt.Errorf("automation %s: %w", bp.Name, err)
		}
		state.logger.Info("automation: scheduled", zap.String("name", name), zap.String("cron", expr))
	}
	return nil
}

func (state *AutomationActor) stopScheduler() {
	if state.scheduler != nil {
		state.scheduler.Stop()
		state.scheduler = nil
	}
	if state.cancelSched != nil {
		state.cancelSched()
		state.cancelSched = nil
	}
}

func (state *AutomationActor) execute(ctx actor.Context, bp service.Blueprint) {
	assignments := bp.Assignments(state.pairing)
	if len(assignments) == 0 {
		state.logger.Warn("automation: nothing to do", zap.String("name", bp.Name))
		return
	}
	for _, assignment := range assignments {
		switch bp.Action {
		case service.ACTION_POWER_ON:
			ctx.Send(state.signageActor, domain.SetTVPowerRequest{
				PlayerID: assignment.PlayerID,
				On:       true,
			})
		case service.ACTION_POWER_OFF:
			ctx.Send(state.signageActor, domain.SetTVPowerRequest{
				PlayerID: assignment.PlayerID,
				On:       false,
			})
		case service.ACTION_PLAYLIST_CHANGE:
			ctx.Send(state.signageActor, domain.SelectPlaylistRequest{
				PlayerID: assignment.PlayerID,
				Playlist: assignment.Playlist,
			})
		}
	}
}
