package actor

import (
	"fmt"
	"time"

	"pisignage2mqtt/internal/config"
	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/core/events"
	. "pisignage2mqtt/internal/util/actorutil"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// PlayerFlowActor polls the signage server and keeps the last known player
// snapshots. A failed refresh keeps the snapshots and only flips availability,
// so entity state survives server hiccups.
type PlayerFlowActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	signageActor *actor.PID
	config       *config.Config
	eventStream  *eventstream.EventStream

	snapshots         []domain.PlayerSnapshot
	available         bool
	playlistNames     []string
	currentTicksCount uint
	refreshTicks      uint

	logger *zap.Logger
}

type playerFlowTick struct {
}

func NewPlayerFlowActor(config *config.Config, signageActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *PlayerFlowActor {
	refreshTicks := config.MonitorConfig.PlaylistRefreshTicks
	if refreshTicks == 0 {
		refreshTicks = 10
	}
	act := &PlayerFlowActor{
		config:       config,
		signageActor: signageActor,
		behavior:     actor.NewBehavior(),
		stash:        &Stash{},
		logger:       ActorLogger(domain.ACTOR_ID_PLAYERFLOW, logger),
		eventStream:  eventStream,
		refreshTicks: refreshTicks,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PlayerFlowActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PlayerFlowActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("playerflow@starting started")

		if state.config.MonitorConfig.PollIntervalMillis > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
		}
		state.currentTicksCount = state.refreshTicks

		state.behavior.Become(state.DefaultReceive)
		ctx.Send(ctx.Self(), playerFlowTick{})
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("playerflow@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PlayerFlowActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("playerflow@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_PLAYERFLOW,
			Healthy: true,
			State:   state.healthState(),
		})
	case domain.GetCachedPlayersRequest:
		state.logger.Debug("playerflow@default: GetCachedPlayersRequest")
		ForRequest(msg).Respond(ctx, domain.GetCachedPlayersResponse{
			Players:   state.snapshots,
			Available: state.available,
		})
	case playerFlowTick:
		state.logger.Debug("playerflow@default tick")
		// get players
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.signageActor, domain.GetPlayersRequest{}, 20*time.Second), func(err error) any {
			return domain.GetPlayersResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		// refresh playlist set every Nth tick
		if state.currentTicksCount >= state.refreshTicks {
			state.currentTicksCount = 0
			PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.signageActor, domain.GetPlaylistsRequest{}, 20*time.Second), func(err error) any {
				return domain.GetPlaylistsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				}
			})
		} else {
			state.currentTicksCount++
		}

		// schedule next tick
		if state.scheduler != nil {
			state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), playerFlowTick{})
		}
		state.behavior.BecomeStacked(state.WaitingPlayersReceive)
	case domain.GetPlaylistsResponse:
		state.logger.Debug("playerflow@default GetPlaylistsResponse")
		if !msg.HasResponseError() {
			names := make([]string, 0, len(msg.Playlists))
			for _, pl := range msg.Playlists {
				names = append(names, pl.Name)
			}
			if !sameStringSet(state.playlistNames, names) {
				state.playlistNames = names
				ctx.Send(ctx.Parent(), domain.PlaylistsChangedEvent{Playlists: names})
			}
		}
	default:
		state.logger.Debug("playerflow@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PlayerFlowActor) WaitingPlayersReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetPlayersResponse:
		if msg.HasResponseError() {
			state.logger.Error("playerflow@waiting GetPlayersResponse error", zap.Error(msg.GetResponseError()))
			state.markUnavailable()
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("playerflow@waiting GetPlayersResponse", zap.Int("players", len(msg.Players)))
		state.refreshSnapshots(msg.Players)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("playerflow@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PlayerFlowActor) refreshSnapshots(players []pisignage.Player) {
	snapshots := make([]domain.PlayerSnapshot, 0, len(players))
	for _, p := range players {
		snapshot := domain.PlayerSnapshot{
			Player:    p,
			State:     domain.DerivePlayerState(p),
			Available: true,
		}
		snapshots = append(snapshots, snapshot)
		for _, ev := range events.PlayerSnapshotToUpdateEvents(snapshot) {
			state.eventStream.Publish(ev)
		}
	}
	state.snapshots = snapshots
	state.available = true
}

func (state *PlayerFlowActor) markUnavailable() {
	if !state.available && allUnavailable(state.snapshots) {
		return
	}
	state.available = false
	ids := make([]string, 0, len(state.snapshots))
	for i := range state.snapshots {
		state.snapshots[i].Available = false
		ids = append(ids, state.snapshots[i].Player.ID)
	}
	for _, ev := range events.PlayersUnavailableEvents(ids) {
		state.eventStream.Publish(ev)
	}
}

func (state *PlayerFlowActor) healthState() string {
	if state.available {
		return "polling"
	}
	return "unavailable"
}

func allUnavailable(snapshots []domain.PlayerSnapshot) bool {
	for i := range snapshots {
		if snapshots[i].Available {
			return false
		}
	}
	return true
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
