package actor

import (
	"errors"
	"fmt"
	"time"

	"pisignage2mqtt/internal/config"
	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/core/events"
	"pisignage2mqtt/internal/util/actorutil"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// HADiscoveryActor publishes the Home Assistant MQTT discovery config for the
// bridge and every player, and republishes it when the playlist set changes.
type HADiscoveryActor struct {
	config              *config.Config
	behavior            actor.Behavior
	stash               *actorutil.Stash
	signageActor        *actor.PID
	mqttActor           *actor.PID
	signageActorHealthy bool
	mqttActorHealthy    bool
	healthyRecv         int

	players       []pisignage.Player
	playlists     []pisignage.Playlist
	playersRecv   bool
	playlistsRecv bool

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, signageActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:       config,
		signageActor: signageActor,
		mqttActor:    mqttActor,
		behavior:     actor.NewBehavior(),
		stash:        &actorutil.Stash{},
		logger:       actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check Signage and MQTT actor healthy
		state.healthyRecv = 0
		state.signageActorHealthy = false
		state.mqttActorHealthy = false
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.signageActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_SIGNAGE,
				Healthy: false,
			}
		})
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_SIGNAGE:
				state.signageActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {
			if state.signageActorHealthy && state.mqttActorHealthy {
				state.requestEntities(ctx)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or Signage Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) requestEntities(ctx actor.Context) {
	state.players = nil
	state.playlists = nil
	state.playersRecv = false
	state.playlistsRecv = false
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.signageActor, domain.GetPlayersRequest{}, 20*time.Second), func(err error) any {
		return domain.GetPlayersResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.signageActor, domain.GetPlaylistsRequest{}, 20*time.Second), func(err error) any {
		return domain.GetPlaylistsResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
	state.behavior.Become(state.WaitingEntitiesReceive)
}

func (state *HADiscoveryActor) WaitingEntitiesReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetPlayersResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@entities: GetPlayersResponse", zap.Int("players", len(msg.Players)))
		state.players = msg.Players
		state.playersRecv = true
		state.maybePublish(ctx)
	case domain.GetPlaylistsResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@entities: GetPlaylistsResponse", zap.Int("playlists", len(msg.Playlists)))
		state.playlists = msg.Playlists
		state.playlistsRecv = true
		state.maybePublish(ctx)
	default:
		state.logger.Debug("hadiscovery@entities: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) maybePublish(ctx actor.Context) {
	if !state.playersRecv || !state.playlistsRecv {
		return
	}

	var sensors []domain.GenericSensor
	var switches []domain.GenericSwitch
	var selects []domain.GenericSelect
	var buttons []domain.GenericButton

	bridgeDevice := events.BridgeDevice(state.config.MQTT.BaseTopic)
	sensors = append(sensors, events.BridgeSensors(bridgeDevice)...)

	for _, player := range state.players {
		playerDevice := events.PlayerDevice(player)
		playerDevice.ViaDevice = bridgeDevice.Id
		playerSensors := events.PlayerSensors(playerDevice, player)
		for i := range playerSensors {
			if i > 0 {
				playerSensors[i].Device = events.IdDevice(playerDevice)
			}
			sensors = append(sensors, playerSensors[i])
		}
		idDevice := events.IdDevice(playerDevice)
		for _, sw := range events.PlayerSwitches(idDevice, player) {
			switches = append(switches, sw)
		}
		for _, sel := range events.PlayerSelects(idDevice, player, state.playlists) {
			selects = append(selects, sel)
		}
		for _, btn := range events.PlayerButtons(idDevice, player) {
			buttons = append(buttons, btn)
		}
	}

	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors:  sensors,
		Switches: switches,
		Selects:  selects,
		Buttons:  buttons,
	})
	state.behavior.Become(state.Done)
	state.stash.UnstashAll(ctx)
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.PlaylistsChangedEvent:
		state.logger.Debug("hadiscovery@done: playlists changed, refreshing", zap.Int("playlists", len(msg.Playlists)))
		state.requestEntities(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_HA_DISCOVERY,
			Healthy: true,
			State:   "done",
		})
	default:
		state.logger.Debug("hadiscovery@done: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}
