package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "pisignage2mqtt/internal/adapter/actor"
	"pisignage2mqtt/internal/config"
	"pisignage2mqtt/internal/core/domain"
	. "pisignage2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type SignageActorProvider func() *adactor.SignageActor

// MasterOfPuppetsActor owns the actor tree: the signage API actor, the MQTT
// actor, the player poller, the automation runner and entity discovery. It
// routes parsed MQTT commands to the signage actor and aggregates health.
type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck   healthCheckResult
	eventStream          *eventstream.EventStream
	signageActor         *actor.PID
	mqttActor            *actor.PID
	playerFlowActor      *actor.PID
	automationActor      *actor.PID
	haDiscoveryActor     *actor.PID
	signageActorProvider SignageActorProvider
	mqttActorProvider    MQTTActorProvider
	logger               *zap.Logger
}

type healthCheckResult struct {
	signageActorHealthy    bool
	mqttActorHealthy       bool
	playerFlowActorHealthy bool
	checksReceived         int
	respondTo              *actor.PID
}

func NewMasterOfPuppetsActor(config config.Config, signageActorProvider SignageActorProvider, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:               config,
		behavior:             actor.NewBehavior(),
		stash:                &Stash{},
		logger:               ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:          &eventstream.EventStream{},
		signageActorProvider: signageActorProvider,
		mqttActorProvider:    mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck = healthCheckResult{}
		state.currentHealthCheck.reset()

		// start Signage child
		signageActorPID, err := state.startSignageActor(ctx)
		if err != nil {
			panic(err)
		}
		state.signageActor = signageActorPID

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start PlayerFlow child
		playerFlowActorPID, err := state.startPlayerFlowActor(ctx)
		if err != nil {
			panic(err)
		}
		state.playerFlowActor = playerFlowActorPID

		// start Automation child
		automationActorPID, err := state.startAutomationActor(ctx)
		if err != nil {
			panic(err)
		}
		state.automationActor = automationActorPID

		// start HA Discovery
		if state.config.MQTT.HADiscoveryEnable {
			haDiscoveryPID, err := state.startHADiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
			state.haDiscoveryActor = haDiscoveryPID
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset()
		state.currentHealthCheck.respondTo = ctx.Sender()
		// Signage Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.signageActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_SIGNAGE,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		// PlayerFlow Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.playerFlowActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_PLAYERFLOW,
				Healthy: false,
			}
		})

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case domain.GetCachedPlayersRequest:
		// forward to the poller, responses go straight back to the caller
		ctx.RequestWithCustomSender(state.playerFlowActor, msg, ctx.Sender())
	case domain.TriggerAutomationRequest:
		ctx.RequestWithCustomSender(state.automationActor, msg, ctx.Sender())
	case domain.ListAutomationsRequest:
		ctx.RequestWithCustomSender(state.automationActor, msg, ctx.Sender())
	case domain.SelectPlaylistRequest:
		ctx.RequestWithCustomSender(state.signageActor, msg, ctx.Sender())
	case domain.SetTVPowerRequest:
		ctx.RequestWithCustomSender(state.signageActor, msg, ctx.Sender())
	case domain.PlayOnceRequest:
		ctx.RequestWithCustomSender(state.signageActor, msg, ctx.Sender())
	case domain.PlaylistsChangedEvent:
		state.logger.Debug("master@default playlists changed")
		if state.haDiscoveryActor != nil {
			ctx.Send(state.haDiscoveryActor, msg)
		}
	case adactor.ParsedCommand:
		// redirect parsedCommand to actor
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			cmd, err := ParsedMQTTCommandToCommand(*msg.Command)
			if err == nil && cmd != nil {
				switch pcmd := cmd.(type) {
				case domain.TVPowerCommand:
					ctx.Send(state.signageActor, domain.SetTVPowerRequest{
						PlayerID: pcmd.PlayerID,
						On:       pcmd.On,
					})
				case domain.PlaylistSelectCommand:
					ctx.Send(state.signageActor, domain.SelectPlaylistRequest{
						PlayerID: pcmd.PlayerID,
						Playlist: pcmd.Playlist,
					})
				case domain.TransportCommand:
					ctx.Send(state.signageActor, domain.MediaControlRequest{
						PlayerID: pcmd.PlayerID,
						Action:   pcmd.Action,
					})
				}
			}
		}
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_SIGNAGE) {
			state.logger.Error("master@default signage error")
			panic(errors.New("signage terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			if msg.Id == domain.ACTOR_ID_SIGNAGE {
				state.currentHealthCheck.signageActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_MQTT {
				state.currentHealthCheck.mqttActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_PLAYERFLOW {
				state.currentHealthCheck.playerFlowActorHealthy = true
			}
		}
		if state.currentHealthCheck.allReceived() {

			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) startSignageActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	signageProps := actor.PropsFromProducer(func() actor.Actor {
		return state.signageActorProvider()
	}, actor.WithSupervisor(supervisor))
	signageActorPID, err := ctx.SpawnNamed(signageProps, domain.ACTOR_ID_SIGNAGE)
	if err != nil {
		return nil, err
	}

	return signageActorPID, nil
}

func (state *MasterOfPuppetsActor) startPlayerFlowActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewAllForOneStrategy(1, 10*time.Second, decider)

	playerFlowProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPlayerFlowActor(&state.config, state.signageActor, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	playerFlowActorPID, err := ctx.SpawnNamed(playerFlowProps, domain.ACTOR_ID_PLAYERFLOW)
	if err != nil {
		return nil, err
	}

	return playerFlowActorPID, nil
}

func (state *MasterOfPuppetsActor) startAutomationActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	automationProps := actor.PropsFromProducer(func() actor.Actor {
		return NewAutomationActor(&state.config, state.signageActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	automationPID, err := ctx.SpawnNamed(automationProps, domain.ACTOR_ID_AUTOMATION)
	if err != nil {
		return nil, err
	}

	return automationPID, nil
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.signageActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	haDiscPID, err := ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
	if err != nil {
		return nil, err
	}

	return haDiscPID, nil
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *healthCheckResult) reset() {
	state.signageActorHealthy = false
	state.mqttActorHealthy = false
	state.playerFlowActorHealthy = false
	state.checksReceived = 0
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == 3
}

func (state *healthCheckResult) allHealthy() bool {
	return state.signageActorHealthy && state.mqttActorHealthy && state.playerFlowActorHealthy
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
