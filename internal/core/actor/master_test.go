package actor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	adactor "pisignage2mqtt/internal/adapter/actor"
	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/util"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func spawnTestMaster(t *testing.T, blueprintsDir string) (*actor.ActorSystem, *actor.RootContext, *actor.PID) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.AutomationConfig.BlueprintsDir = blueprintsDir
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.SignageActor {
			return adactor.NewSignageActor(pisignage.NewTestAPI(), "", logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}

	return as, context, pid
}

func TestMasterActorHealth(t *testing.T) {

	as, context, pid := spawnTestMaster(t, t.TempDir())

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorCachedPlayers(t *testing.T) {

	as, context, pid := spawnTestMaster(t, t.TempDir())

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.GetCachedPlayersRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	playersResp, ok := res.(domain.GetCachedPlayersResponse)
	assert.True(t, ok)
	assert.True(t, playersResp.Available, "poller available")
	assert.Len(t, playersResp.Players, 2)

	byId := make(map[string]domain.PlayerSnapshot)
	for _, snapshot := range playersResp.Players {
		byId[snapshot.Player.ID] = snapshot
	}
	assert.Equal(t, domain.PLAYER_STATE_PLAYING, byId["pl1"].State)
	assert.Equal(t, domain.PLAYER_STATE_STANDBY, byId["pl2"].State)

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorPollerKeepsSnapshotsOnFailure(t *testing.T) {

	api := pisignage.NewTestAPI()

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.AutomationConfig.BlueprintsDir = t.TempDir()
	cfg.MonitorConfig.PollIntervalMillis = 1000
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.SignageActor {
			return adactor.NewSignageActor(api, "", logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.GetCachedPlayersRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	playersResp, ok := res.(domain.GetCachedPlayersResponse)
	assert.True(t, ok)
	assert.True(t, playersResp.Available, "poller available before the outage")
	assert.Len(t, playersResp.Players, 2)

	api.SetFailReads(true)

	time.Sleep(2500 * time.Millisecond)

	res, err = context.RequestFuture(pid, domain.GetCachedPlayersRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	playersResp, ok = res.(domain.GetCachedPlayersResponse)
	assert.True(t, ok)
	assert.False(t, playersResp.Available, "poller unavailable during the outage")
	assert.Len(t, playersResp.Players, 2, "snapshots survive the outage")
	for _, snapshot := range playersResp.Players {
		assert.False(t, snapshot.Available)
	}

	byId := make(map[string]domain.PlayerSnapshot)
	for _, snapshot := range playersResp.Players {
		byId[snapshot.Player.ID] = snapshot
	}
	assert.Equal(t, domain.PLAYER_STATE_PLAYING, byId["pl1"].State, "last known state is kept")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorTriggerAutomation(t *testing.T) {

	dir := t.TempDir()
	blueprint := `action: power_off
players: ["pl1"]
schedule:
  time: "03:00"
`
	if err := os.WriteFile(filepath.Join(dir, "close_shop.yaml"), []byte(blueprint), 0644); err != nil {
		t.Fatal(err)
	}

	as, context, pid := spawnTestMaster(t, dir)

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ListAutomationsRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	listResp, ok := res.(domain.ListAutomationsResponse)
	assert.True(t, ok)
	assert.Equal(t, []string{"close_shop"}, listResp.Names)

	res, err = context.RequestFuture(pid, domain.TriggerAutomationRequest{Name: "close_shop"}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	triggerResp, ok := res.(domain.TriggerAutomationResponse)
	assert.True(t, ok)
	assert.False(t, triggerResp.HasResponseError())

	res, err = context.RequestFuture(pid, domain.TriggerAutomationRequest{Name: "open_shop"}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	triggerResp, ok = res.(domain.TriggerAutomationResponse)
	assert.True(t, ok)
	assert.True(t, triggerResp.HasResponseError(), "unknown automation error")

	context.Stop(pid)

	as.Shutdown()
}
