package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/core/port"

	"gopkg.in/yaml.v3"
)

const (
	ACTION_POWER_ON        = "power_on"
	ACTION_POWER_OFF       = "power_off"
	ACTION_PLAYLIST_CHANGE = "playlist_change"

	MODE_SINGLE     = "single"
	MODE_PER_PLAYER = "per_player"
)

// Blueprint is one declarative automation: an action applied to a set of
// players, optionally gated by a time-of-day and day-of-week schedule. Every
// blueprint can also be fired manually.
type Blueprint struct {
	Name      string    `yaml:"name"`
	Action    string    `yaml:"action"`
	Players   []string  `yaml:"players"`
	Playlists []string  `yaml:"playlists,omitempty"`
	Mode      string    `yaml:"mode,omitempty"`
	Schedule  *Schedule `yaml:"schedule,omitempty"`
}

// Schedule gates an automation to a wall-clock time on a set of weekdays. An
// empty day list means every day.
type Schedule struct {
	Time string   `yaml:"time"`
	Days []string `yaml:"days,omitempty"`
}

var cronDays = map[string]string{
	"monday":    "MON",
	"tuesday":   "TUE",
	"wednesday": "WED",
	"thursday":  "THU",
	"friday":    "FRI",
	"saturday":  "SAT",
	"sunday":    "SUN",
}

func LoadBlueprint(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("blueprint %s: %w", path, err)
	}
	if bp.Name == "" {
		bp.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := bp.Validate(); err != nil {
		return nil, fmt.Errorf("blueprint %s: %w", path, err)
	}
	return &bp, nil
}

// LoadBlueprints reads every .yaml/.yml file in dir. A missing dir is not an
// error, it just means no automations.
func LoadBlueprints(dir string) ([]Blueprint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var blueprints []Blueprint
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		bp, err := LoadBlueprint(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, *bp)
	}
	return blueprints, nil
}

func (bp *Blueprint) Validate() error {
	switch bp.Action {
	case ACTION_POWER_ON, ACTION_POWER_OFF:
	case ACTION_PLAYLIST_CHANGE:
		switch bp.Mode {
		case "":
			bp.Mode = MODE_SINGLE
		case MODE_SINGLE, MODE_PER_PLAYER:
		default:
			return fmt.Errorf("unknown mode %q", bp.Mode)
		}
	default:
		return fmt.Errorf("unknown action %q", bp.Action)
	}
	if len(bp.Players) == 0 {
		return fmt.Errorf("no players selected")
	}
	if bp.Schedule != nil {
		if _, _, err := parseTimeOfDay(bp.Schedule.Time); err != nil {
			return err
		}
		for _, day := range bp.Schedule.Days {
			if _, ok := cronDays[strings.ToLower(day)]; !ok {
				return fmt.Errorf("unknown day %q", day)
			}
		}
	}
	return nil
}

// CronExpression compiles the schedule to a quartz cron line. Returns false
// when the blueprint has no schedule and only fires manually.
func (bp *Blueprint) CronExpression() (string, bool) {
	if bp.Schedule == nil {
		return "", false
	}
	hour, minute, err := parseTimeOfDay(bp.Schedule.Time)
	if err != nil {
		return "", false
	}
	days := "*"
	if len(bp.Schedule.Days) > 0 {
		parts := make([]string, 0, len(bp.Schedule.Days))
		for _, day := range bp.Schedule.Days {
			parts = append(parts, cronDays[strings.ToLower(day)])
		}
		days = strings.Join(parts, ",")
	}
	return fmt.Sprintf("0 %d %d ? * %s", minute, hour, days), true
}

// Assignments resolves the playlist each selected player gets when the
// automation fires. Power automations return one entry per player with an
// empty playlist.
func (bp *Blueprint) Assignments(logic port.AutomationPairingLogic) []domain.PlaylistAssignment {
	switch bp.Action {
	case ACTION_PLAYLIST_CHANGE:
		if bp.Mode == MODE_PER_PLAYER {
			return logic.PairPerPlayer(bp.Players, bp.Playlists)
		}
		playlist, ok := logic.ResolveSingle(bp.Playlists)
		if !ok {
			return nil
		}
		assignments := make([]domain.PlaylistAssignment, 0, len(bp.Players))
		for _, player := range bp.Players {
			assignments = append(assignments, domain.PlaylistAssignment{
				PlayerID: player,
				Playlist: playlist,
			})
		}
		return assignments
	default:
		assignments := make([]domain.PlaylistAssignment, 0, len(bp.Players))
		for _, player := range bp.Players {
			assignments = append(assignments, domain.PlaylistAssignment{
				PlayerID: player,
			})
		}
		return assignments
	}
}

func parseTimeOfDay(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

// DefaultPairingLogic implements the blueprint pairing rules: single mode
// uses the first non-empty playlist for everyone, per-player mode pairs by
// position and skips out-of-range or empty entries.
type DefaultPairingLogic struct {
}

func (l *DefaultPairingLogic) ResolveSingle(playlists []string) (string, bool) {
	for _, playlist := range playlists {
		if playlist != "" {
			return playlist, true
		}
	}
	return "", false
}

func (l *DefaultPairingLogic) PairPerPlayer(players []string, playlists []string) []domain.PlaylistAssignment {
	var assignments []domain.PlaylistAssignment
	for i, player := range players {
		if i >= len(playlists) || playlists[i] == "" {
			continue
		}
		assignments = append(assignments, domain.PlaylistAssignment{
			PlayerID: player,
			Playlist: playlists[i],
		})
	}
	return assignments
}

// ensure interface compliance
var _ port.AutomationPairingLogic = (*DefaultPairingLogic)(nil)
