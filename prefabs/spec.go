package prefabs

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// CharacterSpec is the tuning of one playable character.
type CharacterSpec struct {
	Name           string  `yaml:"name"`
	InitialState   string  `yaml:"initial_state"`
	MoveSpeed      float64 `yaml:"move_speed"`
	JumpSpeed      float64 `yaml:"jump_speed"`
	AttackFrames   int     `yaml:"attack_frames"`
	InvulnFrames   int     `yaml:"invuln_frames"`
	HurtStunFrames int     `yaml:"hurt_stun_frames"`
	Health         int     `yaml:"health"`
	// SpeedMultipliers is keyed by state name.
	SpeedMultipliers map[string]float64 `yaml:"speed_multipliers"`
	Machine          MachineSpec        `yaml:"machine"`
	Transform        TransformSpec      `yaml:"transform"`
	Collider         ColliderSpec       `yaml:"collider"`
	Skills           []SkillSpec        `yaml:"skills"`
}

type MachineSpec struct {
	EvalIntervalMS  int     `yaml:"eval_interval_ms"`
	MoveDeadzone    float64 `yaml:"move_deadzone"`
	HistoryCapacity int     `yaml:"history_capacity"`
	Debug           bool    `yaml:"debug"`
}

func (m MachineSpec) EvalInterval() time.Duration {
	return time.Duration(m.EvalIntervalMS) * time.Millisecond
}

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ColliderSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type SkillSpec struct {
	Name           string `yaml:"name"`
	Script         string `yaml:"script"`
	CooldownFrames int    `yaml:"cooldown_frames"`
	MaxFrames      int    `yaml:"max_frames"`
}

// ArenaSpec lays out the static platforms of the sandbox.
type ArenaSpec struct {
	Width     float64        `yaml:"width"`
	Height    float64        `yaml:"height"`
	Platforms []PlatformSpec `yaml:"platforms"`
}

type PlatformSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func LoadCharacterSpec(name string) (CharacterSpec, error) {
	return LoadSpec[CharacterSpec](name)
}

func LoadArenaSpec(name string) (ArenaSpec, error) {
	return LoadSpec[ArenaSpec](name)
}
