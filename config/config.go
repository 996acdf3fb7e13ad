// Package config loads collision matrices, rule sets and orbital
// element tables from YAML, the same data-driven pattern gazed-vu uses
// for its star catalog (vu/load/shd.go, vu/eg/is.go): host data lives in
// a plain YAML document instead of being wired up in Go source, and a
// small struct tagged with `yaml:` fields describes its shape.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kestrel-sim/spacesim/layermatrix"
	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
	"github.com/kestrel-sim/spacesim/sim"
)

func vec3(v [3]float64) lin.Vec3 { return lin.Vec3{X: v[0], Y: v[1], Z: v[2]} }

// LayerPair is one (x, y) entry toggled on in a layer matrix document.
type LayerPair struct {
	X uint32 `yaml:"x"`
	Y uint32 `yaml:"y"`
}

// LayerMatrixDoc is the YAML shape of a collision layer matrix: the
// list of layer pairs allowed to collide. Pairs not listed default to
// not colliding.
type LayerMatrixDoc struct {
	Pairs []LayerPair `yaml:"pairs"`
}

// LoadLayerMatrix parses data as a LayerMatrixDoc and builds the
// corresponding layermatrix.Matrix.
func LoadLayerMatrix(data []byte) (*layermatrix.Matrix, error) {
	var doc LayerMatrixDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing layer matrix: %w", err)
	}
	m := layermatrix.New()
	for _, p := range doc.Pairs {
		if err := m.Set(p.X, p.Y, true); err != nil {
			return nil, fmt.Errorf("config: layer pair (%d,%d): %w", p.X, p.Y, err)
		}
	}
	return m, nil
}

// ActionDoc is the YAML shape of one rule Action.
type ActionDoc struct {
	Kind string `yaml:"kind"` // bounce | apply_damage | destroy | stick | trigger_event

	MinSpeed          float64 `yaml:"min_speed"`
	MaxSpeed          float64 `yaml:"max_speed"`
	MinImpactorEnergy float64 `yaml:"min_impactor_energy"`
	MaxImpactorEnergy float64 `yaml:"max_impactor_energy"`

	Elasticity float64 `yaml:"elasticity"`

	DamageConstant           int32   `yaml:"damage_constant"`
	DamageFromImpactorEnergy float64 `yaml:"damage_from_impactor_energy"`
}

// RuleDoc is the YAML shape of one directional layer-pair rule entry.
type RuleDoc struct {
	LayerA  uint32      `yaml:"layer_a"`
	LayerB  uint32      `yaml:"layer_b"`
	Actions []ActionDoc `yaml:"actions"`
}

// RuleSetDoc is the YAML shape of a full rule set document.
type RuleSetDoc struct {
	Rules []RuleDoc `yaml:"rules"`
}

func actionKindFromString(s string) (sim.ActionKind, error) {
	switch s {
	case "bounce":
		return sim.ActionBounce, nil
	case "apply_damage":
		return sim.ActionApplyDamage, nil
	case "destroy":
		return sim.ActionDestroy, nil
	case "stick":
		return sim.ActionStick, nil
	case "trigger_event":
		return sim.ActionTriggerEvent, nil
	default:
		return 0, fmt.Errorf("config: unknown action kind %q", s)
	}
}

// LoadRuleSet parses data as a RuleSetDoc and builds the corresponding
// sim.RuleSet.
func LoadRuleSet(data []byte) (*sim.RuleSet, error) {
	var doc RuleSetDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing rule set: %w", err)
	}
	rules := sim.NewRuleSet()
	for _, r := range doc.Rules {
		pair := sim.LayerPair{A: r.LayerA, B: r.LayerB}
		for _, a := range r.Actions {
			kind, err := actionKindFromString(a.Kind)
			if err != nil {
				return nil, err
			}
			rules.Add(pair, sim.Action{
				Kind:              kind,
				MinSpeed:          a.MinSpeed,
				MaxSpeed:          a.MaxSpeed,
				MinImpactorEnergy: a.MinImpactorEnergy,
				MaxImpactorEnergy: a.MaxImpactorEnergy,
				Bounce:            sim.BounceParams{Elasticity: a.Elasticity},
				ApplyDamage: sim.ApplyDamageParams{
					Constant:           a.DamageConstant,
					FromImpactorEnergy: a.DamageFromImpactorEnergy,
				},
			})
		}
	}
	return rules, nil
}

// KeplerDoc is the YAML shape of one body's orbital element set, mirroring
// gazed-vu's bright-star catalog (vu/load/shd.go loadBrightStars): one
// entity's initial elements plus the per-second deltas that advance them.
type KeplerDoc struct {
	ID scene.Entity `yaml:"id"`

	Focus [3]float64 `yaml:"focus"`

	SemiMajorAxis               float64 `yaml:"semi_major_axis"`
	Eccentricity                float64 `yaml:"eccentricity"`
	MeanLongitudeDeg            float64 `yaml:"mean_longitude_deg"`
	LongitudeOfPerihelionDeg    float64 `yaml:"longitude_of_perihelion_deg"`
	LongitudeOfAscendingNodeDeg float64 `yaml:"longitude_of_ascending_node_deg"`
	InclinationDeg              float64 `yaml:"inclination_deg"`

	DeltaSemiMajorAxis               float64 `yaml:"delta_semi_major_axis"`
	DeltaEccentricity                float64 `yaml:"delta_eccentricity"`
	DeltaMeanLongitudeDeg            float64 `yaml:"delta_mean_longitude_deg"`
	DeltaLongitudeOfPerihelionDeg    float64 `yaml:"delta_longitude_of_perihelion_deg"`
	DeltaLongitudeOfAscendingNodeDeg float64 `yaml:"delta_longitude_of_ascending_node_deg"`
	DeltaInclinationDeg              float64 `yaml:"delta_inclination_deg"`
}

// OrbitTableDoc is the YAML shape of a table of orbital bodies.
type OrbitTableDoc struct {
	Bodies []KeplerDoc `yaml:"bodies"`
}

// LoadOrbitTable parses data as an OrbitTableDoc and returns the
// corresponding scene.Orbit components, ready to be installed on a
// scene with Scene.SetOrbit.
func LoadOrbitTable(data []byte) ([]scene.Orbit, error) {
	var doc OrbitTableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing orbit table: %w", err)
	}
	orbits := make([]scene.Orbit, 0, len(doc.Bodies))
	for _, b := range doc.Bodies {
		orbits = append(orbits, scene.Orbit{
			ID:    b.ID,
			Focus: vec3(b.Focus),
			Epoch: scene.Kepler{
				SemiMajorAxis:               b.SemiMajorAxis,
				Eccentricity:                b.Eccentricity,
				MeanLongitudeDeg:            b.MeanLongitudeDeg,
				LongitudeOfPerihelionDeg:    b.LongitudeOfPerihelionDeg,
				LongitudeOfAscendingNodeDeg: b.LongitudeOfAscendingNodeDeg,
				InclinationDeg:              b.InclinationDeg,
			},
			Delta: scene.Kepler{
				SemiMajorAxis:               b.DeltaSemiMajorAxis,
				Eccentricity:                b.DeltaEccentricity,
				MeanLongitudeDeg:            b.DeltaMeanLongitudeDeg,
				LongitudeOfPerihelionDeg:    b.DeltaLongitudeOfPerihelionDeg,
				LongitudeOfAscendingNodeDeg: b.DeltaLongitudeOfAscendingNodeDeg,
				InclinationDeg:              b.DeltaInclinationDeg,
			},
		})
	}
	return orbits, nil
}
