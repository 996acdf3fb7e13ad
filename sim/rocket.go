package sim

import (
	"fmt"

	"github.com/kestrel-sim/spacesim/scene"
)

// applyRocketBurn converts a single RocketBurn event into the
// Acceleration it produces, debiting the tank's fuel and the entity's
// inertial mass in the process.
func applyRocketBurn(dt float64, event scene.Event, sc *scene.Scene) (scene.Event, error) {
	rocket, ok := sc.Rocket(event.ID)
	if !ok {
		return scene.Event{}, fmt.Errorf("rocket burn on entity %d: %w", event.ID, ErrNotFound)
	}
	tankNo := event.TankNo
	if tankNo < 0 || tankNo >= scene.MaxFuelTanks {
		return scene.Event{}, fmt.Errorf("fuel tank %d: %w", tankNo, ErrOutOfRange)
	}
	tank := rocket.FuelTanks[tankNo]
	if tank.Fuel <= 0 {
		return scene.Event{}, fmt.Errorf("fuel tank %d on entity %d: %w", tankNo, event.ID, ErrResourceExhausted)
	}

	throttle := event.Linear.Len()
	thrust := event.Linear.Scale(tank.Thrust)
	fuelUsed := throttle * dt
	fuelMassUsed := tank.MassFlowRate * fuelUsed

	tank.Fuel -= fuelUsed
	rocket.FuelTanks[tankNo] = tank
	sc.SetRocket(rocket)

	mass := sc.Masses[event.ID]
	mass.Inertial -= fuelMassUsed
	sc.Masses[event.ID] = mass

	return scene.Event{
		Kind:       scene.KindAcceleration,
		ID:         event.ID,
		Position:   event.Position,
		AccelFlags: scene.AccelForce,
		Linear:     thrust,
	}, nil
}

// ConvertRocketBurnToAcceleration rewrites every RocketBurn event in
// input into the Acceleration it produces. Events that fail (missing
// rocket, bad tank index, empty tank) are left untouched; the caller
// decides whether to drop them.
func ConvertRocketBurnToAcceleration(dt float64, input []scene.Event, sc *scene.Scene) {
	for i := range input {
		if input[i].Kind != scene.KindRocketBurn {
			continue
		}
		if converted, err := applyRocketBurn(dt, input[i], sc); err == nil {
			input[i] = converted
		}
	}
}

// ApplyRocketRefuel installs event.Tank into the named tank (or the
// first empty tank when event.TankNo is negative) and adjusts inertial
// mass by the fuel-mass delta.
func ApplyRocketRefuel(event scene.Event, sc *scene.Scene) error {
	rocket, ok := sc.Rocket(event.ID)
	if !ok {
		return fmt.Errorf("rocket refuel on entity %d: %w", event.ID, ErrNotFound)
	}

	tankNo := event.TankNo
	if tankNo < 0 {
		tankNo = -1
		for i := int32(0); i < rocket.FuelTankCount; i++ {
			if rocket.FuelTanks[i].Fuel <= 0 {
				tankNo = i
				break
			}
		}
		if tankNo < 0 {
			return fmt.Errorf("no empty fuel tank on entity %d: %w", event.ID, ErrOutOfRange)
		}
	}
	if tankNo >= scene.MaxFuelTanks {
		return fmt.Errorf("fuel tank %d: %w", tankNo, ErrOutOfRange)
	}

	old := rocket.FuelTanks[tankNo]
	mass := sc.Masses[event.ID]
	mass.Inertial -= old.MassFlowRate * old.Fuel
	rocket.FuelTanks[tankNo] = event.Tank
	mass.Inertial += event.Tank.Fuel * event.Tank.MassFlowRate
	sc.Masses[event.ID] = mass
	sc.SetRocket(rocket)
	return nil
}
