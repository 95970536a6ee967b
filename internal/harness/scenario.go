package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted countdown run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Duration is committed before the first step when non-zero, like a
	// duration passed on the command line.
	Duration int `yaml:"duration,omitempty"`

	// ValidationMessage overrides the message for rejected durations.
	ValidationMessage string `yaml:"validation_message,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Expect is checked against the final snapshot.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	Set   *string `yaml:"set,omitempty"`
	Start bool    `yaml:"start,omitempty"`
	Pause bool    `yaml:"pause,omitempty"`
	Reset bool    `yaml:"reset,omitempty"`

	// Tick fires the pending tick this many times.
	Tick int `yaml:"tick,omitempty"`

	// FireStopped fires even cancelled timers, simulating a timer that
	// went off while it was being stopped.
	FireStopped bool `yaml:"fire_stopped,omitempty"`
}

// Expect lists final-state checks. Nil fields are not checked.
type Expect struct {
	Remaining     *int   `yaml:"remaining,omitempty"`
	Display       string `yaml:"display,omitempty"`
	Phase         string `yaml:"phase,omitempty"`
	Running       *bool  `yaml:"running,omitempty"`
	Paused        *bool  `yaml:"paused,omitempty"`
	Alert         *bool  `yaml:"alert,omitempty"`
	CuePlays      *int   `yaml:"cue_plays,omitempty"`
	CueStops      *int   `yaml:"cue_stops,omitempty"`
	Notifications *int   `yaml:"notifications,omitempty"`
}

// kind names the single action a step performs, or "" if the step is
// empty or ambiguous.
func (s Step) kind() string {
	var kinds []string
	if s.Set != nil {
		kinds = append(kinds, "set")
	}
	if s.Start {
		kinds = append(kinds, "start")
	}
	if s.Pause {
		kinds = append(kinds, "pause")
	}
	if s.Reset {
		kinds = append(kinds, "reset")
	}
	if s.Tick > 0 {
		kinds = append(kinds, "tick")
	}
	if s.FireStopped {
		kinds = append(kinds, "fire_stopped")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks required fields and step shape.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %s: at least one step is required", s.Name)
	}
	for i, step := range s.Steps {
		if step.kind() == "" {
			return fmt.Errorf("scenario %s: step %d must set exactly one of set, start, pause, reset, tick, fire_stopped", s.Name, i+1)
		}
	}
	if s.Duration < 0 {
		return fmt.Errorf("scenario %s: duration must not be negative", s.Name)
	}
	return nil
}
