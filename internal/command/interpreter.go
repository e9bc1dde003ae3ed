package command

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// #region interpreter

// ErrUnintelligible is returned when free text resolves to no command.
var ErrUnintelligible = errors.New("unintelligible command text")

// Interpreter resolves free-form text into a Command. Implementations
// may call out to an external interpretation service.
type Interpreter interface {
	Interpret(text string) (Command, error)
}

// #endregion interpreter

// #region keywords

var takeoffKeywords = []string{"takeoff", "take off", "launch", "lift off"}
var landKeywords = []string{"land", "touch down", "set down"}
var rtlKeywords = []string{"rtl", "return home", "return to launch", "come back", "go home"}
var hoverKeywords = []string{"hover", "hold position", "stay", "wait here"}
var gotoKeywords = []string{"goto", "go to", "fly to", "move to", "head to"}
var stopKeywords = []string{"emergency stop", "stop now", "abort everything", "kill"}
var confirmKeywords = []string{"confirm", "confirmed", "i'm sure", "yes really"}

// "arm" needs word boundaries: it is a substring of both "disarm" and
// "confirm".
var armPattern = regexp.MustCompile(`\barm\b`)
var disarmPattern = regexp.MustCompile(`\bdisarm\b`)

// #endregion keywords

// #region keyword-interpreter

// KeywordInterpreter is the built-in fallback interpreter. It matches
// phrase lists against lowercased input and pulls numbers for
// altitude and coordinates. No model call.
type KeywordInterpreter struct{}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Interpret resolves text via keyword heuristics, first match wins.
func (KeywordInterpreter) Interpret(text string) (Command, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Command{}, ErrUnintelligible
	}
	numbers := extractNumbers(lower)

	cmd, err := match(lower, numbers)
	if err != nil {
		return Command{}, err
	}
	cmd.Confirm = matchAny(lower, confirmKeywords)
	return cmd, nil
}

// match resolves the lowercased text to a command, first match wins.
func match(lower string, numbers []float64) (Command, error) {
	switch {
	case matchAny(lower, stopKeywords):
		return Command{Name: CapEmergencyStop, Params: map[string]float64{}}, nil

	case matchAny(lower, takeoffKeywords):
		alt := 10.0
		if len(numbers) > 0 {
			alt = numbers[0]
		}
		return Command{Name: CapTakeoff, Params: map[string]float64{"altitude": alt}}, nil

	case matchAny(lower, landKeywords):
		return Command{Name: CapLand, Params: map[string]float64{}}, nil

	case matchAny(lower, rtlKeywords):
		return Command{Name: CapRTL, Params: map[string]float64{}}, nil

	case matchAny(lower, hoverKeywords):
		return Command{Name: CapHover, Params: map[string]float64{}}, nil

	case matchAny(lower, gotoKeywords):
		params := map[string]float64{"x": 0, "y": 0, "z": 10}
		if len(numbers) >= 3 {
			params["x"], params["y"], params["z"] = numbers[0], numbers[1], numbers[2]
		} else if len(numbers) == 2 {
			params["x"], params["y"] = numbers[0], numbers[1]
		}
		return Command{Name: CapGoto, Params: params}, nil

	case disarmPattern.MatchString(lower):
		return Command{Name: CapDisarm, Params: map[string]float64{}}, nil

	case armPattern.MatchString(lower):
		return Command{Name: CapArm, Params: map[string]float64{}}, nil
	}

	return Command{}, ErrUnintelligible
}

// #endregion keyword-interpreter

// #region helpers

func matchAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func extractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// #endregion helpers
