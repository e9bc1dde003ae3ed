package command

import (
	"errors"
	"testing"
)

func TestKeywordInterpreter_Takeoff(t *testing.T) {
	cmd, err := KeywordInterpreter{}.Interpret("take off to 25 meters")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != CapTakeoff {
		t.Errorf("expected %q, got %q", CapTakeoff, cmd.Name)
	}
	if cmd.Params["altitude"] != 25 {
		t.Errorf("expected altitude 25, got %f", cmd.Params["altitude"])
	}
}

func TestKeywordInterpreter_TakeoffDefaultAltitude(t *testing.T) {
	cmd, err := KeywordInterpreter{}.Interpret("takeoff")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Params["altitude"] != 10 {
		t.Errorf("expected default altitude 10, got %f", cmd.Params["altitude"])
	}
}

func TestKeywordInterpreter_GotoCoordinates(t *testing.T) {
	cmd, err := KeywordInterpreter{}.Interpret("fly to 100, -50, 30")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != CapGoto {
		t.Fatalf("expected %q, got %q", CapGoto, cmd.Name)
	}
	if cmd.Params["x"] != 100 || cmd.Params["y"] != -50 || cmd.Params["z"] != 30 {
		t.Errorf("unexpected coordinates: %v", cmd.Params)
	}
}

func TestKeywordInterpreter_DisarmBeforeArm(t *testing.T) {
	// "disarm" contains "arm"; the longer phrase must win.
	cmd, err := KeywordInterpreter{}.Interpret("disarm")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != CapDisarm {
		t.Errorf("expected %q, got %q", CapDisarm, cmd.Name)
	}
}

func TestKeywordInterpreter_ConfirmFlag(t *testing.T) {
	cmd, err := KeywordInterpreter{}.Interpret("fly to 100, 50, 30, confirmed")
	if err != nil {
		t.Fatal(err)
	}
	if !cmd.Confirm {
		t.Error("expected the confirmation flag to be set")
	}

	cmd, err = KeywordInterpreter{}.Interpret("fly to 100, 50, 30")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Confirm {
		t.Error("confirmation flag set without a confirm phrase")
	}

	// "confirm" alone must not read as an arm request.
	if _, err := (KeywordInterpreter{}).Interpret("confirm"); !errors.Is(err, ErrUnintelligible) {
		t.Errorf("expected ErrUnintelligible, got %v", err)
	}
}

func TestKeywordInterpreter_EmergencyStopWins(t *testing.T) {
	cmd, err := KeywordInterpreter{}.Interpret("emergency stop and land")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != CapEmergencyStop {
		t.Errorf("expected %q, got %q", CapEmergencyStop, cmd.Name)
	}
}

func TestKeywordInterpreter_Unintelligible(t *testing.T) {
	_, err := KeywordInterpreter{}.Interpret("sing me a song")
	if !errors.Is(err, ErrUnintelligible) {
		t.Errorf("expected ErrUnintelligible, got %v", err)
	}
}

func TestKnown(t *testing.T) {
	if !Known(CapGoto) {
		t.Error("goto should be known")
	}
	if Known("teleport") {
		t.Error("teleport should be unknown")
	}
}

func TestMotion(t *testing.T) {
	if !Motion(CapGoto) {
		t.Error("goto is a motion command")
	}
	if Motion(CapLand) {
		t.Error("land must stay available under safety blocks")
	}
}
