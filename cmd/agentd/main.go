package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/coba-ai/drone-agent/internal/agent"
	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/link"
	"github.com/coba-ai/drone-agent/internal/mission"
	"github.com/coba-ai/drone-agent/internal/persist"
	"github.com/coba-ai/drone-agent/internal/sim"
)

// #region main

func main() {
	dbPath := envOr("AGENT_DB", "drone_agent.db")
	vehicleAddr := envOr("VEHICLE_ADDR", "localhost:50061")
	useSim := envOr("AGENT_SIM", "true") == "true"
	reportsDir := envOr("AGENT_REPORTS", "reports")

	store, err := persist.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	var vehicle link.Vehicle
	if useSim {
		s := sim.New(sim.DefaultConfig())
		go func() {
			for range time.Tick(200 * time.Millisecond) {
				s.Step()
			}
		}()
		vehicle = s
	} else {
		v, err := link.NewGRPCVehicle(vehicleAddr)
		if err != nil {
			log.Fatalf("failed to connect to vehicle at %s: %v", vehicleAddr, err)
		}
		vehicle = v
	}
	defer vehicle.Close()

	config := agent.DefaultConfig()
	config.ReportsDir = reportsDir

	a, err := agent.New(config, vehicle, store, command.KeywordInterpreter{})
	if err != nil {
		log.Fatalf("failed to build agent: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("failed to start agent: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	mode := "sim"
	if !useSim {
		mode = vehicleAddr
	}
	fmt.Println("Drone agent console ready.")
	fmt.Printf("  DB: %s | Vehicle: %s\n", dbPath, mode)
	fmt.Println("Commands: status, recent, mission <file>, pause, resume, abort, estop, reset, quit")
	fmt.Println("Anything else is interpreted as a free-text vehicle command.")

	repl(a)
}

// #endregion main

// #region repl

func repl(a *agent.Agent) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")

		switch verb {
		case "quit", "exit":
			return

		case "status":
			printStatus(a.Status())

		case "recent":
			for _, e := range a.Recent(10) {
				fmt.Printf("  [%s] %s\n", e.Kind, e.Text)
			}

		case "mission":
			if arg == "" {
				fmt.Println("usage: mission path/to/route.yaml")
				continue
			}
			spec, err := mission.LoadSpec(arg)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			id, err := a.StartMission(context.Background(), spec)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("mission %s started (%d waypoints)\n", id, len(spec.Waypoints))

		case "pause":
			controlMission(a.Status().MissionID, a.PauseMission)

		case "resume":
			controlMission(a.Status().MissionID, a.ResumeMission)

		case "abort":
			id := a.Status().MissionID
			if id == "" {
				fmt.Println("no mission")
				continue
			}
			if err := a.AbortMission(id, arg); err != nil {
				fmt.Printf("error: %v\n", err)
			}

		case "estop":
			if err := a.EmergencyStop(context.Background()); err != nil {
				fmt.Printf("error: %v\n", err)
			} else {
				fmt.Println("emergency stop active; motion refused until 'reset'")
			}

		case "reset":
			a.ResetEmergencyStop()
			fmt.Println("emergency stop cleared")

		case "flush":
			outcomes, err := a.FlushInterrupts(context.Background())
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			for _, out := range outcomes {
				fmt.Printf("  %s: %s\n", out.Command.Name, out.Reason)
			}

		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			out, err := a.ProcessText(ctx, line)
			cancel()
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			printOutcome(out)
		}
	}
}

func controlMission(id string, f func(string) error) {
	if id == "" {
		fmt.Println("no mission")
		return
	}
	if err := f(id); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// #endregion repl

// #region output

func printStatus(st agent.Status) {
	snap := st.Telemetry
	fmt.Printf("  position:  (%.1f, %.1f, %.1f)  battery: %.1f%%  wind: %.1fm/s\n",
		snap.Position.X, snap.Position.Y, snap.Position.Z, snap.Battery, snap.WindSpeed)
	fmt.Printf("  safety:    %s", st.Advisory.Kind)
	if st.Advisory.Detail != "" {
		fmt.Printf(" (%s)", st.Advisory.Detail)
	}
	fmt.Println()
	if st.MissionID != "" {
		fmt.Printf("  mission:   %s %s (waypoint %d)\n", st.MissionID, st.MissionStatus, st.WaypointIndex)
	}
	fmt.Printf("  epsilon:   %.3f  estop: %v  queued: %d\n", st.Epsilon, st.EmergencyStop, st.Pending)
}

func printOutcome(out agent.Outcome) {
	switch {
	case out.Queued:
		fmt.Printf("queued: %s\n", out.Reason)
	case out.Executed:
		fmt.Printf("[%s] %s: %s\n", out.Decision.Provenance, out.Decision.Action, out.Reason)
	default:
		fmt.Printf("rejected: %s\n", out.Reason)
	}
}

// #endregion output

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
