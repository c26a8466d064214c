package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/megatiny/internal/storage"
)

var (
	flagSessionsLimit int
	flagSessionsClear bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent runs from the journal",
	Long: `Display the most recent game runs recorded in the journal, followed by
totals per backend.

Examples:
  megatiny sessions
  megatiny sessions --limit 50
  megatiny sessions --clear`,
	Args: cobra.NoArgs,
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 10, "Number of runs to show")
	sessionsCmd.Flags().BoolVar(&flagSessionsClear, "clear", false, "Delete every recorded run")
}

func runSessions(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagSessionsClear {
		if err := store.ClearSessions(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Journal cleared.")
		return
	}

	sessions, err := store.RecentSessions(flagSessionsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render("Recent runs"))
	if len(sessions) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println(hintStyle.Render("Run 'megatiny' to play the demo."))
		return
	}
	fmt.Println(sessionTable(sessions))

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving totals: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(titleStyle.Render("Totals"))
	fmt.Println(statsTable(stats))
}

func sessionTable(sessions []storage.Session) string {
	t := newTable("Started", "Backend", "Remote", "Frames", "Inputs", "Duration", "FPS")
	for _, s := range sessions {
		remote := s.Remote
		if remote == "" {
			remote = "local"
		}
		t.Row(
			s.StartedAt.Format("2006-01-02 15:04"),
			s.Backend,
			remote,
			strconv.Itoa(s.Frames),
			strconv.Itoa(s.Inputs),
			s.Duration.Round(time.Millisecond).String(),
			fmt.Sprintf("%.1f", s.FPS()),
		)
	}
	return t.String()
}

func statsTable(stats []storage.BackendStats) string {
	t := newTable("Backend", "Runs", "Frames", "Inputs", "Play time", "Avg FPS", "Last run")
	for _, b := range stats {
		t.Row(
			b.Backend,
			strconv.Itoa(b.Runs),
			strconv.FormatInt(b.TotalFrames, 10),
			strconv.FormatInt(b.TotalInputs, 10),
			b.TotalTime.Round(time.Second).String(),
			fmt.Sprintf("%.1f", b.AvgFPS()),
			b.LastRun.Format("2006-01-02 15:04"),
		)
	}
	return t.String()
}
