package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/ingest/quick"
	"github.com/claude/replog/internal/journal"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepLog server URL (e.g. https://replog.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for the log endpoint (default $REPLOG_AUTH_API_KEY)")
	stateDir := flag.String("state-dir", "", "journal directory (default ~/.replog)")
	syncOnly := flag.Bool("sync", false, "send buffered lines and exit")
	offline := flag.Bool("offline", false, "buffer lines locally without sending")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("replog-cli", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *apiKey == "" {
		*apiKey = os.Getenv("REPLOG_AUTH_API_KEY")
	}

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".replog")
	}

	jnl, err := journal.Open(*stateDir)
	if err != nil {
		log.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer jnl.Close()

	var client *journal.Client
	if *serverURL != "" && !*offline {
		client = journal.NewClient(strings.TrimRight(*serverURL, "/"), *apiKey)
	}

	if *syncOnly {
		if client == nil {
			fmt.Fprintf(os.Stderr, "Error: -sync requires -server (and not -offline)\n")
			os.Exit(1)
		}
		sent, failed, _ := drain(jnl, client, log)
		fmt.Printf("synced %d line(s), %d still buffered\n", sent, failed)
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	repl(jnl, client, log)
}

// repl reads lines from stdin until EOF, buffering each to the journal and
// syncing opportunistically when a client is configured.
func repl(jnl *journal.Journal, client *journal.Client, log *slog.Logger) {
	dispatcher := quick.New()

	if n, err := jnl.PendingCount(); err == nil && n > 0 {
		if client != nil {
			if sent, _, _ := drain(jnl, client, log); sent > 0 {
				fmt.Printf("synced %d buffered line(s)\n", sent)
			}
		} else {
			fmt.Printf("%d line(s) buffered for later sync\n", n)
		}
	}

	fmt.Println(`RepLog quick entry. Lines like "bench 8, 8, 7 x 100"; "end workout" closes the session; Ctrl-D quits.`)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			fmt.Print("> ")
			continue
		case "exit", "quit":
			return
		}

		handleLine(jnl, client, dispatcher, log, line)
		fmt.Print("> ")
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading input", "error", err)
	}
}

func handleLine(jnl *journal.Journal, client *journal.Client, dispatcher *quick.Dispatcher, log *slog.Logger, line string) {
	// Pre-parse so malformed lines never enter the journal. The server
	// would reject them on every sync attempt.
	out, err := dispatcher.Parse(line)
	if err != nil {
		fmt.Printf("  cannot log: %v\n", err)
		return
	}
	if _, ok := out.(quick.NoMatch); ok {
		fmt.Printf("  not recognized, buffering for review: %q\n", line)
	}

	if _, err := jnl.Append(line, time.Now()); err != nil {
		log.Error("journal append failed", "error", err)
		return
	}

	if client == nil {
		echoLocal(out)
		if n, err := jnl.PendingCount(); err == nil {
			fmt.Printf("  buffered (%d pending)\n", n)
		}
		return
	}

	_, failed, last := drain(jnl, client, log)
	if failed > 0 {
		fmt.Printf("  server unreachable, kept buffered (%d pending)\n", failed)
		return
	}
	if last != nil {
		printResult(last)
	}
}

// drain sends pending journal lines oldest first, stopping at the first
// transport failure so arrival order is preserved. Permanently rejected
// lines are dropped with a warning rather than wedging the queue. Returns
// the server's reply for the last delivered line.
func drain(jnl *journal.Journal, client *journal.Client, log *slog.Logger) (sent, failed int, last *ingest.Result) {
	lines, err := jnl.Pending()
	if err != nil {
		log.Error("reading journal", "error", err)
		return 0, 0, nil
	}

	for i, line := range lines {
		res, err := client.SendLine(line.Text, line.CapturedAt)
		if errors.Is(err, journal.ErrRejected) {
			log.Warn("line rejected by server, dropping", "line", line.Text, "error", err)
			if err := jnl.MarkSynced(line.ID); err != nil {
				log.Error("marking line synced", "id", line.ID, "error", err)
			}
			continue
		}
		if err != nil {
			log.Warn("sync failed", "line", line.Text, "error", err)
			return sent, len(lines) - i, last
		}
		if err := jnl.MarkSynced(line.ID); err != nil {
			log.Error("marking line synced", "id", line.ID, "error", err)
		}
		sent++
		last = res
	}
	return sent, 0, last
}

// echoLocal reports what a line parsed to when there is no server reply to
// show.
func echoLocal(out quick.Outcome) {
	switch entry := out.(type) {
	case quick.SetEntry:
		fmt.Printf("  %s: %d set(s) of %s @ %g %s\n",
			entry.Exercise, len(entry.Reps), repsList(entry.Reps), entry.Weight, entry.Unit)
	case quick.CommandEntry:
		fmt.Println("  workout end queued")
	}
}

func printResult(res *ingest.Result) {
	switch res.Status {
	case ingest.StatusLogged:
		fmt.Printf("  logged %d set(s) of %s\n", res.SetsLogged, res.Exercise)
	case ingest.StatusWorkoutEnded:
		fmt.Printf("  workout closed with %d set(s)\n", res.WorkoutSets)
	case ingest.StatusNoOpenWorkout:
		fmt.Println("  no pending sets to close")
	case ingest.StatusNoMatch:
		fmt.Println("  server did not understand the line")
	}
}

func repsList(reps []int) string {
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}
