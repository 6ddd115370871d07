package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	navhistory "github.com/wippyai/nav-history"
	"github.com/wippyai/nav-history/durable"
	"github.com/wippyai/nav-history/engine"
	"github.com/wippyai/nav-history/fragment"
	"github.com/wippyai/nav-history/inmem"
	"github.com/wippyai/nav-history/store"
)

func main() {
	var (
		backendName = flag.String("backend", "durable", "Backend to use: mem, durable, fragment")
		slotPath    = flag.String("slot", "current", "Path to the slot file")
		dbPath      = flag.String("db", "history.db", "Path to the entry store (durable backend)")
		base        = flag.String("base", "", "Base href for the fragment backend")
		initial     = flag.String("initial", "/", "Initial path for a fresh session")
		pushPath    = flag.String("push", "", "Push a new entry at this path")
		replacePath = flag.String("replace", "", "Replace the current entry with this path")
		stateJSON   = flag.String("state", "", "State JSON to attach to -push/-replace")
		delta       = flag.Int("go", 0, "Travel this many entries (negative = back)")
		show        = flag.Bool("show", false, "Print the current location and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if err := run(*backendName, *slotPath, *dbPath, *base, *initial,
		*pushPath, *replacePath, *stateJSON, *delta, *show, *interactive, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(backendName, slotPath, dbPath, base, initial,
	pushPath, replacePath, stateJSON string, delta int, show, interactive, verbose bool) error {

	log := zap.NewNop()
	if verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	backend, cleanup, err := openBackend(backendName, slotPath, dbPath, base, initial, log)
	if err != nil {
		return err
	}
	defer cleanup()

	eng, err := engine.New(backend)
	if err != nil {
		return err
	}

	if interactive {
		return runInteractive(eng, backend, backendName)
	}

	var state any
	if stateJSON != "" {
		if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
			return fmt.Errorf("parse -state: %w", err)
		}
	}

	switch {
	case pushPath != "":
		if err := eng.Push(pushPath, state); err != nil {
			return err
		}
	case replacePath != "":
		if err := eng.Replace(replacePath, state); err != nil {
			return err
		}
	case delta != 0:
		if err := eng.Go(delta); err != nil {
			return err
		}
	case !show:
		flag.Usage()
		return nil
	}

	printLocation(eng, backend)
	return nil
}

func openBackend(name, slotPath, dbPath, base, initial string, log *zap.Logger) (navhistory.Backend, func(), error) {
	switch name {
	case "mem":
		return inmem.New(inmem.WithInitialEntries(initial)), func() {}, nil

	case "durable":
		st, err := store.OpenBolt(dbPath)
		if err != nil {
			return nil, nil, err
		}
		b, err := durable.Open(slotPath, st,
			durable.WithInitialPath(initial),
			durable.WithLogger(log))
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		return b, func() { st.Close() }, nil

	case "fragment":
		b, err := fragment.Open(slotPath, store.NewMemory(),
			fragment.WithBase(base),
			fragment.WithInitialPath(initial),
			fragment.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want mem, durable or fragment)", name)
	}
}

func printLocation(eng *engine.Engine, backend navhistory.Backend) {
	loc := eng.Location()
	fmt.Printf("%s %s [%d/%d] key=%s\n",
		eng.Action(), backend.CreateHref(loc.Path()), eng.Index(), backend.Len(), loc.Key)
	if loc.State != nil {
		if data, err := json.Marshal(loc.State); err == nil {
			fmt.Printf("state: %s\n", data)
		}
	}
}
