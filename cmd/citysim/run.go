package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nairobi-skylines/citysim/internal/engine"
	"github.com/nairobi-skylines/citysim/internal/entropy"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/persistence"
	"github.com/nairobi-skylines/citysim/internal/world"
)

var (
	seed         int64
	interval     time.Duration
	tenderPolicy string
	landscape    bool
	autosave     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation loop",
	Long: `Run loads the city from its save slot (or founds a new one) and ticks it
until interrupted, autosaving along the way.`,
	RunE: runCity,
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", envInt64OrDefault("CITYSIM_SEED", 0),
		"random seed (0 = nondeterministic)")
	runCmd.Flags().DurationVar(&interval, "interval", engine.DefaultInterval, "real time between ticks")
	runCmd.Flags().StringVar(&tenderPolicy, "tender", "none",
		"answer expressway tenders automatically: none|standard|bribe|reject (none holds ticks until the tender command answers)")
	runCmd.Flags().BoolVar(&landscape, "landscape", true, "plant acacia groves on a new city")
	runCmd.Flags().IntVar(&autosave, "autosave", 12, "ticks between autosaves (0 disables)")
}

func runCity(cmd *cobra.Command, args []string) error {
	policy, err := parsePolicy(tenderPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, closeStore, err := openStore(ctx, db)
	if err != nil {
		return err
	}
	defer closeStore()

	state, err := loadOrFound(ctx, store)
	if err != nil {
		return err
	}

	h := &host{
		sim:      engine.NewSimulation(state, entropy.New(seed)),
		db:       db,
		store:    store,
		slot:     slot,
		policy:   policy,
		autosave: autosave,
	}

	eng := engine.NewEngine()
	eng.Interval = interval
	eng.OnTick = func(uint64) { h.step(ctx) }
	eng.Run(ctx)

	// The signal context is done; give the final writes their own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	h.flushEvents()
	if err := h.save(shutdownCtx); err != nil {
		return err
	}
	h.recordScore(shutdownCtx)
	return nil
}

func parsePolicy(s string) (engine.TenderChoice, error) {
	if s == "" || s == "none" {
		return "", nil
	}
	choice, err := engine.ParseTenderChoice(s)
	if err != nil {
		return "", fmt.Errorf("--tender: %w", err)
	}
	return choice, nil
}

func loadOrFound(ctx context.Context, store persistence.Store) (*engine.State, error) {
	out, err := store.Load(ctx, persistence.LoadInput{Slot: slot})
	if err == nil {
		st := out.State.Stats
		slog.Info("city restored",
			"slot", slot,
			"tick", st.TickCount,
			"money", humanize.Commaf(st.Money),
			"population", st.Population,
			"saved", humanize.Time(out.Info.SavedAt),
		)
		return out.State, nil
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}

	state := engine.NewState()
	if landscape {
		cfg := world.DefaultLandscapeConfig()
		cfg.Seed = seed
		trees := world.GenerateLandscape(state.Grid, cfg)
		slog.Info("landscape planted", "acacias", trees)
	}
	slog.Info("new city founded", "slot", slot, "money", humanize.Commaf(state.Stats.Money))
	return state, nil
}

// host connects the live simulation to its stores.
type host struct {
	sim      *engine.Simulation
	db       *persistence.DB
	store    persistence.Store
	slot     string
	policy   engine.TenderChoice // empty leaves tenders to a player
	autosave int
	scored   bool
	held     bool // a tender is pending and the held state is saved
}

func (h *host) step(ctx context.Context) {
	if h.sim.EventPending() {
		if h.policy == "" && !h.pickUpAnswer(ctx) {
			return
		}
		if h.sim.EventPending() {
			h.answerTender()
		}
	}
	h.held = false

	res := h.sim.Tick()
	st := h.sim.Stats()
	slog.Info("tick",
		"tick", res.Tick,
		"net", humanize.Commaf(res.Net),
		"money", humanize.Commaf(st.Money),
		"population", st.Population,
		"happiness", st.Happiness,
		"power", fmt.Sprintf("%d/%d", st.PowerDemand, st.PowerCapacity),
	)
	h.flushEvents()

	if h.autosave > 0 && res.Tick%h.autosave == 0 {
		if err := h.save(ctx); err != nil {
			slog.Error("autosave failed", "error", err)
		}
	}
	if st.GameWon && !h.scored {
		h.recordScore(ctx)
	}
}

// pickUpAnswer holds the tick while a tender waits for `citysim tender`. The
// first held tick saves the slot; later ones reload it and adopt the saved
// city once the tender there is answered. It reports whether ticking resumes.
func (h *host) pickUpAnswer(ctx context.Context) bool {
	if !h.held {
		if err := h.save(ctx); err != nil {
			slog.Error("failed to save held city", "error", err)
			return false
		}
		h.held = true
		slog.Warn("expressway tender pending, ticks held",
			"slot", h.slot, "answer", "citysim tender <standard|bribe|reject>")
		return false
	}

	out, err := h.store.Load(ctx, persistence.LoadInput{Slot: h.slot})
	if err != nil {
		slog.Error("failed to reload held city", "error", err)
		return false
	}
	saved := out.State
	if saved.EventPending() || saved.Stats.TickCount != h.sim.Stats().TickCount {
		slog.Debug("tender pending, tick held")
		return false
	}
	h.sim.Restore(saved)
	slog.Info("tender answer picked up", "slot", h.slot, "event", saved.Stats.ActiveEvent)
	return true
}

func (h *host) answerTender() {
	res, err := h.sim.ResolveTender(h.policy)
	if errors.IsCode(err, errors.CodeInsufficientFunds) {
		slog.Warn("cannot afford tender, rejecting", "policy", h.policy)
		res, err = h.sim.ResolveTender(engine.TenderReject)
	}
	if err != nil {
		slog.Error("tender resolution failed", "error", err)
		return
	}
	slog.Info("tender resolved", "choice", res.Choice, "cost", humanize.Commaf(res.Cost), "pillars", len(res.Pillars))
}

func (h *host) flushEvents() {
	events := h.sim.DrainEvents()
	for _, ev := range events {
		slog.Debug("event", "tick", ev.Tick, "category", ev.Category, "description", ev.Description)
	}
	if err := h.db.SaveEvents(events); err != nil {
		slog.Error("failed to persist events", "error", err)
	}
}

func (h *host) save(ctx context.Context) error {
	out, err := h.store.Save(ctx, persistence.SaveInput{Slot: h.slot, State: h.sim.Snapshot()})
	if err != nil {
		return fmt.Errorf("save slot %s: %w", h.slot, err)
	}
	slog.Info("city saved", "slot", out.Info.Slot, "tick", out.Info.Tick, "id", out.Info.ID)
	return nil
}

func (h *host) recordScore(ctx context.Context) {
	if h.scored {
		return
	}
	hs, rank, err := h.db.RecordHighScore(ctx, h.sim.Stats())
	if err != nil {
		slog.Error("failed to record high score", "error", err)
		return
	}
	h.scored = true
	if rank > 0 {
		slog.Info("made the leaderboard", "rank", rank, "score", humanize.Comma(hs.Score))
	}
}
