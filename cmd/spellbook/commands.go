package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/spellbook/internal/config"
	"github.com/banshee-data/spellbook/internal/gesture"
	"github.com/banshee-data/spellbook/internal/learner"
	"github.com/banshee-data/spellbook/internal/monitor"
	"github.com/banshee-data/spellbook/internal/neural"
	"github.com/banshee-data/spellbook/internal/storage/sqlite"
)

// app carries the global flags into each command.
type app struct {
	dbPath     string
	configPath string
	out        io.Writer
}

func (a *app) loadConfig() (*config.LearnerConfig, error) {
	if a.configPath == "" {
		return config.EmptyLearnerConfig(), nil
	}
	return config.LoadLearnerConfig(a.configPath)
}

// openDB opens the database and brings the schema up to date.
func (a *app) openDB() (*sqlite.DB, error) {
	db, err := sqlite.Open(a.dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (a *app) migrate(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: spellbook migrate <up|down|version>")
	}
	db, err := sqlite.Open(a.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[0] {
	case "up":
		if err := db.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := db.MigrateDown(); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown migrate action %q", args[0])
	}

	v, dirty, err := db.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "schema version %d (dirty: %t)\n", v, dirty)
	return nil
}

func (a *app) importSpell(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	name := fs.String("name", "", "Spell name (required)")
	color := fs.String("color", "#000000", "Display color")
	effect := fs.Int("effect", gesture.NoEffect, "Effect id bound to the spell")
	mirror := fs.String("mirror", "", "Mirror every gesture along this axis (x, y or z), e.g. for left-hand captures")
	normalize := fs.Bool("normalize", false, "Centre gestures on the origin and scale them to unit radius")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || fs.NArg() == 0 {
		return errors.New("usage: spellbook import -name <spell> [-mirror x|y|z] [-normalize] <gesture.json>...")
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	var gestures []*gesture.Gesture
	for _, path := range fs.Args() {
		gs, err := readGestures(path)
		if err != nil {
			return err
		}
		gestures = append(gestures, gs...)
	}
	gestures, err = transformGestures(gestures, *mirror, *normalize)
	if err != nil {
		return err
	}
	spell := gesture.NewSpell(*name, gestures...)
	spell.Color = *color
	spell.EffectID = *effect

	if n := cfg.GetSamplesPerGesture(); len(gestures) < n {
		log.Printf("spell %q has %d gestures; %d or more train more reliably", *name, len(gestures), n)
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Spells().Insert(spell); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %s %q with %d gestures\n", spell.ID, spell.Name, len(gestures))
	return nil
}

// transformGestures applies the import-time mirror and normalization.
func transformGestures(gs []*gesture.Gesture, mirror string, normalize bool) ([]*gesture.Gesture, error) {
	var flip func(*gesture.Gesture) (*gesture.Gesture, error)
	switch strings.ToLower(mirror) {
	case "":
	case "x":
		flip = (*gesture.Gesture).MirrorX
	case "y":
		flip = (*gesture.Gesture).MirrorY
	case "z":
		flip = (*gesture.Gesture).MirrorZ
	default:
		return nil, fmt.Errorf("unknown mirror axis %q", mirror)
	}

	out := make([]*gesture.Gesture, len(gs))
	for i, g := range gs {
		var err error
		if flip != nil {
			if g, err = flip(g); err != nil {
				return nil, fmt.Errorf("gesture %d: %w", i, err)
			}
		}
		if normalize {
			if g, err = g.Normalized(mgl64.QuatIdent()); err != nil {
				return nil, fmt.Errorf("gesture %d: %w", i, err)
			}
		}
		out[i] = g
	}
	return out, nil
}

func (a *app) list(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	density := fs.Float64("density", 4, "Preview points per unit of gesture length")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	spells, err := db.Spells().List()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d spells\n", len(spells))
	for i, s := range spells {
		hands := map[int]int{}
		for _, g := range s.Gestures {
			hands[g.HandCount()]++
		}
		preview := "-"
		if p, err := s.Preview(*density); err == nil {
			preview = strconv.Itoa(len(p.Points[0]))
		}
		fmt.Fprintf(a.out, "  [%d] %s %-16q color=%s effect=%d gestures=%v preview=%s\n",
			i, s.ID, s.Name, s.Color, s.EffectID, hands, preview)
	}

	nets, err := db.Networks().List()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d networks\n", len(nets))
	for _, n := range nets {
		fmt.Fprintf(a.out, "  %s hands=%d outputs=%d iterations=%d error=%.4f successful=%t\n",
			n.NetworkID, n.HandCount, len(n.SpellIDs), n.Iterations, n.Error, n.Successful)
	}
	return nil
}

func (a *app) deleteSpell(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: spellbook delete <spell-id>")
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Spells().Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}

func (a *app) train(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	plotPath := fs.String("plot", "", "Write the training error curve to this image file")
	htmlPath := fs.String("html", "", "Write an interactive training chart to this HTML file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	spells, err := db.Spells().List()
	if err != nil {
		return err
	}
	spellIDs := make([]string, len(spells))
	for i, s := range spells {
		spellIDs[i] = s.ID
	}

	rec := monitor.NewTrainingRecorder()
	l, err := learner.New(learner.SettingsFromConfig(cfg), learner.WithObserver(rec))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.GetTrainTimeout())
	defer cancel()

	started, err := l.StartTraining(ctx, spells)
	if err != nil {
		return err
	}
	log.Printf("training %d networks on %d spells", started, len(spells))
	if err := l.Wait(ctx); err != nil {
		log.Printf("training interrupted: %v", err)
		l.StopTraining()
	}

	saved := 0
	for hand := 1; hand <= l.Settings().MaxHands; hand++ {
		net := l.Network(hand)
		if net == nil {
			continue
		}
		st, err := l.Status(hand)
		if err != nil {
			return err
		}
		nr, err := db.Networks().Save(hand, net, spellIDs, st)
		if err != nil {
			return err
		}
		saved++
		fmt.Fprintf(a.out, "%d-hand network %s: iterations=%d error=%.4f successful=%t\n",
			hand, nr.NetworkID, st.Iteration, st.Error, st.Successful)
	}
	if saved == 0 {
		return errors.New("no network finished training")
	}

	if *plotPath != "" {
		if err := rec.SavePlot(*plotPath); err != nil {
			return err
		}
		log.Printf("wrote %s", *plotPath)
	}
	if *htmlPath != "" {
		var buf bytes.Buffer
		if err := rec.RenderHTML(&buf); err != nil {
			return err
		}
		if err := os.WriteFile(*htmlPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		log.Printf("wrote %s", *htmlPath)
	}
	return nil
}

func (a *app) recognize(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: spellbook recognize <gesture.json>...")
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	spells, err := db.Spells().List()
	if err != nil {
		return err
	}
	names := make(map[string]string, len(spells))
	for _, s := range spells {
		names[s.ID] = s.Name
	}

	l, err := learner.New(learner.SettingsFromConfig(cfg))
	if err != nil {
		return err
	}
	labels := map[int][]string{}
	for hand := 1; hand <= l.Settings().MaxHands; hand++ {
		rec, err := db.Networks().Latest(hand)
		if errors.Is(err, sqlite.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := l.SetNetwork(hand, rec.Network); err != nil {
			return fmt.Errorf("network %s: %w", rec.NetworkID, err)
		}
		labels[hand] = rec.SpellIDs
	}
	if len(labels) == 0 {
		return errors.New("no trained networks; run spellbook train first")
	}

	for _, path := range args {
		gs, err := readGestures(path)
		if err != nil {
			return err
		}
		for i, g := range gs {
			r := l.Recognize(g)
			fmt.Fprintf(a.out, "%s[%d]: %s\n", path, i, describe(r, labels[g.HandCount()], names))
		}
	}
	return nil
}

// describe names the recognized spell. A spell deleted since training is
// shown by its id.
func describe(r learner.Recognition, ids []string, names map[string]string) string {
	if !r.Recognized() {
		return "not recognized"
	}
	if r.Spell >= len(ids) {
		return fmt.Sprintf("unknown output %d (confidence %.2f)", r.Spell, r.Confidence)
	}
	id := ids[r.Spell]
	name, ok := names[id]
	if !ok {
		name = "deleted spell " + id
	}
	return fmt.Sprintf("%s (confidence %.2f)", name, r.Confidence)
}

func (a *app) xor(args []string) error {
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	repeats := fs.Int("repeats", 10, "Number of training runs")
	seed := fs.Uint64("seed", 1, "Trainer seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	results, err := neural.Benchmark(context.Background(), neural.XORTrainingSet(), neural.DefaultTrainSettings(), *repeats, *seed)
	if err != nil {
		return err
	}
	for i, st := range results {
		fmt.Fprintf(a.out, "run %2d: iterations=%4d error=%.4f successful=%t\n", i+1, st.Iteration, st.Error, st.Successful)
	}
	s := neural.Summarize(results)
	fmt.Fprintf(a.out, "%d/%d successful, mean error %.4f, mean iterations %.1f\n",
		s.Successful, s.Runs, s.MeanError, s.MeanIteration)
	return nil
}

// readGestures reads a single gesture or an array of gestures from path.
func readGestures(path string) ([]*gesture.Gesture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var gs []*gesture.Gesture
		if err := json.Unmarshal(data, &gs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for i, g := range gs {
			if g == nil {
				return nil, fmt.Errorf("parse %s: gesture %d is null", path, i)
			}
		}
		return gs, nil
	}
	var g gesture.Gesture
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return []*gesture.Gesture{&g}, nil
}
