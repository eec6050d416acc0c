// Package main is the entry point for the murmur CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"murmur/internal/api"
	"murmur/internal/engine"
	"murmur/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagScale      string
	flagBaseFreq   float64
	flagTempo      int
	flagComplexity float64
	flagMood       string
	flagSeed       string
	flagDuration   time.Duration
	flagVolume     float64
	serverPort     int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "Generative audio engine for parameter-driven performances",
	Long: `murmur turns a small musical parameter set plus a seed string into a
continuously evolving, reproducible performance: a sustained pad layer and a
probabilistic melody through a shared reverb/delay bus.

The same seed with the same parameters reproduces the same performance.

Examples:
  murmur play --scale minor --tempo 80 --complexity 0.5 --seed "first sketch"
  murmur play --duration 30s
  murmur jam
  murmur serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one performance from the command line",
	RunE:  runPlay,
}

var jamCmd = &cobra.Command{
	Use:   "jam",
	Short: "Launch the interactive jam surface",
	RunE:  runJam,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST control API",
	RunE:  runServe,
}

func init() {
	playCmd.Flags().StringVar(&flagScale, "scale", "pentatonic", "scale name (major, minor, pentatonic, chromatic, wholeTone)")
	playCmd.Flags().Float64Var(&flagBaseFreq, "base", 220, "base frequency in Hz")
	playCmd.Flags().IntVar(&flagTempo, "tempo", 80, "tempo in BPM")
	playCmd.Flags().Float64Var(&flagComplexity, "complexity", 0.5, "note density in [0,1]")
	playCmd.Flags().StringVar(&flagMood, "mood", "ethereal", "mood label (carried, not yet audible)")
	playCmd.Flags().StringVar(&flagSeed, "seed", "", "determinism seed; a fresh one is minted when empty")
	playCmd.Flags().DurationVar(&flagDuration, "duration", 0, "stop after this long (0 plays until interrupted)")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 1.0, "output volume in [0,1]")

	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "port for the control API")

	rootCmd.AddCommand(playCmd, jamCmd, serveCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if flagTempo <= 0 {
		return fmt.Errorf("tempo must be positive, got %d", flagTempo)
	}
	if flagBaseFreq <= 0 {
		return fmt.Errorf("base frequency must be positive, got %v", flagBaseFreq)
	}
	seed := flagSeed
	if seed == "" {
		seed = uuid.NewString()
	}

	eng := engine.New()
	if !eng.Enabled() {
		return fmt.Errorf("no usable audio output on this system")
	}
	eng.SetVolume(flagVolume)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := eng.Resume(ctx); err != nil {
		return fmt.Errorf("audio backend never became ready: %w", err)
	}

	eng.Play(ctx, engine.Params{
		Scale:         engine.Scale(flagScale),
		BaseFrequency: flagBaseFreq,
		Tempo:         flagTempo,
		Complexity:    flagComplexity,
		Mood:          engine.Mood(flagMood),
	}, seed)
	defer eng.Stop()

	fmt.Printf("playing seed %q (%s, %.1f Hz, %d BPM, complexity %.1f)\n",
		seed, flagScale, flagBaseFreq, flagTempo, flagComplexity)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	if flagDuration > 0 {
		select {
		case <-time.After(flagDuration):
		case <-interrupt:
		}
	} else {
		fmt.Println("press ctrl+c to stop")
		<-interrupt
	}
	return nil
}

func runJam(cmd *cobra.Command, args []string) error {
	eng := engine.New()
	if !eng.Enabled() {
		return fmt.Errorf("no usable audio output on this system")
	}
	_, err := tea.NewProgram(tui.New(eng), tea.WithAltScreen()).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	port := serverPort
	if !cmd.Flags().Changed("port") {
		if env := os.Getenv("MURMUR_PORT"); env != "" {
			if p, err := strconv.Atoi(env); err == nil {
				port = p
			}
		}
	}

	eng := engine.New()
	if !eng.Enabled() {
		log.Println("audio backend unavailable; serving in disabled mode (all operations no-op)")
	}
	log.Printf("murmur control API listening on :%d", port)
	return api.NewServer(eng).Run(port)
}
