package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/justthedistance/jtd/internal/beatmap"
	"github.com/justthedistance/jtd/internal/jump"
	"github.com/justthedistance/jtd/internal/movement"
	"github.com/justthedistance/jtd/internal/report"
	"github.com/justthedistance/jtd/internal/settings"
	"github.com/justthedistance/jtd/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile string
	verbose    bool
	jsonOutput bool

	bpm            float32
	njs            float32
	reactionTime   int
	snapFlag       string
	noSnap         bool
	currentJV      float32
	levelFile      string
	characteristic string
	difficulty     string

	rootCmd = &cobra.Command{
		Use:   "jtd",
		Short: "Keep note jump distance tied to a fixed reaction time.",
		Long: `Just The Distance recomputes a beatmap's note jump value so that notes appear a fixed reaction time ahead of you, ` +
			`whatever the song's tempo and note jump speed. Optionally the jump value is snapped to a musical subdivision.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Set log level based on flags
			if jsonOutput && !verbose {
				logrus.SetLevel(logrus.WarnLevel)
			} else if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", settings.DefaultPath, "Settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of rich text")

	for _, c := range []*cobra.Command{calcCmd, levelCmd} {
		c.Flags().IntVar(&reactionTime, "rt", 0, "Reaction time in milliseconds [Defaults to settings]")
		c.Flags().StringVar(&snapFlag, "snap", "", "Snap jump value to a note type, 1-8 or whole..eighth [Defaults to settings]")
		c.Flags().BoolVar(&noSnap, "no-snap", false, "Disable snapping regardless of settings")
	}
	for _, c := range []*cobra.Command{calcCmd, njvCmd, menuCmd} {
		c.Flags().Float32Var(&bpm, "bpm", 0, "Song tempo in beats per minute")
		c.Flags().Float32Var(&njs, "njs", 0, "Note jump speed (0 uses the game default of 16)")
	}
	_ = calcCmd.MarkFlagRequired("bpm")
	_ = njvCmd.MarkFlagRequired("bpm")
	njvCmd.Flags().Float32Var(&currentJV, "current", 0, "The map's own jump value, used when disabled")

	menuCmd.Flags().StringVar(&levelFile, "level", "", "Preview a difficulty from this Info.dat, reloading it when it changes")
	menuCmd.Flags().StringVar(&characteristic, "characteristic", "Standard", "Beatmap characteristic to preview")
	menuCmd.Flags().StringVar(&difficulty, "difficulty", "ExpertPlus", "Difficulty to preview")

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(njvCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// loadSettings opens the settings file without creating it.
func loadSettings() *settings.Store {
	st, err := settings.NewStore(configFile)
	if err != nil {
		logrus.Fatalf("Unable to load settings: %v", err)
	}
	return st
}

// resolveParams applies --rt, --snap and --no-snap on top of the stored settings.
func resolveParams(s settings.Settings) (jump.Params, error) {
	p := s.Params()
	if reactionTime != 0 {
		p.ReactionTime = jump.ClampReactionTime(reactionTime)
	}
	if snapFlag != "" {
		snap, err := jump.ParseSnap(snapFlag)
		if err != nil {
			return p, err
		}
		p.Snap = snap
	}
	if noSnap {
		p.Snap = jump.NoSnap
	}
	return p, nil
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var calcCmd = &cobra.Command{
	Use:   "calc --bpm BPM [--njs NJS]",
	Short: "Calculate the jump value for a tempo and note jump speed",
	Long:  "Calculate the half jump duration, jump value, jump distance and effective reaction time for one tempo and note jump speed.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := beatmap.Snapshot{BPM: bpm, NoteSpeed: njs}
		if err := snapshot.Validate(); err != nil {
			logrus.Fatal(err)
		}
		p, err := resolveParams(loadSettings().Settings())
		if err != nil {
			logrus.Fatal(err)
		}

		r := report.New(p)
		r.AddSnapshot(snapshot)
		if err := report.Print(os.Stdout, r, jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var levelCmd = &cobra.Command{
	Use:   "level PATH...",
	Short: "Calculate jump values for every difficulty of one or more levels",
	Long:  "Calculate jump values for every difficulty in the given Info.dat files. Directories are searched recursively for Info.dat.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := resolveParams(loadSettings().Settings())
		if err != nil {
			logrus.Fatal(err)
		}
		paths, err := beatmap.ResolvePaths(cmd.Context(), args)
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.Debugf("Found %d level info files", len(paths))

		r := report.New(p)
		for _, path := range paths {
			l, err := beatmap.LoadLevel(path)
			if err != nil {
				logrus.Debugf("skipping level: %v", err)
				r.AddError(err)
				continue
			}
			r.AddLevel(l)
		}
		if err := report.Print(os.Stdout, r, jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var njvCmd = &cobra.Command{
	Use:   "njv --bpm BPM [--njs NJS] [--current JV]",
	Short: "Print the jump value the game would be given",
	Long:  "Print the jump value handed to the game's movement data for a tempo and note jump speed, honouring the enabled setting.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		snapshot := beatmap.Snapshot{BPM: bpm, NoteSpeed: njs}
		if err := snapshot.Validate(); err != nil {
			logrus.Fatal(err)
		}
		adjuster := movement.NewAdjuster(loadSettings(), logrus.StandardLogger())
		adjuster.Apply(snapshot, currentJV, movement.SinkFunc(func(v float32) {
			if jsonOutput {
				out, _ := json.Marshal(map[string]float32{"note_jump_value": v})
				fmt.Fprintln(os.Stdout, string(out))
				return
			}
			fmt.Fprintf(os.Stdout, "%g\n", v)
		}))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive settings menu",
	Long:  "Open the interactive settings menu. Preview values for a level with --level, or for a tempo with --bpm and --njs.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := settings.NewOrExistingStore(configFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create settings: %v", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		tracker := beatmap.NewTracker()
		switch {
		case levelFile != "":
			l, err := beatmap.LoadLevel(levelFile)
			if err != nil {
				logrus.Fatal(err)
			}
			d, ok := l.Find(characteristic, difficulty)
			if !ok {
				logrus.Fatalf("%s has no %s %s difficulty", levelFile, characteristic, difficulty)
			}
			if err := tracker.Observe(l.Snapshot(d)); err != nil {
				logrus.Fatal(err)
			}
			// Pick up edits to the level while the menu is open.
			go beatmap.Follow(ctx, tracker, levelFile, characteristic, difficulty, beatmap.DefaultFollowInterval)
		case bpm != 0:
			if err := tracker.Observe(beatmap.Snapshot{BPM: bpm, NoteSpeed: njs}); err != nil {
				logrus.Fatal(err)
			}
		}

		if err := tui.Run(ctx, st, tracker); err != nil {
			logrus.Fatalf("Settings menu failed: %v", err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage reaction time and snapping settings",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Run: func(cmd *cobra.Command, args []string) {
		s := loadSettings().Settings()
		var (
			out []byte
			err error
		)
		if jsonOutput {
			out, err = json.MarshalIndent(s, "", "  ")
			out = append(out, '\n')
		} else {
			out, err = yaml.Marshal(s)
		}
		if err != nil {
			logrus.Fatal(err)
		}
		_, _ = os.Stdout.Write(out)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var settingsSetCmd = &cobra.Command{
	Use:       "set KEY VALUE",
	Short:     "Change one setting",
	Long:      "Change one setting. Values are clamped the same way the menu clamps them.",
	Args:      cobra.ExactArgs(2), //nolint:mnd // 'set' requires a key and a value by CLI contract
	ValidArgs: settings.Keys(),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := settings.NewOrExistingStore(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := st.Data.Set(args[0], args[1]); err != nil {
			logrus.Fatal(err)
		}
		if err := st.Save(); err != nil {
			logrus.Fatal(err)
		}
		logrus.Debugf("Set %s in %s", args[0], st.Path)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := settings.NewOrExistingStore(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := st.Reset(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "Settings reset to defaults")
	},
}

func main() {
	Execute()
}
