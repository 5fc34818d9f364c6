package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/export"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/studio"
	"github.com/kitforge/kitforge/pkg/view"
)

// exportFlags are shared by every export subcommand.
type exportFlags struct {
	rosterPath  string
	player      int
	viewName    string
	quality     string
	outDir      string
	front       string
	back        string
	leftSleeve  string
	rightSleeve string
	collar      string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.rosterPath, "roster", "", "roster file (.csv or .json)")
	cmd.PersistentFlags().IntVar(&f.player, "player", 0, "roster entry to design for (0-based)")
	cmd.PersistentFlags().StringVar(&f.viewName, "view", "back", "view to export (front, back, leftSleeve, rightSleeve, collar)")
	cmd.PersistentFlags().StringVar(&f.quality, "quality", "", "output quality (ultra, high, medium)")
	cmd.PersistentFlags().StringVar(&f.outDir, "out", "", "output directory (default from config)")
	cmd.PersistentFlags().StringVar(&f.front, "front", "", "front artwork reference")
	cmd.PersistentFlags().StringVar(&f.back, "back", "", "back artwork reference")
	cmd.PersistentFlags().StringVar(&f.leftSleeve, "left-sleeve", "", "left sleeve artwork reference")
	cmd.PersistentFlags().StringVar(&f.rightSleeve, "right-sleeve", "", "right sleeve artwork reference")
	cmd.PersistentFlags().StringVar(&f.collar, "collar", "", "collar artwork reference")
}

func (f *exportFlags) imageSet() view.ImageSet {
	return view.ImageSet{
		Front:       f.front,
		Back:        f.back,
		LeftSleeve:  f.leftSleeve,
		RightSleeve: f.rightSleeve,
		Collar:      f.collar,
	}
}

// loadRosterFile parses a roster from disk, picking the parser by
// extension.
func loadRosterFile(path string) (roster.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoster, err, "open roster %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return roster.ParseCSV(f)
	}
	return roster.ParseJSON(f)
}

// newStudioSession builds a configured session and brings it to the
// requested player and view.
func newStudioSession(cmd *cobra.Command, opts *rootOptions, flags *exportFlags) (*studio.Session, export.Quality, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, "", err
	}
	if flags.outDir != "" {
		cfg.Export.Dir = flags.outDir
	}

	qualityName := flags.quality
	if qualityName == "" {
		qualityName = cfg.Export.Quality
	}
	if qualityName == "" {
		qualityName = string(export.QualityHigh)
	}
	quality, err := export.ParseQuality(qualityName)
	if err != nil {
		return nil, "", err
	}

	sc, err := cfg.newStudioConfig(ctx, logger)
	if err != nil {
		return nil, "", err
	}
	sess, err := studio.NewSession(ctx, sc)
	if err != nil {
		return nil, "", err
	}

	if flags.rosterPath != "" {
		team, err := loadRosterFile(flags.rosterPath)
		if err != nil {
			return nil, "", err
		}
		if err := sess.SetRoster(team); err != nil {
			return nil, "", err
		}
	}
	if err := sess.SetImageSet(ctx, flags.imageSet()); err != nil {
		return nil, "", err
	}

	if len(sess.Roster()) > 0 {
		if err := sess.SelectPlayer(ctx, flags.player); err != nil {
			return nil, "", err
		}
	}

	v, err := scene.ParseView(flags.viewName)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidView, err, "--view")
	}
	if err := sess.SelectView(ctx, v); err != nil {
		return nil, "", err
	}
	return sess, quality, nil
}

// newExportCmd creates the export command family.
func newExportCmd(opts *rootOptions) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current design as a print-ready PNG",
		Long: `Export renders the selected view for one roster player at high resolution,
cropped to the design's tight bounding box with a transparent background.

Each produced image deducts one point from the configured points account.`,
		Example: `  kitforge export --roster team.csv --back back.png --player 2 --quality ultra
  kitforge export all --roster team.csv --front f.png --back b.png
  kitforge export component leftSleeve --left-sleeve ls.png
  kitforge export bulk --roster team.csv --back b.png --view back`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, quality, err := newStudioSession(cmd, opts, flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			sp := newSpinnerWithContext(cmd.Context(), "Rendering export...")
			sp.Start()
			path, err := sess.ExportView(cmd.Context(), quality)
			if err != nil {
				sp.StopWithError(errors.UserMessage(err))
				return err
			}
			sp.StopWithSuccess("Export complete")
			printFile(path)
			return nil
		},
	}
	flags.register(cmd)

	cmd.AddCommand(newExportAllCmd(opts, flags))
	cmd.AddCommand(newExportComponentCmd(opts, flags))
	cmd.AddCommand(newExportBulkCmd(opts, flags))
	return cmd
}

func newExportAllCmd(opts *rootOptions, flags *exportFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Export every view that has design content",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, quality, err := newStudioSession(cmd, opts, flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			paths, err := sess.ExportAll(cmd.Context(), quality)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			prog.done(fmt.Sprintf("Exported %d view(s)", len(paths)))
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}
}

func newExportComponentCmd(opts *rootOptions, flags *exportFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "component <leftSleeve|rightSleeve|collar>",
		Short:     "Export a single component cropped to its own bounds",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"leftSleeve", "rightSleeve", "collar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := componentKind(args[0])
			if err != nil {
				return err
			}

			sess, quality, err := newStudioSession(cmd, opts, flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			path, err := sess.ExportComponent(cmd.Context(), kind, quality)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			printSuccess("Component exported")
			printFile(path)
			return nil
		},
	}
}

func newExportBulkCmd(opts *rootOptions, flags *exportFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk",
		Short: "Export the active view for the whole roster into one archive",
		Long: `Bulk export renders the currently selected view once per roster entry,
swapping only the player-bound name and number between renders, and
packages everything into a single dated zip archive. Any failure aborts
the whole batch; no partial archive is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, quality, err := newStudioSession(cmd, opts, flags)
			if err != nil {
				return err
			}
			defer sess.Close()

			team := sess.Roster()
			if len(team) == 0 {
				return errors.New(errors.ErrCodeInvalidRoster, "bulk export needs --roster")
			}

			path, err := runBulkTUI(cmd.Context(), sess, team, quality)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			printSuccess("Bulk export complete (%d players)", len(team))
			printFile(path)
			return nil
		},
	}
}

func componentKind(name string) (scene.Kind, error) {
	switch strings.ToLower(name) {
	case "leftsleeve", "left-sleeve":
		return scene.KindSleeveLeft, nil
	case "rightsleeve", "right-sleeve":
		return scene.KindSleeveRight, nil
	case "collar":
		return scene.KindCollar, nil
	}
	return scene.KindUnknown, errors.New(errors.ErrCodeComponentNotFound, "unknown component %q", name)
}
