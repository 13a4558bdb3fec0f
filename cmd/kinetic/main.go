package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vinubadlani/Video-Gen/internal/config"
	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/engine"
	"github.com/vinubadlani/Video-Gen/internal/source"
	"github.com/vinubadlani/Video-Gen/internal/system"
	"github.com/vinubadlani/Video-Gen/internal/timeline"
	"github.com/vinubadlani/Video-Gen/internal/video"
)

var buildVersion = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "kinetic",
		Short: "Render kinetic typography videos from a scene script",
		Long: `kinetic turns a list of text scenes and a narration track into a vertical
kinetic typography video. Scene timing follows the narration length.

Examples:
  # Build a script from one line per scene
  kinetic scenes -i lines.txt --topic "Why sleep matters"

  # Render the latest script with the latest narration
  kinetic render

  # Inspect the frame ranges
  kinetic timeline -i input/scripts/why-sleep-matters.yaml --duration 42`,
		SilenceUsage: true,
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render the full video",
		RunE:  runRender,
	}

	frameCmd = &cobra.Command{
		Use:   "frame <index>",
		Short: "Render a single frame to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  runFrame,
	}

	timelineCmd = &cobra.Command{
		Use:   "timeline",
		Short: "Print the scene frame ranges",
		RunE:  runTimeline,
	}

	scenesCmd = &cobra.Command{
		Use:   "scenes",
		Short: "Build a YAML script from plain text, one scene per line",
		RunE:  runScenes,
	}
)

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	for _, c := range []*cobra.Command{renderCmd, frameCmd, timelineCmd} {
		c.Flags().StringP("input", "i", "", "Script (.yaml) or lines (.txt); default: latest script in the scripts dir")
		c.Flags().StringP("audio", "a", "", "Narration audio; default: latest file in the audio dir")
		c.Flags().Float64("duration", 0, "Duration in seconds when no audio is available")
		c.Flags().Int("fps", 30, "Frames per second")
		c.Flags().Bool("debug", false, "Draw the debug overlay")
	}
	for _, c := range []*cobra.Command{renderCmd, frameCmd} {
		c.Flags().Int("width", 1080, "Width")
		c.Flags().Int("height", 1920, "Height")
	}

	renderCmd.Flags().StringP("output", "o", "", "Output video; default: generated in the output dir")
	renderCmd.Flags().Int("workers", 0, "Frame workers (0 sizes the pool from CPU and memory)")
	renderCmd.Flags().Int("quality", 0, "Quality (0 auto; x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	renderCmd.Flags().String("encoder", "", "H.264 encoder; default: best available")
	renderCmd.Flags().Bool("stats", false, "Report timing statistics")

	frameCmd.Flags().StringP("output", "o", "frame.png", "Output PNG")

	scenesCmd.Flags().StringP("input", "i", "", "Plain text file, one scene per line")
	scenesCmd.Flags().String("topic", "", "Video topic; default: input file name")
	scenesCmd.Flags().StringP("output", "o", "", "Output script; default: generated in the scripts dir")
	scenesCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(renderCmd, frameCmd, timelineCmd, scenesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[-] Error:", err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zcfg.DisableCaller = true
	}
	return zcfg.Build()
}

// loadConfig reads the config file and environment, then applies the
// flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.BuildVersion = buildVersion

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.ScriptPath, _ = flags.GetString("input")
	}
	if flags.Changed("audio") {
		cfg.AudioPath, _ = flags.GetString("audio")
	}
	if flags.Changed("output") && cmd.Name() != "frame" {
		cfg.OutputVideo, _ = flags.GetString("output")
	}
	if flags.Changed("duration") {
		cfg.DurationSeconds, _ = flags.GetFloat64("duration")
	}
	if flags.Changed("fps") {
		cfg.FPS, _ = flags.GetInt("fps")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Lookup("width") != nil && flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Lookup("height") != nil && flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Lookup("quality") != nil && flags.Changed("quality") {
		cfg.Quality, _ = flags.GetInt("quality")
	}
	if flags.Lookup("encoder") != nil && flags.Changed("encoder") {
		cfg.VideoEncoder, _ = flags.GetString("encoder")
	}
	if flags.Lookup("stats") != nil && flags.Changed("stats") {
		cfg.ShowStats, _ = flags.GetBool("stats")
	}

	return cfg, cfg.Validate()
}

// resolveInputs fills in the latest script and narration when none were given.
func resolveInputs(cfg *config.Config, logger *zap.Logger) error {
	if cfg.ScriptPath == "" {
		latest, err := director.FindLatestScript(cfg.ScriptsDir)
		if err != nil {
			return errors.Wrapf(err, "no input given; put a script in %s", cfg.ScriptsDir)
		}
		cfg.ScriptPath = latest
		logger.Info("[*] Selected script", zap.String("path", latest))
	}

	if cfg.AudioPath == "" {
		latest, err := system.FindLatestAudio(cfg.AudioDir)
		if err == nil {
			cfg.AudioPath = latest
			logger.Info("[*] Selected audio", zap.String("path", latest))
		}
	}
	return nil
}

func prepareProject(cmd *cobra.Command, enc video.VideoEncoder) (*engine.RenderProject, *zap.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, logger, err
	}
	if err := resolveInputs(cfg, logger); err != nil {
		return nil, logger, err
	}

	src, err := source.NewSource(cfg.ScriptPath)
	if err != nil {
		return nil, logger, err
	}
	return engine.NewRenderProject(cfg, src, enc, logger), logger, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	for _, d := range []string{"input/scripts", "input/audio", "output"} {
		os.MkdirAll(d, 0755)
	}

	enc := video.NewFFmpegEncoder(nil, nil)
	project, logger, err := prepareProject(cmd, enc)
	if err != nil {
		return err
	}
	defer logger.Sync()
	enc.Logger = project.Logger

	system.InitResourceLimits(logger)

	cfg := project.Config
	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder = system.GetBestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			logger.Info("[*] Hardware encoder detected", zap.String("encoder", cfg.VideoEncoder))
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
	}
	if cfg.OutputVideo == "" {
		cfg.OutputVideo = defaultOutputPath(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := project.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("[+++] Done! Result: %s\n", cfg.OutputVideo)
	return nil
}

func defaultOutputPath(cfg *config.Config) string {
	name := director.Slugify(strings.TrimSuffix(filepath.Base(cfg.ScriptPath), filepath.Ext(cfg.ScriptPath)))
	if name == "" {
		name = "video"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.mp4", name, timestamp))
}

func planFromFlags(cmd *cobra.Command) (*engine.RenderProject, *timeline.Timeline, error) {
	project, logger, err := prepareProject(cmd, nil)
	if err != nil {
		return nil, nil, err
	}
	defer logger.Sync()

	script, err := project.LoadScript()
	if err != nil {
		return nil, nil, err
	}
	seconds, err := project.AudioSeconds()
	if err != nil {
		return nil, nil, err
	}
	tl, err := project.Plan(script, seconds)
	if err != nil {
		return nil, nil, err
	}
	return project, tl, nil
}

func runFrame(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Errorf("invalid frame index %q", args[0])
	}

	project, tl, err := planFromFlags(cmd)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if err := project.WriteFrame(tl, index, out); err != nil {
		return err
	}
	fmt.Printf("[+] Frame %d/%d written to %s\n", index, tl.Config().TotalFrames, out)
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	_, tl, err := planFromFlags(cmd)
	if err != nil {
		return err
	}
	fmt.Println(renderTimelineTable(tl))
	return nil
}

func runScenes(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	src := source.NewLinesSource(input)
	if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
		src.Topic = topic
	}

	script, err := src.Load()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = director.GenerateScriptPath(cfg.ScriptsDir, script.Topic)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return errors.Wrap(err, "create scripts directory")
	}
	if err := director.WriteScript(script, out); err != nil {
		return err
	}

	logger.Info("[+++] Script saved", zap.String("path", out), zap.Int("scenes", len(script.Scenes)))
	return nil
}
