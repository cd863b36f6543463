package cmd

import (
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chip8/emu/audio"
	"chip8/emu/cpu"
	"chip8/emu/screen"
	"chip8/emu/shell"
	"chip8/emu/terminal"
)

var startCmd = &cobra.Command{
	Use:   "start <rom>",
	Short: "load a ROM and start the emulator",
	Long: "Loads the given ROM image into the machine at 0x200 and runs it. " +
		"Keys 1234/QWER/ASDF/ZXCV map to the hex pad, = and - change the emulation " +
		"speed, ESC quits.",
	Args: cobra.ExactArgs(1),
	Run:  start,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().IntP("refresh", "r", 60, "display refresh and timer rate in Hz")
	startCmd.Flags().IntP("cycles", "c", 10, "instructions executed per frame")
	startCmd.Flags().Float64P("scale", "s", 10, "window scale factor")
	startCmd.Flags().Bool("term", false, "render in the terminal instead of a window")
	startCmd.Flags().Bool("mute", false, "disable the beeper")
	startCmd.Flags().Bool("debug", false, "debug logging, including an instruction trace")
	startCmd.Flags().Int64("seed", 0, "fixed seed for the RND instruction (0 seeds from the clock)")

	cobra.CheckErr(viper.BindPFlags(startCmd.Flags()))
}

func start(cmd *cobra.Command, args []string) {
	debug := viper.GetBool("debug")
	logger := newLogger(debug)

	romPath := args[0]
	rom, err := os.ReadFile(romPath)
	if err != nil {
		logger.Fatal("reading ROM", log.Err(err))
	}

	opts := cpu.Options{
		Rand: cpu.SeededRand(viper.GetInt64("seed")),
	}
	if debug {
		opts.Trace = logger
	}
	m := cpu.New(&opts)
	if err := m.Load(rom); err != nil {
		logger.Fatal("loading ROM", log.String("path", romPath), log.Err(err))
	}
	logger.Info("ROM loaded", log.String("path", romPath), log.Int("bytes", len(rom)))

	var fe shell.Frontend
	if viper.GetBool("term") {
		fe, err = terminal.New()
	} else {
		fe, err = screen.New("chip8", viper.GetFloat64("scale"))
	}
	if err != nil {
		logger.Fatal("initialising frontend", log.Err(err))
	}

	var bp shell.Beeper
	if !viper.GetBool("mute") {
		b, err := audio.New()
		if err != nil {
			// no audio device is not fatal, run silent
			logger.Warn("audio unavailable", log.Err(err))
		} else {
			bp = b
		}
	}

	cfg := shell.Config{
		RefreshRate:    viper.GetInt("refresh"),
		CyclesPerFrame: viper.GetInt("cycles"),
	}
	if err := shell.Run(m, fe, bp, logger, cfg); err != nil {
		logger.Fatal(err.Error())
	}
}
