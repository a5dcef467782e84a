// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gones/internal/app"
	"gones/internal/version"

	"github.com/golang/glog"
	"github.com/sqweek/dialog"
)

func main() {
	defer glog.Flush()

	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile = flag.String("config", "", "Path to configuration file")
		debug      = flag.Bool("debug", false, "Enable debug mode")
		nogui      = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *version {
		printVersion()
		os.Exit(0)
	}

	setupGracefulShutdown()

	fmt.Println("gones - Go NES Emulator")

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		glog.Exitf("failed to create application: %v", err)
	}

	if *nogui {
		config := application.GetConfig()
		config.Video.Backend = "headless"
		fmt.Println("Headless mode requested")
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			glog.Errorf("application cleanup error: %v", err)
		}
	}()

	if *debug {
		config := application.GetConfig()
		config.UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
		fmt.Println("Debug mode enabled")
	}

	selectedROM := *romFile
	if selectedROM == "" && !*nogui {
		selectedROM = promptForROM()
	}

	if selectedROM != "" {
		fmt.Printf("Loading ROM: %s\n", selectedROM)
		if err := application.LoadROM(selectedROM); err != nil {
			glog.Exitf("failed to load ROM: %v", err)
		}
		fmt.Println("ROM loaded successfully")

		// PPU/memory are rebuilt around the new cartridge on load.
		if *debug {
			application.ApplyDebugSettings()
		}
	}

	if *nogui {
		fmt.Println("Running in headless mode...")
		if selectedROM == "" {
			glog.Exit("ROM file required for headless mode")
		}
		runHeadlessMode(application)
	} else {
		fmt.Println("Starting GUI mode...")
		if err := runGUIMode(application); err != nil {
			glog.Exitf("GUI mode failed: %v", err)
		}
	}

	fmt.Println("Emulator shutting down...")
}

// promptForROM opens a native file-picker dialog so users launching
// without -rom can choose a cartridge interactively.
func promptForROM() string {
	path, err := dialog.File().
		Title("Select NES ROM").
		Filter("NES ROM files", "nes").
		Load()
	if err != nil {
		glog.V(1).Infof("rom picker cancelled or unavailable: %v", err)
		return ""
	}
	return path
}

// runGUIMode runs the full GUI application
func runGUIMode(application *app.Application) error {
	fmt.Println("Initializing GUI application...")

	config := application.GetConfig()
	windowWidth, windowHeight := config.GetWindowResolution()
	fmt.Printf("   Window: %dx%d (Scale: %dx)\n", windowWidth, windowHeight, config.Window.Scale)
	fmt.Printf("   Audio: %s (%d Hz, %.0f%% volume)\n",
		enabledString(config.Audio.Enabled),
		config.Audio.SampleRate,
		config.Audio.Volume*100)
	fmt.Printf("   Video: %s, %s, VSync: %s\n",
		config.Video.Filter,
		config.Video.AspectRatio,
		enabledString(config.Video.VSync))

	fmt.Println("Starting main application loop...")
	if err := application.Run(); err != nil {
		return fmt.Errorf("application run failed: %v", err)
	}

	fmt.Printf("Session statistics:\n")
	fmt.Printf("   Frames rendered: %d\n", application.GetFrameCount())
	fmt.Printf("   Session time: %v\n", application.GetUptime())
	fmt.Printf("   Average FPS: %.1f\n", application.GetFPS())

	return nil
}

// runHeadlessMode runs the emulator without GUI (for testing/automation),
// dumping a handful of frame buffers to PPM files along the way.
func runHeadlessMode(application *app.Application) {
	fmt.Println("Running emulator in headless mode...")

	b := application.GetBus()
	if b == nil {
		glog.Exit("bus not initialized")
	}

	const (
		targetFrames   = 120
		cyclesPerFrame = 29780
	)
	for frame := 0; frame < targetFrames; frame++ {
		b.RunCycles(cyclesPerFrame)

		if frame == 30 || frame == 60 || frame == targetFrames-1 {
			fmt.Printf("Capturing frame %d...\n", frame+1)
			frameBuffer := b.PPU.GetFrameBuffer()
			saveFrameBufferAsPPM(frameBuffer, fmt.Sprintf("frame_%03d.ppm", frame+1))
			analyzeFrameBuffer(frameBuffer, frame+1)
		}

		if frame%30 == 29 {
			fmt.Printf("%d/%d frames complete\n", frame+1, targetFrames)
		}
	}

	fmt.Println("Headless run complete")
	fmt.Println("Generated files:")
	fmt.Println("   - frame_031.ppm")
	fmt.Println("   - frame_061.ppm")
	fmt.Println("   - frame_120.ppm")
}

// saveFrameBufferAsPPM saves the frame buffer as a PPM image file
func saveFrameBufferAsPPM(frameBuffer [256 * 240]uint32, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		glog.Errorf("failed to create %s: %v", filename, err)
		return
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n256 240\n255\n")

	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			pixel := frameBuffer[y*256+x]
			r := (pixel >> 16) & 0xFF
			g := (pixel >> 8) & 0xFF
			b := pixel & 0xFF
			fmt.Fprintf(file, "%d %d %d ", r, g, b)
		}
		fmt.Fprintf(file, "\n")
	}

	fmt.Printf("%s saved\n", filename)
}

// analyzeFrameBuffer prints a quick color-distribution summary of a frame.
func analyzeFrameBuffer(frameBuffer [256 * 240]uint32, frame int) {
	colorCounts := make(map[uint32]int)
	for _, pixel := range frameBuffer {
		colorCounts[pixel]++
	}

	nonBlackPixels := 0
	for color, count := range colorCounts {
		if color != 0x000000 {
			nonBlackPixels += count
		}
	}

	fmt.Printf("   frame %d: %d distinct colors, %d non-black pixels (%.1f%%)\n",
		frame, len(colorCounts), nonBlackPixels,
		float64(nonBlackPixels)/float64(256*240)*100)

	if len(colorCounts) > 1 {
		fmt.Printf("   dominant colors: ")
		count := 0
		for color, pixels := range colorCounts {
			if count >= 3 {
				break
			}
			percentage := float64(pixels) / float64(256*240) * 100
			fmt.Printf("0x%06X(%.1f%%) ", color, percentage)
			count++
		}
		fmt.Println()
	}
}

// setupGracefulShutdown sets up signal handling for graceful shutdown
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nInterrupt received, shutting down gracefully...")
		os.Exit(0)
	}()
}

// enabledString returns "enabled" or "disabled" based on boolean value
func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func printVersion() {
	version.PrintBuildInfo()
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  A cycle-accurate NES (Nintendo Entertainment System) emulator written in Go.")
	fmt.Println("  Features ebitengine-based graphics and audio, save states,")
	fmt.Println("  and a native ROM picker.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options]                    # Start GUI mode, pick ROM from dialog")
	fmt.Println("  gones -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  gones -nogui -rom <file> [options] # Run headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  gones                              # Start GUI, choose ROM from dialog")
	fmt.Println("  gones -rom game.nes                # Start with ROM loaded")
	fmt.Println("  gones -rom game.nes -debug         # Start with debug info enabled")
	fmt.Println("  gones -config custom.json          # Use custom configuration")
	fmt.Println("  gones -nogui -rom test.nes         # Run headless for testing")
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("  Player 1:")
	fmt.Println("    Arrow Keys / WASD - D-Pad")
	fmt.Println("    J / Z             - A Button")
	fmt.Println("    K / X             - B Button")
	fmt.Println("    Enter             - Start")
	fmt.Println("    Space             - Select")
	fmt.Println()
	fmt.Println("  Special Keys:")
	fmt.Println("    Escape (2x)       - Quit (double-tap within 3 seconds)")
	fmt.Println("    F1-F10            - Save States")
	fmt.Println("    Shift+F1-F10      - Load States")
	fmt.Println("    F11 / F12         - Not bound")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("  Config file: ./config/gones.json")
	fmt.Println("  ROMs:        ./roms/")
	fmt.Println("  Save States: ./states/")
	fmt.Println("  Screenshots: ./screenshots/")
	fmt.Println()
	fmt.Println("SUPPORTED MAPPERS:")
	fmt.Println("  - NROM (Mapper 0)")
	fmt.Println("  - MMC1 (Mapper 1)")
	fmt.Println("  - MMC3 (Mapper 4)")
	fmt.Println()
	fmt.Println("For more information, visit the project documentation.")
}
