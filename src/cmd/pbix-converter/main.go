package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pbix-converter/src/abort"
	"pbix-converter/src/automation"
	"pbix-converter/src/batch"
	"pbix-converter/src/clipboard"
	"pbix-converter/src/config"
	"pbix-converter/src/diag"
	"pbix-converter/src/input"
	"pbix-converter/src/logutil"
	"pbix-converter/src/procsys"
	"pbix-converter/src/winsys"
)

type cliOptions struct {
	dir          string
	all          bool
	files        string
	yes          bool
	verbose      bool
	outputFolder string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(os.Args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pbix-converter [directory]",
		Short:         "Convert Power BI PBIX files to PBIP projects by automating Power BI Desktop",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.dir = args[0]
			}
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Convert all PBIX files without prompting for a selection")
	cmd.Flags().StringVar(&opts.files, "files", "", "Comma-separated file numbers to convert (e.g. 1,3,5)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompts")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.outputFolder, "output-folder", "", "Name of the output folder created inside the working directory")

	return cmd
}

func runWithOptions(opts cliOptions) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{OutputFolderOverride: opts.outputFolder})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Configure logging BEFORE any other operations.
	if opts.verbose {
		logutil.SetupConsole()
	} else {
		logutil.Setup(cfg.EnableFileLogging)
	}

	printHeader()

	workDir, err := resolveWorkDir(opts.dir)
	if err != nil {
		return err
	}
	fmt.Printf("Working directory: %s\n\n", workDir)

	files, err := findSourceFiles(workDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No PBIX files found in the working directory.")
		fmt.Println()
		fmt.Println("Usage: pbix-converter [directory]")
		return nil
	}

	displayFiles(files)

	stdin := bufio.NewReader(os.Stdin)
	selected, err := selectFiles(files, opts, stdin)
	if err != nil {
		return err
	}
	if selected == nil {
		fmt.Println("\nConversion cancelled.")
		return nil
	}
	fmt.Printf("\nSelected %d file(s) for conversion.\n", len(selected))

	if !opts.yes {
		fmt.Println()
		fmt.Println("IMPORTANT: During conversion, do not use the mouse or keyboard.")
		fmt.Printf("The automation needs to control Power BI Desktop. Press %s to abort.\n", cfg.AbortHotkey)
		fmt.Println()
		if !promptYesNo(stdin, "Ready to begin? [Y/N]: ") {
			fmt.Println("\nConversion cancelled.")
			return nil
		}
	}

	engine := automation.NewEngine(engineConfig(cfg), automation.Deps{
		Windows: winsys.New(),
		Input:   input.New(),
		Clip:    clipboard.Board{},
		Procs:   procsys.New(),
	})

	fmt.Println()
	if err := checkPrerequisites(engine, opts, stdin); err != nil {
		return err
	}

	if cfg.FailureScreenshots {
		engine.OnFailure = func(req automation.Request, reason string) {
			if path, err := diag.CaptureFailure(req.OutputDir, req.ProjectName); err != nil {
				log.Printf("Could not capture failure screenshot: %v", err)
			} else {
				fmt.Printf("  Failure screenshot: %s\n", path)
			}
		}
	}

	abort.Arm(cfg.AbortHotkey, func() {
		fmt.Println("\nAbort hotkey pressed, force-stopping Power BI Desktop...")
		engine.KillAll()
	})
	defer abort.Disarm()

	outputBase := filepath.Join(workDir, cfg.OutputFolderName)
	if err := os.MkdirAll(outputBase, 0o755); err != nil {
		return fmt.Errorf("cannot create output folder %s: %w", outputBase, err)
	}
	fmt.Printf("Output folder: %s\n", outputBase)

	results := batch.Run(buildItems(selected, outputBase), func(source, outputDir, name string) (bool, string) {
		req, err := automation.NewRequest(source, outputDir, name)
		if err != nil {
			return false, err.Error()
		}
		out := engine.Convert(req)
		return out.Success, out.Message
	}, func(index, total int, item batch.Item) {
		fmt.Printf("\nConverting %s... [%d/%d]\n", filepath.Base(item.Source), index, total)
		fmt.Printf("  Output: %s\n", item.OutputDir)
		fmt.Println("  Opening Power BI Desktop...")
	})

	printSummary(results)

	if !results.AllSucceeded() {
		return fmt.Errorf("%d conversion(s) failed", len(results.Failed))
	}
	return nil
}

// engineConfig maps the loaded runtime configuration onto the protocol
// constants, keeping the built-in defaults where nothing was overridden.
func engineConfig(cfg *config.Config) automation.Config {
	ec := automation.Default()
	if len(cfg.InstallPaths) > 0 {
		ec.InstallPaths = cfg.InstallPaths
	}
	ec.StartupTimeout = time.Duration(cfg.StartupTimeoutSec) * time.Second
	ec.DialogTimeout = time.Duration(cfg.DialogTimeoutSec) * time.Second
	ec.SaveTimeout = time.Duration(cfg.SaveTimeoutSec) * time.Second
	return ec
}

func printHeader() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("  Power BI PBIX to PBIP Converter")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return "", fmt.Errorf("'%s' is not a valid directory", dir)
	}
	return filepath.Abs(dir)
}

func findSourceFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.pbix"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func displayFiles(files []string) {
	fmt.Printf("Found %d PBIX file(s):\n\n", len(files))
	for i, f := range files {
		sizeMB := 0.0
		if st, err := os.Stat(f); err == nil {
			sizeMB = float64(st.Size()) / (1024 * 1024)
		}
		fmt.Printf("  %d. %s (%.1f MB)\n", i+1, filepath.Base(f), sizeMB)
	}
	fmt.Println()
}

// selectFiles returns the files to convert, or nil when the user quits.
func selectFiles(files []string, opts cliOptions, stdin *bufio.Reader) ([]string, error) {
	if opts.all {
		return files, nil
	}
	if opts.files != "" {
		indices, invalid := parseSelection(opts.files, len(files))
		for _, bad := range invalid {
			fmt.Printf("  Warning: Ignoring invalid number %s\n", bad)
		}
		if len(indices) == 0 {
			return nil, fmt.Errorf("no valid file numbers in --files=%s", opts.files)
		}
		return pick(files, indices), nil
	}

	fmt.Println("Options:")
	fmt.Println("  [A] Convert all files")
	fmt.Println("  [S] Select specific files (enter numbers separated by commas)")
	fmt.Println("  [Q] Quit")
	fmt.Println()

	for {
		choice := strings.ToUpper(prompt(stdin, "Your choice: "))
		switch choice {
		case "Q":
			return nil, nil
		case "A":
			return files, nil
		case "S":
			selection := prompt(stdin, "Enter file numbers (e.g. 1,3,5): ")
			indices, invalid := parseSelection(selection, len(files))
			for _, bad := range invalid {
				fmt.Printf("  Warning: Ignoring invalid number %s\n", bad)
			}
			if len(indices) > 0 {
				return pick(files, indices), nil
			}
			fmt.Println("  No valid files selected. Please try again.")
		default:
			fmt.Println("  Invalid choice. Please enter A, S, or Q.")
		}
	}
}

// parseSelection parses comma-separated 1-based file numbers, returning the
// valid indices in input order and the rejected tokens.
func parseSelection(selection string, max int) (indices []int, invalid []string) {
	for _, tok := range strings.Split(selection, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > max {
			invalid = append(invalid, tok)
			continue
		}
		indices = append(indices, n)
	}
	return indices, invalid
}

func pick(files []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		out = append(out, files[i-1])
	}
	return out
}

func checkPrerequisites(engine *automation.Engine, opts cliOptions, stdin *bufio.Reader) error {
	fmt.Println("Checking prerequisites...")

	exePath, found := engine.Locate()
	if !found {
		fmt.Println()
		fmt.Println("ERROR: Power BI Desktop not found!")
		fmt.Println()
		fmt.Println("Please install Power BI Desktop from:")
		fmt.Println("  https://powerbi.microsoft.com/desktop/")
		fmt.Println()
		fmt.Println("After installation, ensure the PBIP preview feature is enabled:")
		fmt.Println("  1. Open Power BI Desktop")
		fmt.Println("  2. Go to File > Options and settings > Options")
		fmt.Println("  3. Select 'Preview features'")
		fmt.Println("  4. Check 'Power BI Project (.pbip) save option'")
		fmt.Println("  5. Restart Power BI Desktop")
		return fmt.Errorf("Power BI Desktop is not installed")
	}
	fmt.Printf("  Power BI Desktop found: %s\n", exePath)

	if engine.IsRunning() {
		fmt.Println()
		fmt.Println("WARNING: Power BI Desktop is currently running.")
		fmt.Println()
		if opts.yes || promptYesNo(stdin, "Close Power BI Desktop to continue? [Y/N]: ") {
			fmt.Println("  Closing Power BI Desktop...")
			if !engine.CloseGracefully() {
				return fmt.Errorf("could not close the running Power BI Desktop instance")
			}
			fmt.Println("  Done.")
		} else {
			fmt.Println()
			fmt.Println("Please close Power BI Desktop manually and try again.")
			return fmt.Errorf("Power BI Desktop is already running")
		}
	}

	fmt.Println("  Prerequisites OK")
	fmt.Println()
	return nil
}

func buildItems(files []string, outputBase string) []batch.Item {
	items := make([]batch.Item, len(files))
	for i, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		items[i] = batch.Item{
			Source:    f,
			OutputDir: filepath.Join(outputBase, name),
			Name:      name,
		}
	}
	return items
}

func printSummary(results batch.Results) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("  Conversion Summary")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()
	fmt.Printf("  Successful: %d\n", len(results.Succeeded))
	fmt.Printf("  Failed:     %d\n", len(results.Failed))
	fmt.Println()

	if len(results.Succeeded) > 0 {
		fmt.Println("Successful conversions:")
		for _, name := range results.Succeeded {
			fmt.Printf("    %s\n", name)
		}
		fmt.Println()
	}

	if len(results.Failed) > 0 {
		fmt.Println("Failed conversions:")
		for _, rec := range results.Failed {
			fmt.Printf("    %s\n", rec.File)
			fmt.Printf("      Reason: %s\n", rec.Reason)
		}
		fmt.Println()
	}
}

func prompt(stdin *bufio.Reader, text string) string {
	fmt.Print(text)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptYesNo(stdin *bufio.Reader, text string) bool {
	return strings.EqualFold(prompt(stdin, text), "y")
}
