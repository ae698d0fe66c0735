// Command c64core runs the C64 core engine: loading ROM/PRG/D64 images
// and driving the scheduler, or running the Dormann/Lorenz CPU test
// harnesses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
	"golang.org/x/term"

	c64 "github.com/sixtyfour/c64core"
	"github.com/sixtyfour/c64core/internal/testharness"
)

var (
	kernalPath string
	basicPath  string
	charPath   string
	prgPath    string
	diskPath   string
	warpMode   bool
	traceMode  bool
	pasteMode  bool
)

func main() {
	root := &cobra.Command{
		Use:   "c64core",
		Short: "C64 core emulation engine",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Boot a machine and run it",
		RunE:  runMachine,
	}
	runCmd.Flags().StringVar(&kernalPath, "kernal", "", "KERNAL ROM image")
	runCmd.Flags().StringVar(&basicPath, "basic", "", "BASIC ROM image")
	runCmd.Flags().StringVar(&charPath, "char", "", "character ROM image")
	runCmd.Flags().StringVar(&prgPath, "prg", "", "PRG program to load")
	runCmd.Flags().StringVar(&diskPath, "disk", "", "D64 disk image for drive 8")
	runCmd.Flags().BoolVar(&warpMode, "warp", false, "run at unthrottled speed")
	runCmd.Flags().BoolVar(&traceMode, "trace", false, "record an instruction trace")
	runCmd.Flags().BoolVar(&pasteMode, "paste", false, "inject host clipboard as keystrokes at start-up")

	dormannCmd := &cobra.Command{
		Use:   "dormann [test.bin]",
		Short: "Run the Klaus Dormann 6502 functional test",
		Args:  cobra.ExactArgs(1),
		RunE:  runDormann,
	}

	lorenzCmd := &cobra.Command{
		Use:   "lorenz [test.prg]",
		Short: "Run a Lorenz test-suite program",
		Args:  cobra.ExactArgs(1),
		RunE:  runLorenz,
	}

	root.AddCommand(runCmd, dormannCmd, lorenzCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMachine(cmd *cobra.Command, args []string) error {
	machine := c64.NewMachine(c64.SystemClock{})
	if err := machine.LoadROMs(c64.ROMSet{Kernal: kernalPath, Basic: basicPath, Char: charPath}, diskPath); err != nil {
		return err
	}
	machine.Reset()

	if prgPath != "" {
		if err := machine.Mem.LoadPRG(prgPath); err != nil {
			return err
		}
	}

	if pasteMode {
		if err := clipboard.Init(); err == nil {
			text := clipboard.Read(clipboard.FmtText)
			machine.Mem.TypeAhead(c64.ASCIIToPETSCII(string(text)))
		}
	}

	var tracer *c64.Tracer
	if traceMode {
		tracer = c64.NewTracer()
	}

	sched := c64.NewScheduler(machine)
	if warpMode {
		sched.Pacing = c64.PacingWarp
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		if _, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
			defer term.Restore(int(os.Stdin.Fd()), nil)
		}
	}

	steps := 0
	sched.Run(func() bool {
		if tracer != nil {
			tracer.Record(machine.CPU)
		}
		steps++
		return steps > 50_000_000
	})

	if tracer != nil {
		for _, e := range tracer.Recent(32) {
			fmt.Println(c64.Disassemble(e))
		}
	}
	return nil
}

func runDormann(cmd *cobra.Command, args []string) error {
	mem := c64.NewMemory()
	cpu := c64.NewCPU(mem)
	if err := testharness.LoadDormann(mem, args[0]); err != nil {
		return err
	}
	result := testharness.Run(cpu, mem, 200_000_000)
	if !result.Success {
		return fmt.Errorf("dormann test failed, trapped at $%04X", result.TrapPC)
	}
	fmt.Println("dormann test completed successfully")
	return nil
}

func runLorenz(cmd *cobra.Command, args []string) error {
	mem := c64.NewMemory()
	cpu := c64.NewCPU(mem)
	if _, err := testharness.LoadLorenz(mem, args[0]); err != nil {
		return err
	}
	outcome := testharness.RunLorenz(cpu, mem, 50_000_000)
	if !outcome.Success {
		fmt.Print(string(outcome.Output))
		return fmt.Errorf("lorenz test did not report success")
	}
	fmt.Print(string(outcome.Output))
	return nil
}
