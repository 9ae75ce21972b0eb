package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/danswartzendruber/basic-core/compiler"
	"github.com/danswartzendruber/basic-core/errinfo"
	"github.com/danswartzendruber/basic-core/isa"
	"github.com/danswartzendruber/basic-core/token"
	"github.com/danswartzendruber/basic-core/ast"
	"github.com/danswartzendruber/basic-core/vm"
	"github.com/danswartzendruber/liner"
	"github.com/goforj/godump"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

const version = "0.1.0"

// g holds the driver's own state: a REPL liner, a widedivide pragma flag,
// and the trace/stats switches parsed from os.Args.
var g struct {
	repl       *liner.State
	traceAST   bool
	traceBC    bool
	stats      bool
	wideDivide bool
}

func main() {
	defer cleanupRepl()

	var fname string

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-trace-ast":
			g.traceAST = true
		case "-trace-bytecode":
			g.traceBC = true
		case "-stats":
			g.stats = true
		case "-wide-divide":
			g.wideDivide = true
		default:
			if strings.HasPrefix(arg, "-") {
				crash("unknown flag " + arg)
			}
			if fname != "" {
				crash("usage: basic [-trace-ast] [-trace-bytecode] [-stats] [-wide-divide] [program]")
			}
			fname = arg
		}
	}

	if fname != "" {
		runFile(fname)
		return
	}

	checkTerminal()
	repl()
}

func crash(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func checkTerminal() {
	if !term.IsTerminal(0) {
		crash("standard input must be a terminal for the REPL; pass a filename to run a program in batch mode")
	}
}

func runFile(fname string) {
	src, err := ioutil.ReadFile(fname)
	if err != nil {
		crash(err.Error())
	}

	if err := runSource(src, os.Stdout); err != nil {
		crash(err.Error())
	}
}

// repl reads one line at a time from a liner.State, each line a complete
// program in its own right, until the user types QUIT or sends EOF.
func repl() {
	g.repl = liner.NewLiner()
	defer cleanupRepl()

	fmt.Printf("basic-core %s\n", version)

	for {
		line, err := g.repl.Prompt("] ")
		if err != nil {
			// io.EOF on ^D, liner.ErrPromptAborted on ^C: either way,
			// the REPL simply exits.
			return
		}

		g.repl.AppendHistory(line)

		if strings.EqualFold(strings.TrimSpace(line), "QUIT") {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := runSource([]byte(line), os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func cleanupRepl() {
	if g.repl != nil {
		g.repl.Close()
		g.repl = nil
	}
}

// runSource drives the full tokenize -> parse -> compile -> run pipeline
// for one source buffer, writing PRINT output to w.
func runSource(src []byte, w io.Writer) error {
	var info errinfo.ErrorInfo

	startUser, startSys := getCPUInfo(1)

	toks, err := token.Tokenize(src)
	if err != nil {
		errinfo.Fill(&info, err)
		return diagnose(err, &info)
	}

	stmts, err := ast.Parse(toks)
	if err != nil {
		return diagnose(err, &info)
	}

	if g.traceAST {
		godump.Dump(stmts)
	}

	prog, err := compiler.Compile(stmts, compiler.Config{WideDivide: g.wideDivide})
	if err != nil {
		return diagnose(err, &info)
	}

	if g.traceBC {
		insts, derr := isa.Disassemble(prog.Code)
		if derr != nil {
			return derr
		}
		godump.Dump(insts)
	}

	effects := vm.NewStdEffects(w)
	defer effects.Close()

	machine := vm.New(effects, prog.SlotTypes, prog.Ranges)
	if err := machine.Run(prog.Code, &info); err != nil {
		return diagnose(err, &info)
	}

	if g.stats {
		printCPUUsage(startUser, startSys)
	}

	return nil
}

// diagnose formats a pipeline failure using info's range, if populated, in
// addition to the plain error text.
func diagnose(err error, info *errinfo.ErrorInfo) error {
	if info != nil && info.HasRange {
		return fmt.Errorf("%d:%d: %s", info.Range.StartLine, info.Range.StartCol, info.Msg)
	}
	return err
}

func printCPUUsage(startUser, startSys int64) {
	user, sys := getCPUInfo(1)
	fmt.Printf("CPU usage: user = %s / system = %s\n",
		formatCPUTime(user-startUser), formatCPUTime(sys-startSys))
}

func formatCPUTime(t int64) string {
	var h, m int64
	if t >= 3600 {
		h = t / 3600
		t %= 3600
	}
	if t >= 60 {
		m = t / 60
		t %= 60
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

// getCPUInfo reports this process's user/system CPU ticks, scaled to
// seconds via SC_CLK_TCK, by reading /proc/self/stat.
func getCPUInfo(divisor int64) (user, sys int64) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0
	}
	clktck /= divisor

	contents, err := ioutil.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	u, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}
	s, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return u / clktck, s / clktck
}
