// Package trace is an interactive IR inspector: a liner-driven prompt
// loop with colorized output that prints resolved types, ADT layouts,
// function bodies, and IFaceImpls entries for a compilation run the
// driver already completed. It does not evaluate anything — gelixc
// builds IR, never runs it — so this is strictly a read-only browser
// over the driver's output.
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/gelix-lang/gelixc/internal/driver"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

var commands = []string{
	":help", ":quit", ":modules", ":errors", ":adt", ":fn", ":impls", ":history", ":clear",
}

// Inspector browses one completed compilation run: every module the
// driver processed, the Result it produced, and the shared ImplTable
// every interface-impl pass invocation populated. Queries against the
// table never error, even for an implementor with no registered impls.
type Inspector struct {
	Modules []*symbols.Module
	Result  *driver.Result
	Impls   *symbols.ImplTable

	history []string
}

// New builds an inspector over a finished run. Callers typically build
// this right after PassDriver.Run returns, passing d.Ctx.Impls.
func New(modules []*symbols.Module, result *driver.Result, impls *symbols.ImplTable) *Inspector {
	return &Inspector{Modules: modules, Result: result, Impls: impls}
}

// Start begins the interactive session, reading commands from in and
// writing output to out.
func (ins *Inspector) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".gelixc_trace_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s\n", bold("gelixc trace"))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(prefix string) (c []string) {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, prefix) {
				c = append(c, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("gir> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		ins.history = append(ins.history, input)

		if input == ":quit" || input == ":q" {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		ins.handle(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (ins *Inspector) handle(input string, out io.Writer) {
	fields := strings.Fields(input)
	cmd := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case ":help":
		ins.printHelp(out)
	case ":modules":
		ins.printModules(out)
	case ":errors":
		ins.printErrors(out)
	case ":adt":
		ins.printAdt(arg, out)
	case ":fn":
		ins.printFn(arg, out)
	case ":impls":
		ins.printImpls(arg, out)
	case ":history":
		for i, h := range ins.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
	case ":clear":
		ins.history = nil
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", yellow("warning"), cmd)
	}
}

func (ins *Inspector) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :modules            list every module in this run")
	fmt.Fprintln(out, "  :errors             list accumulated error reports")
	fmt.Fprintln(out, "  :adt <Name>         print an ADT's fields/methods/constructors")
	fmt.Fprintln(out, "  :fn <Name>          print a free function's signature and body")
	fmt.Fprintln(out, "  :impls <Name>       print the IFaceImpls entries for an implementor")
	fmt.Fprintln(out, "  :history            show command history")
	fmt.Fprintln(out, "  :clear              clear command history")
	fmt.Fprintln(out, "  :quit               exit")
}

func (ins *Inspector) printModules(out io.Writer) {
	for _, m := range ins.Modules {
		names := make([]string, 0, len(m.Decls))
		for name := range m.Decls {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(out, "%s %s  (%d declarations: %s)\n", cyan("module"), m.Path.String(), len(names), strings.Join(names, ", "))
	}
}

func (ins *Inspector) printErrors(out io.Writer) {
	if len(ins.Result.Errors) == 0 {
		fmt.Fprintln(out, green("no errors"))
		return
	}
	for _, rep := range ins.Result.Errors {
		fmt.Fprintf(out, "%s [%s/%s] %s\n", red("error"), rep.Phase, rep.Code, rep.Message)
	}
}

func (ins *Inspector) findDecl(name string) (*symbols.Declaration, bool) {
	for _, m := range ins.Modules {
		if d, ok := m.Lookup(name); ok {
			return d, true
		}
	}
	return nil, false
}

func (ins *Inspector) printAdt(name string, out io.Writer) {
	decl, ok := ins.findDecl(name)
	if !ok || decl.Adt == nil {
		fmt.Fprintf(out, "%s: no ADT named %q\n", red("error"), name)
		return
	}
	adt := decl.Adt
	fmt.Fprintf(out, "%s %s (%s)\n", bold(adt.Name), dim(adt.Kind.String()), typeParamsString(adt.TypeParameters))
	for _, f := range adt.AllFields() {
		mut := ""
		if f.Mutable {
			mut = "var"
		} else {
			mut = "val"
		}
		fmt.Fprintf(out, "  field[%d] %s %s: %s\n", f.Index, mut, f.Name, f.Type.String())
	}
	names := make([]string, 0, len(adt.Methods))
	for n := range adt.Methods {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		m := adt.Methods[n]
		fmt.Fprintf(out, "  method %s: %s\n", n, m.Signature(true).String())
	}
	for i, c := range adt.Constructors {
		fmt.Fprintf(out, "  constructor #%d: %s\n", i, c.Signature(true).String())
	}
}

func (ins *Inspector) printFn(name string, out io.Writer) {
	decl, ok := ins.findDecl(name)
	if !ok || decl.Fn == nil {
		fmt.Fprintf(out, "%s: no function named %q\n", red("error"), name)
		return
	}
	fn := decl.Fn
	fmt.Fprintf(out, "%s %s -> %s\n", bold(fn.Name), typeParamsString(fn.TypeParameters), fn.ReturnType.String())
	for _, p := range fn.Parameters {
		fmt.Fprintf(out, "  param %s: %s\n", p.Name, p.Type.String())
	}
	if body, ok := fn.Body.(interface{ String() string }); ok && body != nil {
		fmt.Fprintf(out, "  body: %s\n", body.String())
	} else {
		fmt.Fprintln(out, dim("  body: <none>"))
	}
}

func (ins *Inspector) printImpls(name string, out io.Writer) {
	decl, ok := ins.findDecl(name)
	if !ok || decl.Adt == nil {
		fmt.Fprintf(out, "%s: no ADT named %q\n", red("error"), name)
		return
	}
	ty := decl.ToType()
	impls := ins.Impls.Get(ty)
	if len(impls.ByInterface) == 0 {
		fmt.Fprintf(out, "%s implements nothing\n", name)
		return
	}
	ifaceNames := make([]string, 0, len(impls.ByInterface))
	for iface := range impls.ByInterface {
		ifaceNames = append(ifaceNames, iface)
	}
	sort.Strings(ifaceNames)
	for _, iface := range ifaceNames {
		methods := impls.ByInterface[iface]
		names := make([]string, 0, len(methods))
		for n := range methods {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(out, "%s -> %s: %s\n", name, iface, strings.Join(names, ", "))
	}
}

func typeParamsString(params []*types.TypeParameter) string {
	if len(params) == 0 {
		return "no type params"
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = fmt.Sprintf("%s: %s", p.Name, p.Bound.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}
