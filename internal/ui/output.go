// Package ui owns all user-facing terminal output: colored status lines on
// stdout/stderr plus a verbose trace channel used to echo external commands.
// An Output is built once per CLI invocation and passed explicitly to every
// orchestration call; there is no package-level verbosity state.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Output struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	log     *zap.SugaredLogger
}

// New builds an Output writing user lines to out and diagnostics to errOut.
// When verbose is set, trace lines (external command invocations, step
// progress) are emitted to errOut through a console-encoded zap logger.
func New(out, errOut io.Writer, verbose bool) *Output {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(errOut), level)
	return &Output{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		log:     zap.New(core).Sugar(),
	}
}

func (o *Output) Verbose() bool { return o.verbose }

// Stdout returns the writer user-facing data (tables, YAML) should go to.
func (o *Output) Stdout() io.Writer { return o.out }

// Stderr returns the writer external tools should inherit for diagnostics.
func (o *Output) Stderr() io.Writer { return o.errOut }

func (o *Output) Green(format string, a ...any) {
	fmt.Fprintln(o.out, color.GreenString(format, a...))
}

func (o *Output) Red(format string, a ...any) {
	fmt.Fprintln(o.errOut, color.RedString(format, a...))
}

func (o *Output) Plain(format string, a ...any) {
	fmt.Fprintf(o.out, format+"\n", a...)
}

// Tracef logs a verbose-only diagnostic line.
func (o *Output) Tracef(format string, a ...any) {
	o.log.Debugf(format, a...)
}

// TraceCommand echoes an external tool invocation when verbose output is on.
func (o *Output) TraceCommand(name string, args []string) {
	o.log.Debugw("exec", "command", name, "args", args)
}
