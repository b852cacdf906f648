package find

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/logging"
)

// Diagnostic records a failure that made a sub-evaluation a non-match.
type Diagnostic struct {
	Path     string
	Instance any
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("evaluating %q on %s: %v", d.Path, describeInstance(d.Instance), d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics receives evaluation failures. Reports never stop an evaluation.
type Diagnostics interface {
	Report(Diagnostic)
}

type identified interface {
	GetID() string
}

func describeInstance(instance any) string {
	if e, ok := instance.(identified); ok {
		return fmt.Sprintf("%T(%s)", instance, e.GetID())
	}
	return fmt.Sprintf("%T", instance)
}

// LogDiagnostics logs every report at error level.
type LogDiagnostics struct {
	logger *slog.Logger
}

func NewLogDiagnostics(logger *slog.Logger) LogDiagnostics {
	return LogDiagnostics{logger: logging.Default(logger)}
}

func (d LogDiagnostics) Report(diag Diagnostic) {
	d.logger.Error("condition evaluation failed",
		"path", diag.Path,
		"instance", describeInstance(diag.Instance),
		"error", diag.Err,
	)
}

// DiagnosticCollector accumulates reports into a multierror.
// It is safe for concurrent use.
type DiagnosticCollector struct {
	mu  sync.Mutex
	err *multierror.Error
}

func NewDiagnosticCollector() *DiagnosticCollector {
	return &DiagnosticCollector{}
}

func (c *DiagnosticCollector) Report(diag Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = multierror.Append(c.err, diag)
}

// Err returns the collected diagnostics, or nil if there were none.
func (c *DiagnosticCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err.ErrorOrNil()
}

func (c *DiagnosticCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return 0
	}
	return len(c.err.Errors)
}

func (c *DiagnosticCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}

type teeDiagnostics []Diagnostics

func (t teeDiagnostics) Report(diag Diagnostic) {
	for _, d := range t {
		d.Report(diag)
	}
}

// Tee forwards every report to each of sinks.
func Tee(sinks ...Diagnostics) Diagnostics {
	return teeDiagnostics(sinks)
}
