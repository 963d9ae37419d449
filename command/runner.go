package command

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shibukawa/wbcommand"
	"github.com/shibukawa/wbcommand/metadata"
	"github.com/shibukawa/wbcommand/tokenizer"
)

// StatementRunner dispatches statements to registered commands. Verbs are
// matched case-insensitively against the first word of a statement.
type StatementRunner struct {
	conn     *metadata.Connection
	commands map[string]Command

	continueOnError bool
	delimiter       string
}

// NewStatementRunner creates a runner without registered commands
func NewStatementRunner(conn *metadata.Connection) *StatementRunner {
	return &StatementRunner{
		conn:      conn,
		commands:  make(map[string]Command),
		delimiter: ";",
	}
}

// WithContinueOnError makes RunScript keep going after a failed statement
func (r *StatementRunner) WithContinueOnError(continueOnError bool) *StatementRunner {
	r.continueOnError = continueOnError
	return r
}

// WithDelimiter sets the script delimiter, ";" or "/"
func (r *StatementRunner) WithDelimiter(delimiter string) *StatementRunner {
	if strings.TrimSpace(delimiter) != "" {
		r.delimiter = strings.TrimSpace(delimiter)
	}

	return r
}

// Register adds commands. A verb that is already registered is rejected with
// ErrDuplicateVerb and nothing after it is registered.
func (r *StatementRunner) Register(commands ...Command) error {
	for _, cmd := range commands {
		verb := strings.ToLower(cmd.Verb())
		if _, exists := r.commands[verb]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateVerb, cmd.Verb())
		}

		r.commands[verb] = cmd
	}

	return nil
}

// MustRegister is like Register but panics when a verb is already registered
func (r *StatementRunner) MustRegister(commands ...Command) *StatementRunner {
	if err := r.Register(commands...); err != nil {
		panic(err)
	}

	return r
}

// Verbs returns the registered verbs in alphabetical order
func (r *StatementRunner) Verbs() []string {
	verbs := make([]string, 0, len(r.commands))
	for verb := range r.commands {
		verbs = append(verbs, verb)
	}

	sort.Strings(verbs)

	return verbs
}

// Command returns the command registered for verb
func (r *StatementRunner) Command(verb string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(verb)]
	return cmd, ok
}

// Lookup finds the command for a statement. Leading whitespace and comments
// are skipped; rest is the text after the verb.
func (r *StatementRunner) Lookup(statement string) (cmd Command, rest string, ok bool) {
	word, rest, ok := tokenizer.LeadingWord(statement)
	if !ok {
		return nil, "", false
	}

	cmd, ok = r.commands[strings.ToLower(word)]
	if !ok {
		return nil, "", false
	}

	return cmd, rest, true
}

// Execute runs a statement through its command. An unknown verb returns a
// failed result together with ErrUnrecognizedVerb so the caller may run the
// statement as plain SQL. Errors and panics inside a command become a failed
// result; only a lost connection is also returned as error.
func (r *StatementRunner) Execute(ctx context.Context, statement string) (*Result, error) {
	cmd, rest, ok := r.Lookup(statement)
	if !ok {
		word, _, _ := tokenizer.LeadingWord(statement)
		err := fmt.Errorf("%w: %s", ErrUnrecognizedVerb, word)

		return Failure(err), err
	}

	executionID := uuid.NewString()
	logger := wbcommand.Logger().With(slog.String("verb", cmd.Verb()), slog.String("execution_id", executionID))
	logger.Debug("command started")

	start := time.Now()
	result := r.invoke(ctx, cmd, rest)
	result.Verb = cmd.Verb()
	result.ExecutionID = executionID
	result.Elapsed = time.Since(start)

	logger.Debug("command finished", slog.Bool("success", result.Success), slog.Duration("elapsed", result.Elapsed))

	if !result.Success && metadata.IsConnectionLost(result.Err) {
		return result, result.Err
	}

	return result, nil
}

func (r *StatementRunner) invoke(ctx context.Context, cmd Command, args string) (result *Result) {
	defer func() {
		if recovered := recover(); recovered != nil {
			wbcommand.Logger().Error("command panicked", slog.String("verb", cmd.Verb()), slog.Any("panic", recovered))
			result = Failure(fmt.Errorf("%w: %s: %v", ErrCommandPanic, cmd.Verb(), recovered))
		}
	}()

	result = cmd.Execute(ctx, r.conn, args)
	if result == nil {
		result = NewResult()
	}

	return result
}
