// Package engine runs Europa source through the lexer, parser and
// interpreter, adding a parse cache, step logging and metrics around the
// pipeline.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/iotaledger/hive.go/logger"
	"github.com/pkg/errors"

	"github.com/dueldanov/europa/internal/ast"
	"github.com/dueldanov/europa/internal/environment"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/interpreter"
	"github.com/dueldanov/europa/internal/lexer"
	"github.com/dueldanov/europa/internal/logging"
	"github.com/dueldanov/europa/internal/metrics"
	"github.com/dueldanov/europa/internal/parser"
	"github.com/dueldanov/europa/internal/value"
)

var (
	// ErrScriptTooLarge is returned when a source exceeds the configured size limit
	ErrScriptTooLarge = errors.New("script too large")
)

// categoryLimit labels failures that happen before lexing
const categoryLimit = "LimitError"

// Option configures an Engine
type Option func(*Engine)

// WithMaxScriptSize limits source length in bytes; 0 disables the check.
func WithMaxScriptSize(n int) Option {
	return func(e *Engine) {
		e.maxScriptSize = n
	}
}

// WithCache sets the parse cache; nil disables caching.
func WithCache(cache *ProgramCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithMetrics records pipeline metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithInterpreterOptions passes options to every interpreter the engine creates
func WithInterpreterOptions(opts ...interpreter.Option) Option {
	return func(e *Engine) {
		e.interpreterOpts = append(e.interpreterOpts, opts...)
	}
}

// Engine drives the lex, parse and execute pipeline. It may be shared by
// several sessions; each run gets its own interpreter.
type Engine struct {
	*logger.WrappedLogger

	cache           *ProgramCache
	metrics         *metrics.Metrics
	maxScriptSize   int
	interpreterOpts []interpreter.Option
}

// New creates an engine
func New(log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		WrappedLogger: logger.NewWrappedLogger(log),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSession returns a fresh global environment with the builtins bound
func (e *Engine) NewSession() *environment.Environment {
	return e.newInterpreter().Globals()
}

// Run executes source against env and returns env.
func (e *Engine) Run(source string, env *environment.Environment) (*environment.Environment, error) {
	return e.RunContext(context.Background(), source, env)
}

// RunContext is Run with a step logger taken from ctx.
func (e *Engine) RunContext(ctx context.Context, source string, env *environment.Environment) (*environment.Environment, error) {
	if _, err := e.EvalContext(ctx, source, env); err != nil {
		return nil, err
	}
	return env, nil
}

// Eval executes source against env and returns the value of its last
// top-level expression statement, or nil.
func (e *Engine) Eval(source string, env *environment.Environment) (value.Value, error) {
	return e.EvalContext(context.Background(), source, env)
}

// EvalContext is Eval with a step logger taken from ctx.
// On error, env keeps the effects of the statements that ran before it.
func (e *Engine) EvalContext(ctx context.Context, source string, env *environment.Environment) (value.Value, error) {
	if e.maxScriptSize > 0 && len(source) > e.maxScriptSize {
		e.LogWarnf("rejecting script of %d bytes, limit is %d", len(source), e.maxScriptSize)
		e.metrics.RecordRun(false, categoryLimit)
		return nil, errors.Wrapf(ErrScriptTooLarge, "%d bytes exceeds limit of %d", len(source), e.maxScriptSize)
	}

	program, err := e.Compile(ctx, source)
	if err != nil {
		e.recordFailure(err)
		return nil, err
	}

	start := time.Now()
	result, err := e.newInterpreter().Execute(program, env)
	e.metrics.RecordStage(logging.PhaseInterpreter, time.Since(start))
	logging.MeasureStepWithError(ctx, logging.PhaseInterpreter, "Execute",
		fmt.Sprintf("statements=%d", len(program)), start, err)
	if err != nil {
		e.recordFailure(err)
		return nil, err
	}

	e.metrics.RecordRun(true, "")
	return result, nil
}

// Compile lexes and parses source, consulting the parse cache first.
func (e *Engine) Compile(ctx context.Context, source string) ([]ast.Stmt, error) {
	var key ProgramKey
	if e.cache != nil {
		key = KeyOf(source)
		if program, ok := e.cache.Get(key); ok {
			e.LogDebugf("parse cache hit for %x", key[:8])
			e.metrics.RecordCacheHit()
			logging.LogFromContext(ctx, logging.PhaseCache, "Lookup", "hit=true", nil)
			return program, nil
		}
		e.metrics.RecordCacheMiss()
		logging.LogFromContext(ctx, logging.PhaseCache, "Lookup", "hit=false", nil)
	}

	start := time.Now()
	tokens, err := lexer.Tokenize(source)
	e.metrics.RecordStage(logging.PhaseLexer, time.Since(start))
	logging.MeasureStepWithError(ctx, logging.PhaseLexer, "Tokenize",
		fmt.Sprintf("tokens=%d", len(tokens)), start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	program, err := parser.Parse(tokens)
	e.metrics.RecordStage(logging.PhaseParser, time.Since(start))
	logging.MeasureStepWithError(ctx, logging.PhaseParser, "Parse",
		fmt.Sprintf("statements=%d", len(program)), start, err)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Put(key, program)
		e.metrics.SetCacheEntries(e.cache.Len())
	}
	return program, nil
}

func (e *Engine) newInterpreter() *interpreter.Interpreter {
	return interpreter.New(e.interpreterOpts...)
}

func (e *Engine) recordFailure(err error) {
	category := "InternalError"
	if scriptErr, ok := europaerrors.As(err); ok {
		category = scriptErr.Category.String()
	}
	e.LogDebugf("script failed: %v", err)
	e.metrics.RecordRun(false, category)
}
