// Package editor wraps rule and margin edits in undoable commands. The
// engine itself holds no undo history; every mutation here snapshots the
// prior state it overwrites so the inverse operation can be replayed.
package editor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"glyphspace/internal/font"
	"glyphspace/internal/rules"
)

// Context bundles the font being edited with its rule manager. Each font
// owns exactly one manager; contexts for different fonts share nothing.
type Context struct {
	Font  *font.Font
	Rules *rules.Manager
}

// NewContext wires a rule manager to a font, adopting any rules blob
// already stored in the font lib and persisting back after every mutation.
func NewContext(f *font.Font) *Context {
	ctx := &Context{Font: f}
	ctx.Rules = rules.NewManager(f, f.RulesSnapshot(), f.StoreRulesSnapshot)
	return ctx
}

// CommandResult reports the outcome of executing or undoing a command.
type CommandResult struct {
	Success  bool
	Message  string
	Warnings []string
	Affected []string
}

// OK builds a successful result.
func OK(message string) CommandResult {
	return CommandResult{Success: true, Message: message}
}

// Err builds a failed result.
func Err(message string) CommandResult {
	return CommandResult{Success: false, Message: message}
}

// Command is an undoable edit. Execute stores whatever prior state Undo
// needs; Undo is only meaningful after a successful Execute.
type Command interface {
	Description() string
	Execute(ctx *Context) CommandResult
	Undo(ctx *Context) CommandResult
}

type historyEntry struct {
	id  string
	cmd Command
	ctx *Context
}

// Editor executes commands and keeps undo/redo stacks. Failed commands are
// not recorded. Not safe for concurrent use; one editor per editing session.
type Editor struct {
	log     *zap.Logger
	history []historyEntry
	redo    []historyEntry

	// OnChange, OnUndo and OnRedo fire after the corresponding operation
	// succeeds. All optional.
	OnChange func(Command, CommandResult)
	OnUndo   func(Command, CommandResult)
	OnRedo   func(Command, CommandResult)
}

// New creates an editor. A nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{log: log}
}

// Execute runs a command, and on success pushes it onto the history and
// clears the redo stack.
func (e *Editor) Execute(cmd Command, ctx *Context) CommandResult {
	result := cmd.Execute(ctx)
	if !result.Success {
		e.log.Warn("command failed",
			zap.String("command", cmd.Description()),
			zap.String("reason", result.Message))
		return result
	}

	entry := historyEntry{id: uuid.NewString(), cmd: cmd, ctx: ctx}
	e.history = append(e.history, entry)
	e.redo = nil

	e.log.Info("command executed",
		zap.String("id", entry.id),
		zap.String("command", cmd.Description()),
		zap.Int("affected", len(result.Affected)))

	if e.OnChange != nil {
		e.OnChange(cmd, result)
	}
	return result
}

// Undo reverses the most recent command. Returns nil when there is nothing
// to undo.
func (e *Editor) Undo() *CommandResult {
	if len(e.history) == 0 {
		return nil
	}
	entry := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]

	result := entry.cmd.Undo(entry.ctx)
	e.redo = append(e.redo, entry)

	e.log.Info("command undone", zap.String("command", entry.cmd.Description()))
	if e.OnUndo != nil {
		e.OnUndo(entry.cmd, result)
	}
	return &result
}

// Redo re-executes the most recently undone command.
func (e *Editor) Redo() *CommandResult {
	if len(e.redo) == 0 {
		return nil
	}
	entry := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	result := entry.cmd.Execute(entry.ctx)
	e.history = append(e.history, entry)

	e.log.Info("command redone", zap.String("command", entry.cmd.Description()))
	if e.OnRedo != nil {
		e.OnRedo(entry.cmd, result)
	}
	return &result
}

// CanUndo reports whether Undo would have an effect.
func (e *Editor) CanUndo() bool { return len(e.history) > 0 }

// CanRedo reports whether Redo would have an effect.
func (e *Editor) CanRedo() bool { return len(e.redo) > 0 }

// UndoDescription names the command Undo would reverse, or "".
func (e *Editor) UndoDescription() string {
	if len(e.history) == 0 {
		return ""
	}
	return e.history[len(e.history)-1].cmd.Description()
}

// RedoDescription names the command Redo would replay, or "".
func (e *Editor) RedoDescription() string {
	if len(e.redo) == 0 {
		return ""
	}
	return e.redo[len(e.redo)-1].cmd.Description()
}

// History returns the descriptions of executed commands, oldest first.
func (e *Editor) History() []string {
	out := make([]string, len(e.history))
	for i, entry := range e.history {
		out[i] = entry.cmd.Description()
	}
	return out
}

// ClearHistory drops both stacks, for long sessions.
func (e *Editor) ClearHistory() {
	e.history = nil
	e.redo = nil
}
