package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spf13/afero"
)

// scriptLexer tokenizes SQL scripts just enough to find statement boundaries.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LineComment", Pattern: `--[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?s:.*?)\*/`},
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "QuotedIdent", Pattern: "\"(?:\"\"|[^\"])*\"|`[^`]*`|\\[[^\\]]*\\]"},
	{Name: "Word", Pattern: `[\p{L}_][\p{L}\p{N}_$]*`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `[^\s]`},
})

var scriptSymbols = scriptLexer.Symbols()

// LoadSchema reads and splits the bootstrap script at path
func LoadSchema(fsys afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, path)
		}
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return SplitScript(path, string(data))
}

// SplitScript splits a SQL script into statements. Comments are dropped and
// semicolons inside strings, quoted identifiers and trigger bodies do not end
// a statement. Returned statements carry no trailing semicolon.
func SplitScript(filename, script string) ([]string, error) {
	lex, err := scriptLexer.LexString(filename, script)
	if err != nil {
		return nil, err
	}

	var (
		stmts   []string
		current strings.Builder
		trigger bool
		depth   int
	)

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
		trigger = false
		depth = 0
	}

	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			break
		}

		switch tok.Type {
		case scriptSymbols["LineComment"], scriptSymbols["BlockComment"]:
			current.WriteByte(' ')
			continue
		case scriptSymbols["Semicolon"]:
			if depth == 0 {
				flush()
				continue
			}
		case scriptSymbols["Word"]:
			switch strings.ToUpper(tok.Value) {
			case "TRIGGER":
				trigger = true
			case "BEGIN":
				if trigger {
					depth++
				}
			case "CASE":
				if depth > 0 {
					depth++
				}
			case "END":
				if depth > 0 {
					depth--
				}
			}
		}
		current.WriteString(tok.Value)
	}

	if depth > 0 {
		return nil, fmt.Errorf("%s: unterminated BEGIN block", filename)
	}
	flush()
	return stmts, nil
}

// RunScript executes statements in a single transaction on conn
func RunScript(ctx context.Context, conn *sql.Conn, stmts []string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
