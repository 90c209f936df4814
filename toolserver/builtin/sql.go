package builtin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/invopop/jsonschema"

	"github.com/skosovsky/toolview/toolserver"
)

// SQLArgs are the arguments of execute_sql.
type SQLArgs struct {
	Query string `json:"query" description:"The SQL query to execute"`
}

// SQLQueryResult is the output of execute_sql.
type SQLQueryResult struct {
	ID          string   `json:"id"`
	Success     bool     `json:"success"`
	Query       string   `json:"query"`
	Rows        []Row    `json:"rows"`
	RowCount    int      `json:"row_count"`
	Error       *string  `json:"error,omitempty" jsonschema:"nullable"`
	ColumnNames []string `json:"column_names,omitempty"`
}

// JSONSchemaExtend sets the schema description.
func (SQLQueryResult) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "SQL query result model."
}

type sqlTool struct {
	db      *sql.DB
	cache   *ResultCache
	maxRows int
}

// NewSQLTool builds execute_sql over db. Successful results are stored in cache
// under their id.
func NewSQLTool(db *sql.DB, cache *ResultCache, maxRows int) (toolserver.Tool, error) {
	t := &sqlTool{db: db, cache: cache, maxRows: maxRows}
	return toolserver.NewTool("execute_sql",
		"Execute a SQL query against the movies database and return the results. "+
			"The result id can be passed to render_chart.",
		t.run,
		toolserver.WithStrict(),
	)
}

func (t *sqlTool) run(ctx context.Context, args SQLArgs) (SQLQueryResult, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return SQLQueryResult{}, toolserver.Invalidf("query must not be empty")
	}
	if err := checkReadOnly(query); err != nil {
		return SQLQueryResult{}, toolserver.Invalidf("%s", err)
	}
	cols, rows, err := t.query(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return SQLQueryResult{}, ctx.Err()
		}
		return SQLQueryResult{}, &toolserver.ClientError{Reason: "failed to execute SQL query: " + err.Error()}
	}
	res := SQLQueryResult{
		ID:          shortID(),
		Success:     true,
		Query:       query,
		Rows:        rows,
		RowCount:    len(rows),
		ColumnNames: cols,
	}
	t.cache.Put(res.ID, rows)
	return res, nil
}

func (t *sqlTool) query(ctx context.Context, query string) ([]string, []Row, error) {
	rs, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rs.Close()
	cols, err := rs.Columns()
	if err != nil {
		return nil, nil, err
	}
	rows := []Row{}
	for rs.Next() {
		if t.maxRows > 0 && len(rows) >= t.maxRows {
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = normalize(values[i])
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, err
	}
	return cols, rows, nil
}

// normalize converts driver values into JSON friendly ones.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// checkReadOnly accepts one statement starting with SELECT or WITH. Comments
// and a trailing semicolon are allowed; a second statement is not.
func checkReadOnly(query string) error {
	stmt := strings.TrimRight(stripSQL(query), "; \t\r\n")
	if strings.Contains(stmt, ";") {
		return errors.New("only a single statement is allowed")
	}
	stmt = strings.TrimSpace(stmt)
	end := strings.IndexFunc(stmt, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(stmt)
	}
	keyword := stmt[:end]
	switch strings.ToUpper(keyword) {
	case "SELECT", "WITH":
		return nil
	default:
		return fmt.Errorf("only SELECT and WITH queries are allowed, got %q", keyword)
	}
}

// stripSQL blanks out comments and the contents of quoted strings and
// identifiers, so that keywords and semicolons can be found by plain search.
func stripSQL(query string) string {
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			for i < len(query) && query[i] != '\n' {
				i++
			}
			b.WriteByte(' ')
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				i = len(query)
			} else {
				i += end + 3
			}
			b.WriteByte(' ')
		case c == '\'' || c == '"' || c == '`' || c == '[':
			closing := c
			if c == '[' {
				closing = ']'
			}
			b.WriteByte(c)
			i++
			for i < len(query) && query[i] != closing {
				i++
			}
			b.WriteByte(closing)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
