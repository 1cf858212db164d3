package agent

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"google.golang.org/genai"

	"github.com/floodwatch/floodassist/internal/database"
)

// fakeStore scripts the store responses used by tool dispatch.
type fakeStore struct {
	queryResult *database.QueryResult
	queryErr    error
	tables      []database.TableInfo
	tablesErr   error

	lastQuery   string
	lastMaxRows int
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) ExecuteReadQuery(_ context.Context, query string, maxRows int) (*database.QueryResult, error) {
	f.lastQuery = query
	f.lastMaxRows = maxRows
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResult, nil
}

func (f *fakeStore) DescribeTables(context.Context) ([]database.TableInfo, error) {
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	return f.tables, nil
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

func newTestAgent(store database.Store) *Agent {
	return &Agent{
		store:        store,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxQueryRows: 25,
	}
}

func TestDispatchToolExecuteSQL(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		queryResult: &database.QueryResult{
			Columns:   []string{"region", "count"},
			Rows:      [][]string{{"Al Nahdah", "3"}},
			Truncated: false,
		},
	}
	a := newTestAgent(store)

	resp := a.dispatchTool(context.Background(), &genai.FunctionCall{
		Name: toolExecuteSQL,
		Args: map[string]any{"query": "SELECT region, COUNT(*) FROM alerts GROUP BY region"},
	})

	if _, hasErr := resp["error"]; hasErr {
		t.Fatalf("dispatchTool returned error payload: %v", resp)
	}
	if resp["row_count"] != 1 {
		t.Errorf("row_count = %v, want 1", resp["row_count"])
	}
	if store.lastMaxRows != 25 {
		t.Errorf("maxRows passed to store = %d, want 25", store.lastMaxRows)
	}
}

func TestDispatchToolExecuteSQLMissingQuery(t *testing.T) {
	t.Parallel()

	a := newTestAgent(&fakeStore{})

	resp := a.dispatchTool(context.Background(), &genai.FunctionCall{
		Name: toolExecuteSQL,
		Args: map[string]any{},
	})

	if _, hasErr := resp["error"]; !hasErr {
		t.Fatal("dispatchTool accepted a call without 'query'")
	}
}

func TestDispatchToolExecuteSQLRejectsWrites(t *testing.T) {
	t.Parallel()

	store := &fakeStore{queryErr: database.ErrNotReadOnly}
	a := newTestAgent(store)

	resp := a.dispatchTool(context.Background(), &genai.FunctionCall{
		Name: toolExecuteSQL,
		Args: map[string]any{"query": "DELETE FROM alerts"},
	})

	errMsg, _ := resp["error"].(string)
	if errMsg != "only read-only SELECT queries are allowed" {
		t.Errorf("error payload = %q, want read-only rejection message", errMsg)
	}
}

func TestDispatchToolListTables(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		tables: []database.TableInfo{
			{Name: "alerts", Columns: []string{"alertType", "region"}},
			{Name: "rainfall", Columns: []string{"precipInches"}},
		},
	}
	a := newTestAgent(store)

	resp := a.dispatchTool(context.Background(), &genai.FunctionCall{Name: toolListTables})

	tables, ok := resp["tables"].([]map[string]any)
	if !ok {
		t.Fatalf("tables payload has unexpected type: %T", resp["tables"])
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if tables[0]["name"] != "alerts" {
		t.Errorf("tables[0].name = %v, want alerts", tables[0]["name"])
	}
}

func TestDispatchToolUnknownTool(t *testing.T) {
	t.Parallel()

	a := newTestAgent(&fakeStore{})

	resp := a.dispatchTool(context.Background(), &genai.FunctionCall{Name: "drop_database"})

	if _, hasErr := resp["error"]; !hasErr {
		t.Fatal("unknown tool did not produce an error payload")
	}
}

func TestToolDeclarations(t *testing.T) {
	t.Parallel()

	decls := toolDeclarations()
	if len(decls) != 2 {
		t.Fatalf("got %d tool declarations, want 2", len(decls))
	}

	byName := map[string]*genai.FunctionDeclaration{}
	for _, d := range decls {
		byName[d.Name] = d
	}

	execDecl, ok := byName[toolExecuteSQL]
	if !ok {
		t.Fatal("execute_sql declaration missing")
	}
	if _, ok := execDecl.Parameters.Properties["query"]; !ok {
		t.Error("execute_sql declaration missing 'query' parameter")
	}
	if len(execDecl.Parameters.Required) != 1 || execDecl.Parameters.Required[0] != "query" {
		t.Errorf("execute_sql required = %v, want [query]", execDecl.Parameters.Required)
	}

	if _, ok := byName[toolListTables]; !ok {
		t.Error("list_tables declaration missing")
	}
}
