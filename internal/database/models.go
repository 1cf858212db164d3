package database

// QueryResult holds the outcome of a read-only query executed on behalf of
// the answering agent. Rows are pre-rendered to strings for inclusion in a
// tool response.
type QueryResult struct {
	Columns   []string
	Rows      [][]string
	Truncated bool
}

// TableInfo describes one table for the agent's list_tables tool.
type TableInfo struct {
	Name    string
	Columns []string
}
