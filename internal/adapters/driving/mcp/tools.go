package mcp

import (
	"context"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

// DatabaseInput names the database a tool acts on.
type DatabaseInput struct {
	Database string `json:"database" jsonschema:"name of the database"`
}

// ExecuteInput is the input schema for the execute tool.
type ExecuteInput struct {
	Database   string   `json:"database" jsonschema:"name of the database"`
	Statements []string `json:"statements" jsonschema:"raw SQL, each entry may hold several statements"`
}

// StatementInput is one entry of a statement set.
type StatementInput struct {
	Statement string `json:"statement" jsonschema:"SQL with ? placeholders"`
	Values    []any  `json:"values,omitempty" jsonschema:"values bound to the placeholders"`
}

// ExecuteSetInput is the input schema for the executeSet tool.
type ExecuteSetInput struct {
	Database string           `json:"database" jsonschema:"name of the database"`
	Set      []StatementInput `json:"set" jsonschema:"statements run in order"`
}

// StatementRequest is the input schema for the run and query tools.
type StatementRequest struct {
	Database  string `json:"database" jsonschema:"name of the database"`
	Statement string `json:"statement" jsonschema:"SQL with ? placeholders"`
	Values    []any  `json:"values,omitempty" jsonschema:"values bound to the placeholders"`
}

// TableInput is the input schema for the isTableExists tool.
type TableInput struct {
	Database string `json:"database" jsonschema:"name of the database"`
	Table    string `json:"table" jsonschema:"table to look up"`
}

// ConsistencyInput is the input schema for the checkConnectionsConsistency tool.
type ConsistencyInput struct {
	DBNames   []string `json:"dbNames,omitempty" jsonschema:"databases the host believes are open"`
	OpenModes []string `json:"openModes,omitempty" jsonschema:"open mode per database"`
}

// EchoInput is the input schema for the echo tool.
type EchoInput struct {
	Value string `json:"value" jsonschema:"text to return"`
}

// AckOutput reports that an operation completed.
type AckOutput struct {
	OK bool `json:"ok"`
}

// ChangesOutput is the output schema for the write tools.
type ChangesOutput struct {
	Changes domain.Changes `json:"changes"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Columns []string         `json:"columns"`
	Values  []map[string]any `json:"values"`
}

// ResultOutput is the output schema for boolean tools.
type ResultOutput struct {
	Result bool `json:"result"`
}

// EchoOutput is the output schema for the echo tool.
type EchoOutput struct {
	Value string `json:"value"`
}

var ack = AckOutput{OK: true}

// registerTools registers one tool per supported host operation.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "initialize",
		Description: "Load the SQL engine. Required once before createConnection",
	}, s.handleInitialize)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "createConnection",
		Description: "Open a database, loading its saved snapshot or creating an empty one",
	}, s.handleCreateConnection)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "open",
		Description: "Acknowledge an open database",
	}, s.handleOpen)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "close",
		Description: "Close a database without saving it",
	}, s.handleClose)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "closeConnection",
		Description: "Close a database without saving it",
	}, s.handleCloseConnection)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "saveToStore",
		Description: "Write the current database image to the snapshot store",
	}, s.handleSaveToStore)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "execute",
		Description: "Run raw SQL statements; reports the changes of the last one",
	}, s.handleExecute)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "executeSet",
		Description: "Run statements with bound values; reports the summed changes",
	}, s.handleExecuteSet)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run",
		Description: "Run one statement with bound values",
	}, s.handleRun)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Return every row produced by a statement",
	}, s.handleQuery)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "isTableExists",
		Description: "Report whether a table exists",
	}, s.handleIsTableExists)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "checkConnectionsConsistency",
		Description: "Acknowledge the host's list of open databases",
	}, s.handleCheckConnectionsConsistency)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "echo",
		Description: "Return the given value",
	}, s.handleEcho)
}

func (s *Server) handleInitialize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, AckOutput, error) {
	if err := s.ports.Database.Initialize(ctx); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, ack, nil
}

func (s *Server) handleCreateConnection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatabaseInput,
) (*mcp.CallToolResult, AckOutput, error) {
	if err := s.ports.Database.CreateConnection(ctx, input.Database); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, ack, nil
}

func (s *Server) handleOpen(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatabaseInput,
) (*mcp.CallToolResult, AckOutput, error) {
	if err := s.ports.Database.Open(ctx, input.Database); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, ack, nil
}

func (s *Server) handleClose(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatabaseInput,
) (*mcp.CallToolResult, AckOutput, error) {
	if err := s.ports.Database.Close(ctx, input.Database); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, ack, nil
}

func (s *Server) handleCloseConnection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatabaseInput,
) (*mcp.CallToolResult, AckOutput, error) {
	if err := s.ports.Database.CloseConnection(ctx, input.Database); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, ack, nil
}

func (s *Server) handleSaveToStore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatabaseInput,
) (*mcp.CallToolResult, AckOutput, error) {
	if err := s.ports.Database.SaveToStore(ctx, input.Database); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, ack, nil
}

func (s *Server) handleExecute(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExecuteInput,
) (*mcp.CallToolResult, ChangesOutput, error) {
	changes, err := s.ports.Database.Execute(ctx, input.Database, input.Statements)
	if err != nil {
		return nil, ChangesOutput{}, err
	}
	return nil, ChangesOutput{Changes: changes}, nil
}

func (s *Server) handleExecuteSet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExecuteSetInput,
) (*mcp.CallToolResult, ChangesOutput, error) {
	set := make([]domain.Statement, len(input.Set))
	for i, stmt := range input.Set {
		set[i] = domain.Statement{SQL: stmt.Statement, Values: bindValues(stmt.Values)}
	}

	changes, err := s.ports.Database.ExecuteSet(ctx, input.Database, set)
	if err != nil {
		return nil, ChangesOutput{}, err
	}
	return nil, ChangesOutput{Changes: changes}, nil
}

func (s *Server) handleRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatementRequest,
) (*mcp.CallToolResult, ChangesOutput, error) {
	changes, err := s.ports.Database.Run(ctx, input.Database, input.Statement, bindValues(input.Values))
	if err != nil {
		return nil, ChangesOutput{}, err
	}
	return nil, ChangesOutput{Changes: changes}, nil
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatementRequest,
) (*mcp.CallToolResult, QueryOutput, error) {
	rows, err := s.ports.Database.Query(ctx, input.Database, input.Statement, bindValues(input.Values))
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Columns: []string{},
		Values:  make([]map[string]any, len(rows)),
	}
	if len(rows) > 0 {
		output.Columns = rows[0].Columns()
	}
	for i := range rows {
		output.Values[i] = rows[i].Map()
	}

	return nil, output, nil
}

func (s *Server) handleIsTableExists(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TableInput,
) (*mcp.CallToolResult, ResultOutput, error) {
	exists, err := s.ports.Database.IsTableExists(ctx, input.Database, input.Table)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, ResultOutput{Result: exists}, nil
}

func (s *Server) handleCheckConnectionsConsistency(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConsistencyInput,
) (*mcp.CallToolResult, ResultOutput, error) {
	ok, err := s.ports.Database.CheckConnectionsConsistency(ctx, input.DBNames, input.OpenModes)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, ResultOutput{Result: ok}, nil
}

func (s *Server) handleEcho(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EchoInput,
) (*mcp.CallToolResult, EchoOutput, error) {
	value, err := s.ports.Database.Echo(ctx, input.Value)
	if err != nil {
		return nil, EchoOutput{}, err
	}
	return nil, EchoOutput{Value: value}, nil
}

// bindValues converts decoded JSON values for binding. JSON numbers arrive
// as float64; integral ones bind as int64 so INTEGER columns keep their type.
func bindValues(values []any) []domain.Value {
	if values == nil {
		return nil
	}
	out := make([]domain.Value, len(values))
	for i, v := range values {
		out[i] = bindValue(v)
	}
	return out
}

func bindValue(v any) domain.Value {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}
