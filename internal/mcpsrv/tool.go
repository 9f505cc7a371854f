package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/timon-db/timon/internal/partition"
	"github.com/timon-db/timon/internal/schema"
	"github.com/timon-db/timon/internal/timon"
)

func addCreateDatabaseTool(s *server.MCPServer) {
	tool := mcp.NewTool("timon_create_database",
		mcp.WithDescription("Create a new logical database"),
		mcp.WithString("name", mcp.Required(), mcp.Description("database name")),
	)
	s.AddTool(tool, createDatabaseHandler)
}

func createDatabaseHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	name, _ := args["name"].(string)
	return envelopeResult(timon.CreateDatabase(name))
}

func addCreateTableTool(s *server.MCPServer) {
	tool := mcp.NewTool("timon_create_table",
		mcp.WithDescription("Create a table with a JSON schema document mapping field name to {type, required, unique}"),
		mcp.WithString("database", mcp.Required(), mcp.Description("database name")),
		mcp.WithString("table", mcp.Required(), mcp.Description("table name")),
		mcp.WithString("schema", mcp.Required(), mcp.Description("JSON-encoded schema document")),
	)
	s.AddTool(tool, createTableHandler)
}

func createTableHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	db, _ := args["database"].(string)
	table, _ := args["table"].(string)
	schemaJSON, _ := args["schema"].(string)

	var doc schema.Doc
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid schema: %v", err)), nil
	}
	return envelopeResult(timon.CreateTable(db, table, doc))
}

func addInsertTool(s *server.MCPServer) {
	tool := mcp.NewTool("timon_insert",
		mcp.WithDescription("Insert JSON records into today's day partition"),
		mcp.WithString("database", mcp.Required(), mcp.Description("database name")),
		mcp.WithString("table", mcp.Required(), mcp.Description("table name")),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON-encoded array of record objects")),
	)
	s.AddTool(tool, insertHandler)
}

func insertHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	db, _ := args["database"].(string)
	table, _ := args["table"].(string)
	recordsJSON, _ := args["records"].(string)

	var records []map[string]any
	if err := json.Unmarshal([]byte(recordsJSON), &records); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid records: %v", err)), nil
	}
	return envelopeResult(timon.Insert(db, table, records))
}

func addQueryTool(s *server.MCPServer) {
	tool := mcp.NewTool("timon_query",
		mcp.WithDescription("Run a SQL query over the day partitions covering a date range; the target table is taken from the SQL's FROM/JOIN clause"),
		mcp.WithString("database", mcp.Required(), mcp.Description("database name")),
		mcp.WithString("from", mcp.Required(), mcp.Description("range start date, YYYY-MM-DD")),
		mcp.WithString("to", mcp.Required(), mcp.Description("range end date, YYYY-MM-DD")),
		mcp.WithString("sql", mcp.Required(), mcp.Description("SQL query naming the table in its FROM/JOIN clause")),
	)
	s.AddTool(tool, queryHandler)
}

func queryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	db, _ := args["database"].(string)
	from, _ := args["from"].(string)
	to, _ := args["to"].(string)
	sqlQuery, _ := args["sql"].(string)

	start, err := parseDate(from)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid from: %v", err)), nil
	}
	end, err := parseDate(to)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid to: %v", err)), nil
	}

	rng := partition.DateRange{Start: start, End: end}
	return envelopeResult(timon.Query(db, rng, sqlQuery))
}

func addListTool(s *server.MCPServer) {
	tool := mcp.NewTool("timon_list_tables",
		mcp.WithDescription("List the tables registered in a database"),
		mcp.WithString("database", mcp.Required(), mcp.Description("database name")),
	)
	s.AddTool(tool, listTablesHandler)
}

func listTablesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	db, _ := args["database"].(string)
	return envelopeResult(timon.ListTables(db))
}
