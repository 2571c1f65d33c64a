// ABOUTME: Report and data exchange MCP tool handlers
// ABOUTME: Implements get_report, export_document and import_document
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/simplecrm/exchange"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ReportHandlers struct {
	store *store.Store
}

func NewReportHandlers(s *store.Store) *ReportHandlers {
	return &ReportHandlers{store: s}
}

type GetReportInput struct{}

type StageOutput struct {
	Stage   string `json:"stage"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

type ReportOutput struct {
	Contacts      int           `json:"contacts"`
	Deals         int           `json:"deals"`
	PipelineValue int64         `json:"pipeline_value"`
	WonValue      int64         `json:"won_value"`
	Pipeline      string        `json:"pipeline_display"`
	Won           string        `json:"won_display"`
	Stages        []StageOutput `json:"stages"`
}

func (h *ReportHandlers) GetReport(_ context.Context, request *mcp.CallToolRequest, _ GetReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	stats := query.ComputeStats(h.store.Snapshot())
	out := ReportOutput{
		Contacts:      stats.Contacts,
		Deals:         stats.Deals,
		PipelineValue: stats.PipelineValue,
		WonValue:      stats.WonValue,
		Pipeline:      "$" + query.FormatMoney(stats.PipelineValue),
		Won:           "$" + query.FormatMoney(stats.WonValue),
		Stages:        make([]StageOutput, 0, len(stats.Stages)),
	}
	for _, s := range stats.Stages {
		out.Stages = append(out.Stages, StageOutput{
			Stage:   string(s.Stage),
			Label:   s.Label,
			Count:   s.Count,
			Percent: s.Percent,
		})
	}
	return nil, out, nil
}

type ExportInput struct {
	Format string `json:"format,omitempty" jsonschema:"json (full backup, default) or csv (deal report)"`
}

type ExportOutput struct {
	Format   string `json:"format"`
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

func (h *ReportHandlers) ExportDocument(_ context.Context, request *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	doc := h.store.Snapshot()
	switch input.Format {
	case "", "json":
		data, err := exchange.ExportJSON(doc)
		if err != nil {
			return nil, ExportOutput{}, fmt.Errorf("failed to export document: %w", err)
		}
		return nil, ExportOutput{Format: "json", FileName: exchange.JSONFileName, Content: string(data)}, nil
	case "csv":
		return nil, ExportOutput{Format: "csv", FileName: exchange.CSVFileName, Content: exchange.ExportCSV(doc)}, nil
	default:
		return nil, ExportOutput{}, fmt.Errorf("invalid format %q: expected json or csv", input.Format)
	}
}

type ImportInput struct {
	Document string `json:"document" jsonschema:"A previously exported JSON document; replaces all current data"`
}

type ImportOutput struct {
	Contacts int    `json:"contacts"`
	Tasks    int    `json:"tasks"`
	Message  string `json:"message"`
}

func (h *ReportHandlers) ImportDocument(_ context.Context, request *mcp.CallToolRequest, input ImportInput) (*mcp.CallToolResult, ImportOutput, error) {
	if err := h.store.Import([]byte(input.Document)); err != nil {
		return nil, ImportOutput{}, fmt.Errorf("import failed: %w", err)
	}
	doc := h.store.Snapshot()
	return nil, ImportOutput{
		Contacts: len(doc.Contacts),
		Tasks:    len(doc.Tasks),
		Message:  "Imported successfully.",
	}, nil
}
