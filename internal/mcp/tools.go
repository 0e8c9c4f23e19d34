package mcp

import "github.com/mark3labs/mcp-go/mcp"

var batchNextToolDef = mcp.NewTool("batch_next",
	mcp.WithDescription("List batch files that have no responses file yet, in filename order. A batch counts as processed once its batch_NNNN_responses.jsonl sibling exists."),
	mcp.WithString("batches_dir",
		mcp.Required(),
		mcp.Description("Directory holding the batch_NNNN.json files"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of batch names to return (0 = all)"),
	),
)

var batchSubmitToolDef = mcp.NewTool("batch_submit",
	mcp.WithDescription("Write the responses file for one batch. Every prompt in the batch needs a response; ids outside the batch are ignored. Fails with RESPONSES_EXIST if the batch was already processed, unless force is set."),
	mcp.WithString("batches_dir",
		mcp.Required(),
		mcp.Description("Directory holding the batch_NNNN.json files"),
	),
	mcp.WithString("batch",
		mcp.Required(),
		mcp.Description("Batch file name, e.g. batch_0001.json"),
	),
	mcp.WithArray("responses",
		mcp.Required(),
		mcp.Description("One object per prompt: {\"id\": \"<prompt id>\", \"response\": \"<reading text>\"}"),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":       map[string]any{"type": "string"},
				"response": map[string]any{"type": "string"},
			},
			"required": []string{"id", "response"},
		}),
	),
	mcp.WithBoolean("force",
		mcp.Description("Overwrite an existing responses file"),
	),
)

var coverageReportToolDef = mcp.NewTool("coverage_report",
	mcp.WithDescription("Analyze the processed batches and return a markdown coverage report: per-card counts, category/spread/phase shares, reversal ratio, question usage, and generation recommendations."),
	mcp.WithString("batches_dir",
		mcp.Required(),
		mcp.Description("Directory holding the batch files and their responses"),
	),
	mcp.WithString("report_path",
		mcp.Description("Optional path to also write the markdown report to"),
	),
	mcp.WithBoolean("html",
		mcp.Description("Additionally render report_path + \".html\" (requires report_path)"),
	),
	mcp.WithNumber("target_total",
		mcp.Description("Corpus size the recommendations aim for (default 10000)"),
	),
)
