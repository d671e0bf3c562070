package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/hygrotrack/internal/domain/standard"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `hygrotrack records humidity inspections for garment factories and tracks the follow-up work they trigger.

Core concepts:
- Fabric standard: a fabric label with a maximum humidity limit. A reading is Normal below the limit, Potential Risk exactly at it, Exceed Standard above it.
- Record: one inspection. Environment records carry an ambient temperature and humidity; Product records (Sewing Room only) carry semi-finished and finished measurement sets.
- Status: computed on every read. "Take Action", "Resolved" or "No action needed".

Workflow:
1) Orient: list_standards and department_policy tell you valid fabrics, time slots and thresholds.
2) Record: create_record. The response carries the computed status.
3) Follow up: for a record in "Take Action", submit_spot_check (Environment, four readings) or submit_product_recheck (Product, new sets).
4) Review: list_records, dashboard and record_activity.

Docs: hygrotrack://docs/workflow, hygrotrack://standards
`

const workflowDoc = `# Inspection workflow

## Environment records

1. Measure ambient temperature and humidity and call create_record with type Environment.
2. The record needs action when humidity is above the department threshold: 50% in Print, 65% everywhere else.
3. Take four readings around the area with the fabric present at each point and call submit_spot_check.
   - The round passes when every reading is at or below its fabric limit. The record becomes Resolved.
   - A failed round keeps the record in Take Action. Fix the conditions and submit another round.

## Product records

1. Only the Sewing Room records product checks. Pick the room and line, then fill the semi-finished and finished sets.
2. Rows with neither an order reference nor a humidity reading are dropped.
3. A section is High Risk when any reading exceeds its fabric limit. Either section at High Risk puts the record in Take Action.
4. Re-measure and call submit_product_recheck. The previous sets are archived in the history and the new sets replace them.
   - If the new sets are not High Risk the record becomes Resolved.

## Errors

- FOLLOW_UP_NOT_REQUIRED: the record is not in Take Action.
- WRONG_RECORD_TYPE: spot checks are for Environment records, re-checks for Product records.
- CONFLICT: someone else updated the record first. Reload it with get_record.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

func docResources(reg *standard.Registry) []docResource {
	return []docResource{
		{
			URI:         "hygrotrack://docs/workflow",
			Name:        "workflow",
			Title:       "Inspection workflow",
			Description: "How records are created, when they need action and how follow-ups resolve them.",
			Content:     func() string { return workflowDoc },
		},
		{
			URI:         "hygrotrack://standards",
			Name:        "standards",
			Title:       "Fabric humidity standards",
			Description: "The fabric standards readings are classified against.",
			Content:     func() string { return standardsTable(reg) },
		},
	}
}

func standardsTable(reg *standard.Registry) string {
	var b strings.Builder
	b.WriteString("# Fabric humidity standards\n\n| Fabric | Limit (%) |\n|---|---|\n")
	for _, s := range reg.Standards() {
		fmt.Fprintf(&b, "| %s | %g |\n", s.Label, s.Limit)
	}
	return b.String()
}

func registerDocResources(server *sdkmcp.Server, reg *standard.Registry) {
	for _, doc := range docResources(reg) {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content(),
				}},
			}, nil
		})
	}
}
