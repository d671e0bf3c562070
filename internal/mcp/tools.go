package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/compliance"
	"github.com/rpggio/hygrotrack/internal/domain/department"
	"github.com/rpggio/hygrotrack/internal/domain/record"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_standards",
		Description: "List the fabric standards and their humidity limits",
	}, listStandardsHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "classify_reading",
		Description: "Classify one humidity reading against its fabric standard: Normal, Potential Risk or Exceed Standard",
	}, classifyHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "department_policy",
		Description: "Get a department's humidity threshold, time slots, product-check support and inspection guidance",
	}, departmentPolicyHandler())

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_record",
		Description: "Create an Environment or Product inspection record and return it with its computed status",
	}, createRecordHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_record",
		Description: "Get a record with its computed status, section risks, spot checks and re-check history",
	}, getRecordHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_records",
		Description: "List records newest first, filtered by factory, department, type or computed status",
	}, listRecordsHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "dashboard",
		Description: "Count records needing action, resolved and safe, grouped by day",
	}, dashboardHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_spot_check",
		Description: "Submit a 4-point spot check for an Environment record in Take Action",
	}, spotCheckHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_product_recheck",
		Description: "Submit re-measured sets for a Product record in Take Action; the previous sets move to history",
	}, recheckHandler(svc.Records))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_activity",
		Description: "List the activity log of a record, newest first",
	}, recordActivityHandler(svc.Records, svc.Activity))
}

func listStandardsHandler(records RecordService) sdkmcp.ToolHandlerFor[ListStandardsInput, ListStandardsOutput] {
	return func(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListStandardsInput) (*sdkmcp.CallToolResult, ListStandardsOutput, error) {
		return nil, toStandardsOutput(records.Standards().Standards()), nil
	}
}

func classifyHandler(records RecordService) sdkmcp.ToolHandlerFor[ClassifyInput, ClassifyOutput] {
	return func(_ context.Context, _ *sdkmcp.CallToolRequest, input ClassifyInput) (*sdkmcp.CallToolResult, ClassifyOutput, error) {
		reg := records.Standards()
		out := ClassifyOutput{Fabric: input.Fabric, Humidity: input.Humidity}
		if c, ok := compliance.Classify(reg, input.Fabric, input.Humidity); ok {
			out.Classified = true
			out.Classification = string(c)
		}
		if std, ok := reg.Lookup(input.Fabric); ok {
			out.Limit = std.Limit
		}
		return nil, out, nil
	}
}

func departmentPolicyHandler() sdkmcp.ToolHandlerFor[DepartmentPolicyInput, PolicyOutput] {
	return func(_ context.Context, _ *sdkmcp.CallToolRequest, input DepartmentPolicyInput) (*sdkmcp.CallToolResult, PolicyOutput, error) {
		if !department.IsDepartment(input.Department) {
			return nil, PolicyOutput{}, &APIError{
				Code:         "UNKNOWN_DEPARTMENT",
				Message:      fmt.Sprintf("unknown department %q", input.Department),
				RecoveryHint: "Known departments: " + strings.Join(department.Departments, ", "),
			}
		}
		return nil, toPolicyOutput(department.PolicyFor(input.Department)), nil
	}
}

func createRecordHandler(records RecordService) sdkmcp.ToolHandlerFor[CreateRecordInput, RecordOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CreateRecordInput) (*sdkmcp.CallToolResult, RecordOutput, error) {
		view, err := records.Create(ctx, getTenantID(ctx), record.CreateRequest{
			Factory:     input.Factory,
			Department:  input.Department,
			Type:        record.Type(input.Type),
			TimeSlot:    input.TimeSlot,
			Operator:    input.Operator,
			Temperature: input.Temperature,
			Humidity:    input.Humidity,
			Room:        input.Room,
			Line:        input.Line,
			SemiSets:    fromSetInputs(input.SemiSets),
			ProductSets: fromSetInputs(input.ProductSets),
		})
		if err != nil {
			return nil, RecordOutput{}, toolError(err)
		}
		return nil, toRecordOutput(*view), nil
	}
}

func getRecordHandler(records RecordService) sdkmcp.ToolHandlerFor[GetRecordInput, RecordOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetRecordInput) (*sdkmcp.CallToolResult, RecordOutput, error) {
		view, err := records.View(ctx, getTenantID(ctx), input.ID)
		if err != nil {
			return nil, RecordOutput{}, toolError(err)
		}
		return nil, toRecordOutput(*view), nil
	}
}

func listRecordsHandler(records RecordService) sdkmcp.ToolHandlerFor[ListRecordsInput, ListRecordsOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input ListRecordsInput) (*sdkmcp.CallToolResult, ListRecordsOutput, error) {
		views, err := records.List(ctx, getTenantID(ctx), record.ListOptions{
			Factory:    input.Factory,
			Department: input.Department,
			Type:       record.Type(input.Type),
			Status:     record.Status(input.Status),
			Limit:      input.Limit,
			Offset:     input.Offset,
		})
		if err != nil {
			return nil, ListRecordsOutput{}, toolError(err)
		}
		out := ListRecordsOutput{Records: make([]RecordOutput, len(views))}
		for i, v := range views {
			out.Records[i] = toRecordOutput(v)
		}
		return nil, out, nil
	}
}

func dashboardHandler(records RecordService) sdkmcp.ToolHandlerFor[DashboardInput, DashboardOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input DashboardInput) (*sdkmcp.CallToolResult, DashboardOutput, error) {
		d, err := records.Dashboard(ctx, getTenantID(ctx), record.ListOptions{
			Factory:    input.Factory,
			Department: input.Department,
			Type:       record.Type(input.Type),
		})
		if err != nil {
			return nil, DashboardOutput{}, toolError(err)
		}
		return nil, toDashboardOutput(*d), nil
	}
}

func spotCheckHandler(records RecordService) sdkmcp.ToolHandlerFor[SpotCheckInput, RecordOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input SpotCheckInput) (*sdkmcp.CallToolResult, RecordOutput, error) {
		if len(input.Positions) != 4 {
			return nil, RecordOutput{}, toolError(fmt.Errorf("%w: a spot check needs exactly 4 positions, got %d", record.ErrInvalidInput, len(input.Positions)))
		}
		var positions [4]record.Position
		for i, p := range input.Positions {
			positions[i] = record.Position{Fabric: p.Fabric, Humidity: p.Humidity}
		}

		view, err := records.SubmitSpotCheck(ctx, getTenantID(ctx), record.SpotCheckRequest{
			ID:        input.ID,
			Positions: positions,
		})
		if err != nil {
			return nil, RecordOutput{}, toolError(err)
		}
		return nil, toRecordOutput(*view), nil
	}
}

func recheckHandler(records RecordService) sdkmcp.ToolHandlerFor[RecheckInput, RecordOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RecheckInput) (*sdkmcp.CallToolResult, RecordOutput, error) {
		view, err := records.SubmitProductRecheck(ctx, getTenantID(ctx), record.RecheckRequest{
			ID:          input.ID,
			SemiSets:    fromSetInputs(input.SemiSets),
			ProductSets: fromSetInputs(input.ProductSets),
		})
		if err != nil {
			return nil, RecordOutput{}, toolError(err)
		}
		return nil, toRecordOutput(*view), nil
	}
}

func recordActivityHandler(records RecordService, activities ActivityService) sdkmcp.ToolHandlerFor[RecordActivityInput, RecordActivityOutput] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RecordActivityInput) (*sdkmcp.CallToolResult, RecordActivityOutput, error) {
		tenantID := getTenantID(ctx)
		if _, err := records.View(ctx, tenantID, input.ID); err != nil {
			return nil, RecordActivityOutput{}, toolError(err)
		}
		opts := activity.ListActivityOptions{RecordID: input.ID, Limit: input.Limit}
		for _, t := range input.Types {
			opts.Types = append(opts.Types, activity.ActivityType(t))
		}
		entries, err := activities.GetRecentActivity(ctx, tenantID, opts)
		if err != nil {
			return nil, RecordActivityOutput{}, toolError(err)
		}
		return nil, toActivityOutput(entries), nil
	}
}
