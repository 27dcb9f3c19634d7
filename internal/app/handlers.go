package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/advisor"
)

// maxMessageLen bounds ask_advisor input, matching the REST surface.
const maxMessageLen = 4000

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("SmartStock Advisor\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleAskAdvisor implements the ask_advisor tool
func handleAskAdvisor(svc *advisor.Service, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := request.RequireString("message")
		if err != nil || strings.TrimSpace(message) == "" {
			return errorResult("Error: message parameter is required"), nil
		}
		if len([]rune(message)) > maxMessageLen {
			return errorResult(fmt.Sprintf("Error: message exceeds %d characters", maxMessageLen)), nil
		}

		userID := request.GetString("user_id", "")
		if common.RequestMetaFromContext(ctx) == nil {
			ctx = common.WithRequestMeta(ctx, &common.RequestMeta{UserID: userID})
		}

		reply, err := svc.Process(ctx, models.Query{Text: message, UserID: userID})
		if err != nil {
			logger.Warn().Err(err).Str("tool", "ask_advisor").Msg("Advisor request rejected")
			return errorResult(advisor.UserMessage(err)), nil
		}
		return textResult(reply.Answer), nil
	}
}

// handleAssessIPO implements the assess_ipo tool
func handleAssessIPO(svc *advisor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil || strings.TrimSpace(name) == "" {
			return errorResult("Error: name parameter is required"), nil
		}
		_, text := svc.AssessIPO(name)
		return textResult(text), nil
	}
}

// handleListIPOs implements the list_ipos tool
func handleListIPOs(svc *advisor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatIPOTable(svc.LiveIPOs(ctx))), nil
	}
}

// formatIPOTable renders listings as a markdown table
func formatIPOTable(records []models.IPORecord) string {
	var sb strings.Builder
	sb.WriteString("# Current IPOs\n\n")
	sb.WriteString("| Name | Open | Close | Type | Status |\n")
	sb.WriteString("|------|------|-------|------|--------|\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n", r.Name, r.OpenDate, r.CloseDate, r.Type, r.Status)
	}
	return sb.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
