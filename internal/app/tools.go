package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the SmartStock server version and status. Use this to verify connectivity."),
	)
}

// createAskAdvisorTool returns the ask_advisor tool definition
func createAskAdvisorTool() mcp.Tool {
	return mcp.NewTool("ask_advisor",
		mcp.WithDescription("Ask the financial education advisor a question about Indian stocks, IPOs or market concepts. "+
			"Trade ideas can be submitted as 'TRADING_RISK_ASSESSMENT: BUY 10 RELIANCE (stock) at 2450' for a risk review. "+
			"Answers are educational and never investment advice."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The question or trade request (max 4000 characters)"),
		),
		mcp.WithString("user_id",
			mcp.Description("Opaque caller identifier, used only for logging"),
		),
	)
}

// createAssessIPOTool returns the assess_ipo tool definition
func createAssessIPOTool() mcp.Tool {
	return mcp.NewTool("assess_ipo",
		mcp.WithDescription("Score an Indian IPO on promoter holding, company age and profit history. Returns a Low, Medium, High or Unknown risk tier with an explanation."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("IPO or company name (e.g., 'Swiggy', 'Ola Electric')"),
		),
	)
}

// createListIPOsTool returns the list_ipos tool definition
func createListIPOsTool() mcp.Tool {
	return mcp.NewTool("list_ipos",
		mcp.WithDescription("List current Indian IPOs with open and close dates, board type and status. Falls back to a static listing when the live calendar is unreachable."),
	)
}
