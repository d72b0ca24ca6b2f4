package mcp

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/hiroi/api"
	"github.com/ka2n/hiroi/api/extract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

var validate = validator.New()

func InitTools() []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(ExtractLinks()))
	tools = append(tools, newServerTool(CollectLinks()))

	return tools
}

// decodeArguments fills args from the tool call and validates it
func decodeArguments(ctx context.Context, req mcp.CallToolRequest, args any) error {
	if err := mapstructure.Decode(req.Params.Arguments, args); err != nil {
		return err
	}
	return validate.StructCtx(ctx, args)
}

// toolError reports err to the client with its code when it has one
func toolError(err error) *mcp.CallToolResult {
	msg := err.Error()
	if fmsg := failure.MessageOf(err); fmsg != "" {
		msg = fmsg.String()
	}
	if code := api.CodeOf(err); code != "" {
		msg = string(code) + ": " + msg
	}
	return mcp.NewToolResultError(msg)
}

func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(b))
}

func ExtractLinks() (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"extract_links",
			mcp.WithDescription("List the link references in an HTML document with the element and attribute each was found in. Nothing is fetched or resolved."),
			mcp.WithString("html", mcp.Required(), mcp.Description("HTML source")),
			mcp.WithBoolean("include_text_links", mcp.Description("Also report absolute URLs written in text content")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				HTML             string `mapstructure:"html" validate:"required"`
				IncludeTextLinks bool   `mapstructure:"include_text_links"`
			}
			var args ToolArguments
			if err := decodeArguments(ctx, req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			type Links struct {
				Links []extract.Occurrence `json:"links"`
			}
			return jsonResult(Links{Links: api.Extract(args.HTML, args.IncludeTextLinks)}), nil
		}
}

func CollectLinks() (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"collect_links",
			mcp.WithDescription("Fetch an http(s) document and return the links in its attributes resolved against the document URL"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http or https URL of the document")),
			mcp.WithString("on_resolution_error",
				mcp.Description("What to do with a link that cannot be resolved: abort (default) fails the call, skip leaves the link out"),
				mcp.Enum(lo.Map(api.ErrorPolicies, func(p api.ErrorPolicy, _ int) string { return p.String() })...),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				URL               string `mapstructure:"url" validate:"required"`
				OnResolutionError string `mapstructure:"on_resolution_error" validate:"omitempty,oneof=abort skip"`
			}
			var args ToolArguments
			if err := decodeArguments(ctx, req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			collector := api.Default()
			if args.OnResolutionError == string(api.SkipOnError) {
				collector = api.NewCollector(api.Config{OnResolutionError: api.SkipOnError})
				defer collector.Close()
			}

			links, err := collector.Collect(ctx, args.URL)
			if err != nil {
				return toolError(err), nil
			}

			type Document struct {
				Document string     `json:"document"`
				Links    []api.Link `json:"links"`
			}
			return jsonResult(Document{Document: args.URL, Links: links}), nil
		}
}
