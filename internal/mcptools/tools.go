// Package mcptools exposes document sessions to MCP clients, so
// agents can open documents and read back section timing over stdio.
package mcptools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nick-skriabin/readtime/internal/config"
	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/importer"
	"github.com/nick-skriabin/readtime/internal/outline"
	"github.com/nick-skriabin/readtime/internal/render"
	"github.com/nick-skriabin/readtime/internal/session"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

// Register adds all document annotation tools to the MCP server.
func Register(s *server.MCPServer, store *session.Store, cfg config.Config) {
	s.AddTool(openDocumentTool(), openDocumentHandler(store, cfg))
	s.AddTool(listDocumentsTool(), listDocumentsHandler(store))
	s.AddTool(getTimelineTool(), getTimelineHandler(store))
	s.AddTool(updateDocumentTool(), updateDocumentHandler(store))
	s.AddTool(configureDocumentTool(), configureDocumentHandler(store))
	s.AddTool(toggleAnnotationsTool(), toggleAnnotationsHandler(store))
	s.AddTool(recomputeTool(), recomputeHandler(store))
	s.AddTool(closeDocumentTool(), closeDocumentHandler(store))
	s.AddTool(annotateFileTool(), annotateFileHandler(cfg))
}

// --- open_document ---

func openDocumentTool() mcp.Tool {
	return mcp.NewTool("open_document",
		mcp.WithDescription("Open a markdown document for reading time annotation. Returns the document ID and the initial section timeline."),
		mcp.WithString("name",
			mcp.Description("Document name, extension decides how it is parsed (e.g. guide.md)"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Document content. May be empty and filled in later with update_document."),
		),
		mcp.WithNumber("words_per_minute",
			mcp.Description("Reading rate override, words per minute"),
		),
		mcp.WithString("format",
			mcp.Description("Annotation format: full, range, or short"),
		),
	)
}

func openDocumentHandler(store *session.Store, cfg config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		if name == "" {
			return toolError(fmt.Errorf("name is required"))
		}
		tcfg := sessionConfig(cfg,
			req.GetFloat("words_per_minute", 0),
			req.GetString("format", ""))

		sess := store.Open(name, document.KindForName(name), req.GetString("content", ""), tcfg, session.Options{})

		var sb strings.Builder
		fmt.Fprintf(&sb, "opened %s as %s\n\n", name, sess.ID())
		sb.WriteString(timelineText(name, sess.Timeline()))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_documents ---

func listDocumentsTool() mcp.Tool {
	return mcp.NewTool("list_documents",
		mcp.WithDescription("List open documents with their IDs and pass counts."),
	)
}

func listDocumentsHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snaps := store.List()
		if len(snaps) == 0 {
			return mcp.NewToolResultText("No open documents."), nil
		}
		var sb strings.Builder
		for _, sn := range snaps {
			fmt.Fprintf(&sb, "%s  %s  %d passes\n", sn.ID, sn.Document.Name, sn.Passes)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- get_timeline ---

func getTimelineTool() mcp.Tool {
	return mcp.NewTool("get_timeline",
		mcp.WithDescription("Get the current section timeline of an open document."),
		mcp.WithString("id",
			mcp.Description("Document ID returned by open_document"),
			mcp.Required(),
		),
	)
}

func getTimelineHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := lookup(store, req)
		if err != nil {
			return toolError(err)
		}
		if !sess.Enabled() {
			return mcp.NewToolResultText("Annotations are disabled for this document."), nil
		}
		return mcp.NewToolResultText(timelineText(sess.Document().Name(), sess.Timeline())), nil
	}
}

// --- update_document ---

func updateDocumentTool() mcp.Tool {
	return mcp.NewTool("update_document",
		mcp.WithDescription("Replace the content of an open document. Identical content is a no-op; a real change recomputes after a short settle window."),
		mcp.WithString("id",
			mcp.Description("Document ID"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("New document content"),
			mcp.Required(),
		),
	)
}

func updateDocumentHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := lookup(store, req)
		if err != nil {
			return toolError(err)
		}
		if !sess.Changed(req.GetString("content", "")) {
			return mcp.NewToolResultText("Content unchanged, nothing scheduled."), nil
		}
		return mcp.NewToolResultText("Update scheduled."), nil
	}
}

// --- configure_document ---

func configureDocumentTool() mcp.Tool {
	return mcp.NewTool("configure_document",
		mcp.WithDescription("Change annotation settings of an open document. Invalid values are reported and the previous setting kept."),
		mcp.WithString("id",
			mcp.Description("Document ID"),
			mcp.Required(),
		),
		mcp.WithNumber("words_per_minute",
			mcp.Description("Reading rate, words per minute"),
		),
		mcp.WithString("format",
			mcp.Description("Annotation format: full, range, or short"),
		),
		mcp.WithBoolean("enabled",
			mcp.Description("Turn annotations on or off"),
		),
	)
}

func configureDocumentHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := lookup(store, req)
		if err != nil {
			return toolError(err)
		}

		args := req.GetArguments()
		var upd session.Update
		if _, ok := args["words_per_minute"]; ok {
			v := req.GetFloat("words_per_minute", 0)
			upd.WordsPerMinute = &v
		}
		if _, ok := args["format"]; ok {
			v := req.GetString("format", "")
			upd.Format = &v
		}
		if _, ok := args["enabled"]; ok {
			v := req.GetBool("enabled", true)
			upd.Enabled = &v
		}

		warnings := sess.Configure(upd)
		cfg := sess.Config()

		var sb strings.Builder
		for _, w := range warnings {
			fmt.Fprintf(&sb, "warning: %s\n", w)
		}
		fmt.Fprintf(&sb, "rate %v words per minute, format %s, annotations %s",
			cfg.WordsPerMinute, cfg.Format, onOff(sess.Enabled()))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- toggle_annotations ---

func toggleAnnotationsTool() mcp.Tool {
	return mcp.NewTool("toggle_annotations",
		mcp.WithDescription("Toggle annotations for a document. Turning off clears them; turning on recomputes immediately."),
		mcp.WithString("id",
			mcp.Description("Document ID"),
			mcp.Required(),
		),
	)
}

func toggleAnnotationsHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := lookup(store, req)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Annotations " + onOff(sess.Toggle()) + "."), nil
	}
}

// --- recompute ---

func recomputeTool() mcp.Tool {
	return mcp.NewTool("recompute",
		mcp.WithDescription("Force an immediate recompute pass and return the fresh timeline."),
		mcp.WithString("id",
			mcp.Description("Document ID"),
			mcp.Required(),
		),
	)
}

func recomputeHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := lookup(store, req)
		if err != nil {
			return toolError(err)
		}
		tl := sess.Recompute()
		if !sess.Enabled() {
			return mcp.NewToolResultText("Annotations are disabled for this document."), nil
		}
		return mcp.NewToolResultText(timelineText(sess.Document().Name(), tl)), nil
	}
}

// --- close_document ---

func closeDocumentTool() mcp.Tool {
	return mcp.NewTool("close_document",
		mcp.WithDescription("Close an open document and drop its annotations."),
		mcp.WithString("id",
			mcp.Description("Document ID"),
			mcp.Required(),
		),
	)
}

func closeDocumentHandler(store *session.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if !store.Delete(id) {
			return toolError(fmt.Errorf("document not found: %s", id))
		}
		return mcp.NewToolResultText("Document closed."), nil
	}
}

// --- annotate_file ---

func annotateFileTool() mcp.Tool {
	return mcp.NewTool("annotate_file",
		mcp.WithDescription("One-shot annotation of a file on disk. Supports markdown, text, HTML, PDF, DOCX, and CSV."),
		mcp.WithString("path",
			mcp.Description("Path to the file"),
			mcp.Required(),
		),
		mcp.WithNumber("words_per_minute",
			mcp.Description("Reading rate override, words per minute"),
		),
		mcp.WithString("format",
			mcp.Description("Annotation format: full, range, or short"),
		),
	)
}

func annotateFileHandler(cfg config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		content, err := importer.Load(path)
		if err != nil {
			return toolError(err)
		}

		tcfg := sessionConfig(cfg,
			req.GetFloat("words_per_minute", 0),
			req.GetString("format", ""))
		var headings []outline.Heading
		if importer.KindFor(path) == document.KindMarkdown {
			headings = outline.NewMarkdown().Outline([]byte(content))
		}
		tl := timeline.Compute(headings, document.SplitLines(content), tcfg)

		var sb strings.Builder
		render.New(&sb, true).Outline(filepath.Base(path), headings, tl)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func lookup(store *session.Store, req mcp.CallToolRequest) (*session.Session, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	sess := store.Get(id)
	if sess == nil {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	return sess, nil
}

// sessionConfig builds a session config from service defaults plus
// valid overrides. Zero or invalid overrides keep the defaults.
func sessionConfig(cfg config.Config, wpm float64, format string) timeline.Config {
	out := timeline.Config{
		WordsPerMinute: cfg.WordsPerMinute,
		Format:         timeline.Format(cfg.Format),
	}
	if wpm > 0 {
		out.WordsPerMinute = wpm
	}
	if format != "" {
		if f, err := timeline.ParseFormat(format); err == nil {
			out.Format = f
		}
	}
	return out
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func timelineText(name string, tl *timeline.Timeline) string {
	if tl == nil || len(tl.Entries) == 0 {
		return "No annotated sections.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", name)
	for _, e := range tl.Entries {
		fmt.Fprintf(&sb, "  %s %s (%d words)\n", e.Label, e.Heading.Title, e.Words)
	}
	fmt.Fprintf(&sb, "total %s (%d words)\n", timeline.DurationStamp(tl.TotalMinutes), tl.TotalWords)
	return sb.String()
}
