package mcpserver

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/blinko-mcp/internal/blinko"
)

const displayLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// textResult builds a tool result with one text block per entry.
func textResult(blocks ...string) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, mcp.NewTextContent(b))
	}
	return &mcp.CallToolResult{Content: content}
}

// notesResult renders a header followed by one block per note.
func notesResult(header string, notes []blinko.Note, loc *time.Location) *mcp.CallToolResult {
	blocks := make([]string, 0, len(notes)+1)
	blocks = append(blocks, header)
	for _, n := range notes {
		blocks = append(blocks, formatNote(n, loc))
	}
	return textResult(blocks...)
}

func formatNote(n blinko.Note, loc *time.Location) string {
	return fmt.Sprintf("[%d] [%s] %s\nCreated: %s | Updated: %s",
		n.ID, n.Type.Label(), n.Content,
		formatTimestamp(n.CreatedAt, loc), formatTimestamp(n.UpdatedAt, loc))
}

// formatTimestamp renders an ISO-8601 timestamp in loc, or returns raw unchanged
// when it does not parse.
func formatTimestamp(raw string, loc *time.Location) string {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if loc != nil {
			t = t.In(loc)
		}
		return t.Format(displayLayout)
	}
	return raw
}
