package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/blinko-mcp/internal/apperr"
	"github.com/starford/blinko-mcp/internal/blinko"
)

// Tool names.
const (
	ToolUpsertFlashNote  = "upsert_blinko_flash_note"
	ToolUpsertNote       = "upsert_blinko_note"
	ToolUpsertTodo       = "upsert_blinko_todo"
	ToolUpdateNote       = "update_blinko_note"
	ToolDeleteNote       = "delete_blinko_note"
	ToolArchiveNote      = "archive_blinko_note"
	ToolCompleteTodo     = "complete_blinko_todo"
	ToolShareNote        = "share_blinko_note"
	ToolSearchNotes      = "search_blinko_notes"
	ToolReviewDailyNotes = "review_blinko_daily_notes"
	ToolClearRecycleBin  = "clear_blinko_recycle_bin"
)

const noteIDDescription = "ID of the note"

func (s *Server) registerTools() {
	s.register(mcp.NewTool(ToolUpsertFlashNote,
		mcp.WithDescription("Write a flash note (type 0) to Blinko. Use for quick captures and short ideas."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text content of the note")),
	), s.upsert(blinko.Flash))

	s.register(mcp.NewTool(ToolUpsertNote,
		mcp.WithDescription("Write a normal note (type 1) to Blinko. Use for longer Markdown notes."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text content of the note")),
	), s.upsert(blinko.Normal))

	s.register(mcp.NewTool(ToolUpsertTodo,
		mcp.WithDescription("Write a todo (type 2) to Blinko."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text content of the todo")),
	), s.upsert(blinko.Todo))

	s.register(mcp.NewTool(ToolUpdateNote,
		mcp.WithDescription("Update an existing note. Only the fields you pass are changed."),
		mcp.WithNumber("noteId", mcp.Required(), mcp.Description("ID of the note to update")),
		mcp.WithString("content", mcp.Description("New text content")),
		mcp.WithNumber("type", mcp.Description("New note type: 0 flash, 1 normal, 2 todo"), mcp.Min(0), mcp.Max(2)),
		mcp.WithBoolean("isArchived", mcp.Description("Archive (true) or unarchive (false) the note")),
		mcp.WithBoolean("isRecycle", mcp.Description("Move the note to (true) or out of (false) the recycle bin")),
		mcp.WithBoolean("isTop", mcp.Description("Pin (true) or unpin (false) the note")),
	), s.updateNote)

	s.register(mcp.NewTool(ToolDeleteNote,
		mcp.WithDescription("Permanently delete a note. This cannot be undone."),
		mcp.WithNumber("noteId", mcp.Required(), mcp.Description("ID of the note to delete")),
		mcp.WithDestructiveHintAnnotation(true),
	), s.deleteNote)

	s.register(mcp.NewTool(ToolArchiveNote,
		mcp.WithDescription("Archive a note."),
		mcp.WithNumber("noteId", mcp.Required(), mcp.Description("ID of the note to archive")),
	), s.archive("Note %d archived successfully."))

	s.register(mcp.NewTool(ToolCompleteTodo,
		mcp.WithDescription("Mark a todo as completed. Completed todos are archived."),
		mcp.WithNumber("noteId", mcp.Required(), mcp.Description("ID of the todo to complete")),
	), s.archive("Todo %d completed successfully."))

	s.register(mcp.NewTool(ToolShareNote,
		mcp.WithDescription("Share a note through a public link, or cancel an existing share."),
		mcp.WithNumber("noteId", mcp.Required(), mcp.Description(noteIDDescription)),
		mcp.WithString("password", mcp.Description("Optional 6-digit password protecting the link"), mcp.Pattern(PasswordPattern)),
		mcp.WithBoolean("isCancel", mcp.Description("Cancel sharing instead of creating a link"), mcp.DefaultBool(false)),
	), s.shareNote)

	s.register(mcp.NewTool(ToolSearchNotes,
		mcp.WithDescription("Search notes in Blinko."),
		mcp.WithString("searchText", mcp.Required(), mcp.Description("Text to search for")),
		mcp.WithNumber("size", mcp.Description("Maximum number of results"), mcp.DefaultNumber(blinko.DefaultSearchSize)),
		mcp.WithNumber("type", mcp.Description("Note type filter: -1 all, 0 flash, 1 normal, 2 todo"), mcp.DefaultNumber(-1)),
		mcp.WithBoolean("isArchived", mcp.Description("Search archived notes"), mcp.DefaultBool(false)),
		mcp.WithBoolean("isRecycle", mcp.Description("Search notes in the recycle bin"), mcp.DefaultBool(false)),
		mcp.WithBoolean("isUseAiQuery", mcp.Description("Use semantic (AI) matching instead of exact text"), mcp.DefaultBool(true)),
		mcp.WithString("startDate", mcp.Description("Only notes created at or after this ISO-8601 time")),
		mcp.WithString("endDate", mcp.Description("Only notes created at or before this ISO-8601 time")),
		mcp.WithBoolean("hasTodo", mcp.Description("Only notes containing todo items"), mcp.DefaultBool(false)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.searchNotes)

	s.register(mcp.NewTool(ToolReviewDailyNotes,
		mcp.WithDescription("List today's notes scheduled for review."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.reviewDailyNotes)

	s.register(mcp.NewTool(ToolClearRecycleBin,
		mcp.WithDescription("Permanently remove every note in the recycle bin."),
		mcp.WithDestructiveHintAnnotation(true),
	), s.clearRecycleBin)
}

func (s *Server) upsert(typ blinko.NoteType) toolFunc {
	return func(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error) {
		const op = "upsert note"
		a, err := parseContentArgs(op, args)
		if err != nil {
			return nil, err
		}
		note, err := c.UpsertNote(ctx, a.Content, typ)
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("%s created successfully. Note ID: %d", typ.Label(), note.ID)), nil
	}
}

func (s *Server) updateNote(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error) {
	a, err := parseUpdateArgs("update note", args)
	if err != nil {
		return nil, err
	}
	if _, err := c.UpdateNote(ctx, a.NoteID, a.Update); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Note %d updated successfully.", a.NoteID)), nil
}

func (s *Server) deleteNote(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error) {
	a, err := parseNoteIDArgs("delete note", args)
	if err != nil {
		return nil, err
	}
	if _, err := c.DeleteNote(ctx, a.NoteID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Note %d deleted permanently.", a.NoteID)), nil
}

// archive serves both archive_blinko_note and complete_blinko_todo; only the
// confirmation wording differs.
func (s *Server) archive(confirmation string) toolFunc {
	return func(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error) {
		a, err := parseNoteIDArgs("archive note", args)
		if err != nil {
			return nil, err
		}
		if _, err := c.ArchiveNote(ctx, a.NoteID); err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf(confirmation, a.NoteID)), nil
	}
}

func (s *Server) shareNote(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error) {
	a, err := parseShareArgs("share note", args)
	if err != nil {
		return nil, err
	}
	res, err := c.ShareNote(ctx, a.request())
	if err != nil {
		return nil, err
	}

	if a.IsCancel {
		return textResult(fmt.Sprintf("Sharing cancelled for note %d.", a.NoteID)), nil
	}

	blocks := []string{fmt.Sprintf("Note %d shared successfully.", a.NoteID)}
	if res.SharePassword != "" {
		blocks = append(blocks, "Password: "+res.SharePassword)
	}
	link := res.ShareEncryptedURL
	if link == "" {
		link = "N/A"
	}
	blocks = append(blocks, "Share link: "+link)
	return textResult(blocks...), nil
}

func (s *Server) searchNotes(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error) {
	a, err := parseSearchArgs("search notes", args)
	if err != nil {
		return nil, err
	}
	notes, err := c.SearchNotes(ctx, a.Query)
	if err != nil {
		return nil, err
	}
	return notesResult(fmt.Sprintf("Found %d note(s):", len(notes)), notes, s.loc), nil
}

func (s *Server) reviewDailyNotes(ctx context.Context, c NoteClient, _ map[string]any) (*mcp.CallToolResult, error) {
	notes, err := c.DailyReviewNotes(ctx)
	if err != nil {
		return nil, err
	}
	return notesResult(fmt.Sprintf("Found %d note(s) for daily review:", len(notes)), notes, s.loc), nil
}

func (s *Server) clearRecycleBin(ctx context.Context, c NoteClient, _ map[string]any) (*mcp.CallToolResult, error) {
	const op = "clear recycle bin"
	res, err := c.ClearRecycleBin(ctx)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, apperr.New(apperr.KindUpstream, op, "blinko did not report success")
	}
	return textResult("Recycle bin cleared successfully."), nil
}
