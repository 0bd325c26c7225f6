package mcpserver

// GuideURI is the resource URI of the usage guide.
const GuideURI = "blinko://guide"

// UsageGuide describes Blinko note types and tool conventions for LLM consumers.
const UsageGuide = `# Blinko Tool Guide

## Note types

| type | name        | use for                                   |
|------|-------------|-------------------------------------------|
| 0    | Flash note  | quick captures, ideas, one-liners         |
| 1    | Normal note | longer, structured Markdown notes         |
| 2    | Todo note   | tasks; complete them with complete_blinko_todo |

Search accepts ` + "`type`" + ` -1 (or no type) to match every kind.

## Conventions

1. **Note IDs** are integers assigned by Blinko. Every tool that targets an
   existing note takes ` + "`noteId`" + `. Find IDs with search_blinko_notes.
2. **Updates are sparse.** update_blinko_note only changes the fields you pass;
   omitted fields keep their current value.
3. **Archive vs. delete.** archive_blinko_note and complete_blinko_todo both set
   the archived flag and are reversible (update with ` + "`isArchived: false`" + `).
   delete_blinko_note is permanent.
4. **Recycle bin.** clear_blinko_recycle_bin permanently removes every note in
   the bin. Ask before calling it.
5. **Sharing.** share_blinko_note returns a public link. A ` + "`password`" + `
   must be exactly 6 digits. Pass ` + "`isCancel: true`" + ` to revoke the link.
6. **Search** uses semantic (AI) matching by default. Set
   ` + "`isUseAiQuery: false`" + ` for exact text matching. ` + "`startDate`" + ` and
   ` + "`endDate`" + ` take ISO-8601 timestamps.
7. **Content** is Markdown. Blinko treats ` + "`#tag`" + ` words as tags.
`
