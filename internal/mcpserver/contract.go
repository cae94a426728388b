package mcpserver

// RecordFormatContract describes the canonical YAML record format that
// LLM consumers should follow when creating records.
const RecordFormatContract = `# Othala Record Format Contract

Every record stored in Othala is a single YAML document under ` + "`entries/`" + ` or
` + "`summaries/`" + `, registered in ` + "`.othala/index.yaml`" + `.

## Shared fields

` + "```" + `yaml
id: semaphore-protocol        # REQUIRED - lowercase alphanumeric + hyphens, globally unique
type: entry                   # REQUIRED - "entry" or "summary"
topic: Semaphore Protocol     # REQUIRED
status: active                # REQUIRED - active | archived | reference | blocked | planned
tags: [zk, identity]          # OPTIONAL
links:                        # OPTIONAL - stored on the source record only
  - id: other-record
    relationship: references  # one of the 16-symbol relationship alphabet
    notes: optional free text
` + "```" + `

## Journal entry (type: entry)

Adds: ` + "`date`" + ` (REQUIRED, YYYY-MM-DD), ` + "`context`" + `, ` + "`approach`" + `,
` + "`outcome`" + ` with ` + "`worked`" + `/` + "`failed`" + `/` + "`surprised`" + ` lists,
` + "`commits`" + `, ` + "`resources`" + `.

## Topic summary (type: summary)

Adds: ` + "`summary`" + ` (REQUIRED free text), ` + "`date_range`" + `, ` + "`learnings`" + `
(each with a required ` + "`insight`" + `), ` + "`decisions`" + ` (each with a required
` + "`decision`" + `), ` + "`artifacts`" + `, ` + "`open_questions`" + `, ` + "`resources`" + `.

## Relationships

Eight inverse pairs: evolved_into/evolved_from, part_of/contains,
blocked_by/blocks, supersedes/superseded_by, references/referenced_by,
depends_on/dependency_of, enables/enabled_by, informs/informed_by.
Backlinks are derived from the inverse direction; never write them yourself.

## Rules

1. Records must validate against the schemas in ` + "`.othala/schemas/`" + `.
2. Do not edit ` + "`.othala/index.yaml`" + ` by hand; the store maintains it.
3. Keep ids stable: renaming a record means a new id and a new file.
`
