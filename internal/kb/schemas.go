package kb

// Schema file names inside the schema directory.
const (
	EntrySchemaFile   = "entry.schema.json"
	SummarySchemaFile = "summary.schema.json"
	IndexSchemaFile   = "index.schema.json"
)

// SchemaDocuments maps schema file names to their canonical content, written
// out by Init. The entry schema cross-references shared definitions (status,
// id, resources, links) owned by the summary schema.
var SchemaDocuments = map[string]string{
	EntrySchemaFile:   entrySchema,
	SummarySchemaFile: summarySchema,
	IndexSchemaFile:   indexSchema,
}

const summarySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Othala Topic Summary",
  "type": "object",
  "required": ["id", "type", "topic", "status", "summary"],
  "additionalProperties": false,
  "properties": {
    "id": { "$ref": "#/definitions/id" },
    "type": { "const": "summary" },
    "topic": { "type": "string", "minLength": 1 },
    "status": { "$ref": "#/definitions/status" },
    "tags": { "type": "array", "items": { "type": "string" } },
    "date_range": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "start": { "type": "string" },
        "end": { "type": "string" }
      }
    },
    "summary": { "type": "string", "minLength": 1 },
    "learnings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["insight"],
        "additionalProperties": false,
        "properties": {
          "insight": { "type": "string" },
          "context": { "type": "string" },
          "details": { "type": "string" },
          "relevance": { "type": "array", "items": { "type": "string" } }
        }
      }
    },
    "decisions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["decision"],
        "additionalProperties": false,
        "properties": {
          "decision": { "type": "string" },
          "rationale": { "type": "string" },
          "trade_offs": { "type": "string" },
          "date": { "type": "string" }
        }
      }
    },
    "artifacts": { "type": "array", "items": { "type": "string" } },
    "open_questions": { "type": "array", "items": { "type": "string" } },
    "resources": { "$ref": "#/definitions/resources" },
    "links": { "$ref": "#/definitions/links" }
  },
  "definitions": {
    "id": { "type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$" },
    "status": {
      "type": "string",
      "enum": ["active", "archived", "reference", "blocked", "planned"]
    },
    "resources": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "title": { "type": "string" },
          "url": { "type": "string" },
          "type": { "type": "string" }
        }
      }
    },
    "links": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "relationship"],
        "additionalProperties": false,
        "properties": {
          "id": { "$ref": "#/definitions/id" },
          "relationship": {
            "type": "string",
            "enum": [
              "evolved_into", "evolved_from",
              "part_of", "contains",
              "blocked_by", "blocks",
              "supersedes", "superseded_by",
              "references", "referenced_by",
              "depends_on", "dependency_of",
              "enables", "enabled_by",
              "informs", "informed_by"
            ]
          },
          "notes": { "type": "string" }
        }
      }
    }
  }
}
`

const entrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Othala Journal Entry",
  "type": "object",
  "required": ["id", "type", "topic", "status", "date"],
  "additionalProperties": false,
  "properties": {
    "id": { "$ref": "summary.schema.json#/definitions/id" },
    "type": { "const": "entry" },
    "topic": { "type": "string", "minLength": 1 },
    "status": { "$ref": "summary.schema.json#/definitions/status" },
    "tags": { "type": "array", "items": { "type": "string" } },
    "date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
    "context": { "type": "string" },
    "approach": { "type": "string" },
    "outcome": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "worked": { "type": "array", "items": { "type": "string" } },
        "failed": { "type": "array", "items": { "type": "string" } },
        "surprised": { "type": "array", "items": { "type": "string" } }
      }
    },
    "commits": { "type": "array", "items": { "type": "string" } },
    "resources": { "$ref": "summary.schema.json#/definitions/resources" },
    "links": { "$ref": "summary.schema.json#/definitions/links" }
  }
}
`

const indexSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Othala Index",
  "type": "object",
  "required": ["version", "entries"],
  "additionalProperties": false,
  "properties": {
    "version": { "type": "string", "pattern": "^\\d+\\.\\d+\\.\\d+$" },
    "entries": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["path", "type"],
        "additionalProperties": false,
        "properties": {
          "path": { "type": "string" },
          "type": { "type": "string", "enum": ["entry", "summary"] }
        }
      }
    }
  }
}
`
